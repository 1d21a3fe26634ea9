package cli

import (
	"strings"

	"github.com/Kash1r/league-data-collector/internal/riot"
)

// staticRoutes maps platform regions onto the regional routing hosts that
// serve the account and match APIs.
type staticRoutes struct{}

var regionalRoute = map[string]string{
	"na1":  "americas",
	"br1":  "americas",
	"la1":  "americas",
	"la2":  "americas",
	"oc1":  "americas",
	"eun1": "europe",
	"euw1": "europe",
	"tr1":  "europe",
	"ru":   "europe",
	"jp1":  "asia",
	"kr":   "asia",
	"ph2":  "sea",
	"sg2":  "sea",
	"th2":  "sea",
	"tw2":  "sea",
	"vn2":  "sea",
}

func (staticRoutes) base(region string) string {
	route, ok := regionalRoute[strings.ToLower(region)]
	if !ok {
		route = "americas"
	}
	return "https://" + route + ".api.riotgames.com"
}

func (r staticRoutes) AccountBaseURL(region string) string {
	return r.base(region)
}

func (r staticRoutes) MatchBaseURL(region string) string {
	return r.base(region)
}

func newRouter() riot.Router {
	return staticRoutes{}
}
