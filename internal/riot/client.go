package riot

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"github.com/valyala/fasthttp"

	"github.com/Kash1r/league-data-collector/internal/config"
	"github.com/Kash1r/league-data-collector/internal/constants"
	"github.com/Kash1r/league-data-collector/internal/ratelimit"
)

// Router maps a platform region code (na1, euw1, kr, ...) to base URLs for
// the account and match APIs. The concrete mapping is owned by the caller.
type Router interface {
	AccountBaseURL(region string) string
	MatchBaseURL(region string) string
}

// Client talks to the Riot API. Every request acquires a permit from the
// shared governor before going out.
type Client struct {
	apiKey   string
	client   *fasthttp.Client
	governor *ratelimit.Governor
	routes   Router
	logger   zerolog.Logger
}

func NewClient(cfg *config.Config, governor *ratelimit.Governor, routes Router, logger zerolog.Logger) *Client {
	return &Client{
		apiKey: cfg.RiotAPIKey,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		governor: governor,
		routes:   routes,
		logger:   logger,
	}
}

// GetAccountByRiotID resolves a game name + tag line into an account with a
// puuid.
func (c *Client) GetAccountByRiotID(ctx context.Context, region, gameName, tagLine string) (*Account, error) {
	u := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s",
		c.routes.AccountBaseURL(region), url.PathEscape(gameName), url.PathEscape(tagLine))
	return getJSON[Account](ctx, c, u)
}

// MatchListOptions narrows a match-id listing. Count is clamped to 1..100;
// Queue filters by queue id when non-zero.
type MatchListOptions struct {
	Start int
	Count int
	Queue int
}

// GetMatchIDs lists recent match ids for a puuid, most recent first.
func (c *Client) GetMatchIDs(ctx context.Context, region, puuid string, opts MatchListOptions) ([]string, error) {
	count := opts.Count
	if count < 1 {
		count = constants.DefaultMatchCount
	}
	if count > constants.MaxMatchCount {
		count = constants.MaxMatchCount
	}

	params := url.Values{}
	params.Set("start", strconv.Itoa(opts.Start))
	params.Set("count", strconv.Itoa(count))
	if opts.Queue != 0 {
		params.Set("queue", strconv.Itoa(opts.Queue))
	}

	u := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?%s",
		c.routes.MatchBaseURL(region), url.PathEscape(puuid), params.Encode())
	ids, err := getJSON[[]string](ctx, c, u)
	if err != nil {
		return nil, err
	}
	return *ids, nil
}

// GetMatch fetches the full detail for one match id.
func (c *Client) GetMatch(ctx context.Context, region, matchID string) (*MatchDetail, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/%s",
		c.routes.MatchBaseURL(region), url.PathEscape(matchID))
	return getJSON[MatchDetail](ctx, c, u)
}

// GetTimeline fetches the frame-by-frame timeline for one match id.
func (c *Client) GetTimeline(ctx context.Context, region, matchID string) (*TimelineDetail, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/%s/timeline",
		c.routes.MatchBaseURL(region), url.PathEscape(matchID))
	return getJSON[TimelineDetail](ctx, c, u)
}

func getJSON[T any](ctx context.Context, c *Client, url string) (*T, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		c.logger.Error().Err(err).Str("url", url).Msg("unexpected payload shape")
		return nil, &Error{Kind: KindDecode, URL: url, Err: err}
	}
	return &result, nil
}

// get performs one governed GET with retry. Rate-limit responses back off
// starting at the server-suggested delay (floor 1s), transient failures back
// off exponentially; both retry budgets are bounded independently.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	var (
		body       []byte
		retryAfter time.Duration
		rlNext     time.Duration
		rlAttempts int
		trAttempts int
	)

	exp := retry.NewExponential(constants.RetryBackoffFloor)
	backoff := retry.BackoffFunc(func() (time.Duration, bool) {
		if retryAfter > 0 {
			d := retryAfter
			retryAfter = 0
			return d, false
		}
		return exp.Next()
	})
	maxRetries := uint64(constants.MaxRateLimitRetries + constants.MaxTransientRetries)

	err := retry.Do(ctx, retry.WithMaxRetries(maxRetries, backoff), func(ctx context.Context) error {
		if err := c.governor.Acquire(ctx); err != nil {
			return err
		}

		status, hint, payload, err := c.send(ctx, url)
		if err != nil {
			trAttempts++
			apiErr := &Error{Kind: KindTransient, URL: url, Err: err}
			if trAttempts > constants.MaxTransientRetries {
				return apiErr
			}
			c.logger.Warn().Err(err).Str("url", url).Int("attempt", trAttempts).Msg("request failed, retrying")
			return retry.RetryableError(apiErr)
		}

		switch {
		case status == fasthttp.StatusOK:
			body = payload
			return nil

		case status == fasthttp.StatusNotFound:
			return &Error{Kind: KindNotFound, Status: status, URL: url}

		case status == fasthttp.StatusTooManyRequests:
			rlAttempts++
			apiErr := &Error{Kind: KindRateLimited, Status: status, URL: url}
			if rlAttempts > constants.MaxRateLimitRetries {
				return apiErr
			}
			switch {
			case hint > 0:
				rlNext = hint
			case rlNext == 0:
				rlNext = constants.RetryBackoffFloor
			default:
				rlNext *= 2
			}
			retryAfter = rlNext
			c.logger.Warn().
				Str("url", url).
				Dur("retry_after", retryAfter).
				Int("attempt", rlAttempts).
				Msg("rate limited upstream, backing off")
			return retry.RetryableError(apiErr)

		case status >= fasthttp.StatusInternalServerError:
			trAttempts++
			apiErr := &Error{Kind: KindTransient, Status: status, URL: url}
			if trAttempts > constants.MaxTransientRetries {
				return apiErr
			}
			c.logger.Warn().Int("status", status).Str("url", url).Int("attempt", trAttempts).Msg("server error, retrying")
			return retry.RetryableError(apiErr)

		default:
			return &Error{Kind: KindInvalid, Status: status, URL: url}
		}
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// send issues a single request and returns the status, the Retry-After hint
// (zero when absent) and a copy of the body.
func (c *Client) send(ctx context.Context, url string) (int, time.Duration, []byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("X-Riot-Token", c.apiKey)
	req.Header.Set("Accept", "application/json")

	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return 0, 0, nil, err
		}
	} else {
		if err := c.client.Do(req, resp); err != nil {
			return 0, 0, nil, err
		}
	}

	var hint time.Duration
	if ra := string(resp.Header.Peek("Retry-After")); ra != "" {
		if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
			hint = time.Duration(secs) * time.Second
		}
	}

	body := append([]byte(nil), resp.Body()...)
	return resp.StatusCode(), hint, body, nil
}
