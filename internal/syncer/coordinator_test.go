package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kash1r/league-data-collector/internal/domain"
	"github.com/Kash1r/league-data-collector/internal/riot"
)

const targetPuuid = "puuid-target"

type fakeRemote struct {
	mu             sync.Mutex
	account        *riot.Account
	accountErr     error
	ids            []string
	idsErr         error
	matchErrs      map[string]error
	timelineErr    error
	timelineFrames []json.RawMessage
	matchCalls     []string
}

func (f *fakeRemote) GetAccountByRiotID(context.Context, string, string, string) (*riot.Account, error) {
	if f.accountErr != nil {
		return nil, f.accountErr
	}
	return f.account, nil
}

func (f *fakeRemote) GetMatchIDs(context.Context, string, string, riot.MatchListOptions) ([]string, error) {
	if f.idsErr != nil {
		return nil, f.idsErr
	}
	return f.ids, nil
}

func (f *fakeRemote) GetMatch(_ context.Context, _ string, matchID string) (*riot.MatchDetail, error) {
	f.mu.Lock()
	f.matchCalls = append(f.matchCalls, matchID)
	f.mu.Unlock()
	if err := f.matchErrs[matchID]; err != nil {
		return nil, err
	}
	return testDetail(matchID), nil
}

func (f *fakeRemote) GetTimeline(_ context.Context, _ string, matchID string) (*riot.TimelineDetail, error) {
	if f.timelineErr != nil {
		return nil, f.timelineErr
	}
	frames := f.timelineFrames
	if frames == nil {
		frames = []json.RawMessage{json.RawMessage(`{"timestamp":0}`)}
	}
	return &riot.TimelineDetail{
		Info: riot.TimelineInfo{
			FrameInterval: 60000,
			Frames:        frames,
		},
	}, nil
}

// fakeStore serves both the planner's completeness checks and the
// coordinator's writes.
type fakeStore struct {
	mu        sync.Mutex
	complete  map[string]bool
	upsertErr map[string]error
	bundles   map[string]domain.MatchBundle
	summoner  *domain.Summoner
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		complete:  map[string]bool{},
		upsertErr: map[string]error{},
		bundles:   map[string]domain.MatchBundle{},
	}
}

func (s *fakeStore) HasCompleteMatch(_ context.Context, matchID string) (bool, error) {
	return s.complete[matchID], nil
}

func (s *fakeStore) Upsert(_ context.Context, b domain.MatchBundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.upsertErr[b.Match.MatchID]; err != nil {
		return err
	}
	s.bundles[b.Match.MatchID] = b
	return nil
}

type fakeSummoners struct {
	store *fakeStore
}

func (f *fakeSummoners) Upsert(_ context.Context, s *domain.Summoner) error {
	f.store.summoner = s
	return nil
}

func testDetail(matchID string) *riot.MatchDetail {
	detail := &riot.MatchDetail{
		Metadata: riot.MatchMetadata{MatchID: matchID},
		Info: riot.MatchInfo{
			PlatformID:   "na1",
			QueueID:      420,
			GameMode:     "CLASSIC",
			GameCreation: 1756300000000,
			GameDuration: 1900,
			Teams: []riot.TeamInfo{
				{TeamID: 100, Win: true, Bans: []riot.BanInfo{{ChampionID: 64}}},
				{TeamID: 200},
			},
		},
	}
	for i := 1; i <= 10; i++ {
		puuid := fmt.Sprintf("puuid-%d", i)
		if i == 1 {
			puuid = targetPuuid
		}
		teamID := 100
		if i > 5 {
			teamID = 200
		}
		detail.Info.Participants = append(detail.Info.Participants, riot.ParticipantInfo{
			ParticipantID: i,
			Puuid:         puuid,
			TeamID:        teamID,
			ChampionName:  fmt.Sprintf("Champ%d", i),
			Kills:         i,
			Win:           teamID == 100,
		})
	}
	return detail
}

func newTestCoordinator(remote *fakeRemote, store *fakeStore) *Coordinator {
	planner := NewPlanner(store, zerolog.Nop())
	return NewCoordinator(remote, planner, store, &fakeSummoners{store: store}, 4, zerolog.Nop())
}

func baseRequest() Request {
	return Request{
		GameName:        "Hide on bush",
		TagLine:         "KR1",
		Region:          "NA1",
		Count:           20,
		AllParticipants: true,
	}
}

func TestCoordinator_SyncStoresNewMatches(t *testing.T) {
	remote := &fakeRemote{
		account: &riot.Account{Puuid: targetPuuid, GameName: "Hide on bush", TagLine: "KR1"},
		ids:     []string{"NA1_1", "NA1_2", "NA1_3"},
	}
	store := newFakeStore()

	summary, err := newTestCoordinator(remote, store).Sync(context.Background(), baseRequest())
	require.NoError(t, err)
	require.NotEmpty(t, summary.RunID)
	assert.Equal(t, 3, summary.Fetched)
	assert.Zero(t, summary.Skipped)
	assert.Zero(t, summary.Failed)
	assert.Len(t, store.bundles, 3)

	b := store.bundles["NA1_2"]
	assert.Equal(t, 10, b.Match.ParticipantCount)
	assert.Len(t, b.Participants, 10)
	assert.Len(t, b.Teams, 2)
	assert.Equal(t, "NA1", b.Match.PlatformID)

	require.NotNil(t, store.summoner)
	assert.Equal(t, targetPuuid, store.summoner.Puuid)
	assert.Equal(t, "na1", store.summoner.Region)
}

func TestCoordinator_SkipsStoredMatches(t *testing.T) {
	remote := &fakeRemote{
		account: &riot.Account{Puuid: targetPuuid},
		ids:     []string{"NA1_1", "NA1_2", "NA1_3"},
	}
	store := newFakeStore()
	store.complete["NA1_2"] = true

	summary, err := newTestCoordinator(remote, store).Sync(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Fetched)
	assert.Equal(t, 1, summary.Skipped)
	assert.NotContains(t, remote.matchCalls, "NA1_2")
}

func TestCoordinator_ForceRefetchesStoredMatches(t *testing.T) {
	remote := &fakeRemote{
		account: &riot.Account{Puuid: targetPuuid},
		ids:     []string{"NA1_1", "NA1_2"},
	}
	store := newFakeStore()
	store.complete["NA1_1"] = true
	store.complete["NA1_2"] = true

	req := baseRequest()
	req.Force = true
	summary, err := newTestCoordinator(remote, store).Sync(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Fetched)
	assert.Zero(t, summary.Skipped)
}

func TestCoordinator_IsolatesPerMatchFailures(t *testing.T) {
	remote := &fakeRemote{
		account: &riot.Account{Puuid: targetPuuid},
		ids:     []string{"NA1_1", "NA1_2", "NA1_3"},
		matchErrs: map[string]error{
			"NA1_2": &riot.Error{Kind: riot.KindNotFound, Status: 404},
		},
	}
	store := newFakeStore()

	summary, err := newTestCoordinator(remote, store).Sync(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Fetched)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "NA1_2", summary.Failures[0].MatchID)
	assert.Equal(t, "not_found", summary.Failures[0].Kind)
	assert.NotContains(t, store.bundles, "NA1_2")
	assert.Contains(t, store.bundles, "NA1_3")
}

func TestCoordinator_PersistFailureReported(t *testing.T) {
	remote := &fakeRemote{
		account: &riot.Account{Puuid: targetPuuid},
		ids:     []string{"NA1_1"},
	}
	store := newFakeStore()
	store.upsertErr["NA1_1"] = errors.New("disk full")

	summary, err := newTestCoordinator(remote, store).Sync(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Zero(t, summary.Fetched)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "persistence", summary.Failures[0].Kind)
}

func TestCoordinator_IdentityFailureIsFatal(t *testing.T) {
	remote := &fakeRemote{
		accountErr: &riot.Error{Kind: riot.KindNotFound, Status: 404},
	}

	summary, err := newTestCoordinator(remote, newFakeStore()).Sync(context.Background(), baseRequest())
	require.Error(t, err)
	assert.Nil(t, summary)
	assert.True(t, riot.IsNotFound(err))
}

func TestCoordinator_ListingFailureIsFatal(t *testing.T) {
	remote := &fakeRemote{
		account: &riot.Account{Puuid: targetPuuid},
		idsErr:  &riot.Error{Kind: riot.KindRateLimited, Status: 429},
	}

	summary, err := newTestCoordinator(remote, newFakeStore()).Sync(context.Background(), baseRequest())
	require.Error(t, err)
	assert.Nil(t, summary)
}

func TestCoordinator_TargetOnlyModeStoresOneParticipant(t *testing.T) {
	remote := &fakeRemote{
		account: &riot.Account{Puuid: targetPuuid},
		ids:     []string{"NA1_1"},
	}
	store := newFakeStore()

	req := baseRequest()
	req.AllParticipants = false
	_, err := newTestCoordinator(remote, store).Sync(context.Background(), req)
	require.NoError(t, err)

	b := store.bundles["NA1_1"]
	require.Len(t, b.Participants, 1)
	assert.Equal(t, targetPuuid, b.Participants[0].Puuid)
	// The roster size still reflects the full upstream match.
	assert.Equal(t, 10, b.Match.ParticipantCount)
	assert.Len(t, b.Teams, 2)
}

func TestCoordinator_TimelineIncludedWhenRequested(t *testing.T) {
	remote := &fakeRemote{
		account: &riot.Account{Puuid: targetPuuid},
		ids:     []string{"NA1_1"},
	}
	store := newFakeStore()

	req := baseRequest()
	req.IncludeTimeline = true
	_, err := newTestCoordinator(remote, store).Sync(context.Background(), req)
	require.NoError(t, err)

	b := store.bundles["NA1_1"]
	require.NotNil(t, b.Timeline)
	assert.EqualValues(t, 60000, b.Timeline.FrameInterval)
	assert.Equal(t, 1, b.Timeline.FrameCount)
}

func TestCoordinator_UnencodableTimelineKeepsMatch(t *testing.T) {
	remote := &fakeRemote{
		account:        &riot.Account{Puuid: targetPuuid},
		ids:            []string{"NA1_1"},
		timelineFrames: []json.RawMessage{json.RawMessage(`{broken`)},
	}
	store := newFakeStore()

	req := baseRequest()
	req.IncludeTimeline = true
	summary, err := newTestCoordinator(remote, store).Sync(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Fetched)

	b, ok := store.bundles["NA1_1"]
	require.True(t, ok)
	assert.Nil(t, b.Timeline)
}

func TestCoordinator_TimelineFailureKeepsMatch(t *testing.T) {
	remote := &fakeRemote{
		account:     &riot.Account{Puuid: targetPuuid},
		ids:         []string{"NA1_1"},
		timelineErr: &riot.Error{Kind: riot.KindTransient, Status: 502},
	}
	store := newFakeStore()

	req := baseRequest()
	req.IncludeTimeline = true
	summary, err := newTestCoordinator(remote, store).Sync(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Fetched)
	assert.Zero(t, summary.Failed)

	b, ok := store.bundles["NA1_1"]
	require.True(t, ok)
	assert.Nil(t, b.Timeline)
}
