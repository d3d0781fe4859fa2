package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/angelnenov7/nba-dashboard/internal/domain/model"
	"github.com/angelnenov7/nba-dashboard/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

var errUpstream = errors.New("upstream unavailable")

// fakeFetcher serves synthetic totals and counts calls per season.
type fakeFetcher struct {
	mu     sync.Mutex
	calls  map[string]int
	failed map[string]bool
	delay  time.Duration
	// aborted counts fetches cut short by their context.
	aborted int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{calls: map[string]int{}, failed: map[string]bool{}}
}

func (f *fakeFetcher) LeagueDashTeamStats(ctx context.Context, season string) ([]model.TeamSeasonStats, error) {
	f.mu.Lock()
	f.calls[season]++
	fail := f.failed[season]
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			f.mu.Lock()
			f.aborted++
			f.mu.Unlock()
			return nil, ctx.Err()
		}
	}
	if fail {
		return nil, errUpstream
	}
	return []model.TeamSeasonStats{
		{Season: season, TeamID: 1, TeamName: "Boston Celtics", GP: 82, PTS: 9887, FG3M: 1351, FG3A: 3527, FG3Pct: 0.383},
		{Season: season, TeamID: 2, TeamName: "Denver Nuggets", GP: 82, PTS: 9581, FG3M: 951, FG3A: 2605, FG3Pct: 0.365},
		{Season: season, TeamID: 3, TeamName: "Atlanta Hawks", GP: 82, PTS: 9811, FG3M: 1125, FG3A: 3087, FG3Pct: 0.364},
	}, nil
}

func (f *fakeFetcher) fail(season string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed[season] = true
}

func (f *fakeFetcher) recover(season string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failed, season)
}

func (f *fakeFetcher) count(season string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[season]
}

func (f *fakeFetcher) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeFetcher) abortedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.aborted
}
