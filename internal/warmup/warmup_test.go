package warmup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/angelnenov7/nba-dashboard/internal/domain/season"
	"github.com/angelnenov7/nba-dashboard/pkg/logger"
)

func init() {
	_ = logger.Init()
}

// fakeDashboard serves the routes the warmer touches. Seasons in failing
// answer 502.
type fakeDashboard struct {
	mu      sync.Mutex
	hits    map[string]int
	failing map[string]bool
	healthy bool
}

func newFakeDashboard() *fakeDashboard {
	return &fakeDashboard{hits: map[string]int{}, failing: map[string]bool{}, healthy: true}
}

func (f *fakeDashboard) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/healthz":
		f.mu.Lock()
		healthy := f.healthy
		f.mu.Unlock()
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("nbadash_up 1\n"))
	case "/api/seasons":
		_, _ = w.Write([]byte(`{"seasons":["2023-24","2022-23","2021-22"],"default":"2023-24"}`))
	case "/api/teams":
		s := r.URL.Query().Get("season")
		f.mu.Lock()
		f.hits[s]++
		failing := f.failing[s]
		f.mu.Unlock()
		if failing {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"code":"upstream_error","message":"boom"}`))
			return
		}
		_, _ = w.Write([]byte(`[{"season":"` + s + `","team_name":"Boston Celtics","gp":82},` +
			`{"season":"` + s + `","team_name":"Denver Nuggets","gp":82}]`))
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeDashboard) update(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn()
}

func (f *fakeDashboard) hitCount(s string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[s]
}

func TestRun(t *testing.T) {
	Convey("Given a running dashboard", t, func() {
		dash := newFakeDashboard()
		srv := httptest.NewServer(dash)
		defer srv.Close()

		cfg := &Config{BaseURL: srv.URL, Workers: 2, Timeout: time.Second}
		ctx := context.Background()

		Convey("When no seasons are given", func() {
			stats, err := Run(ctx, cfg)

			Convey("Then every season the dashboard lists is warmed once", func() {
				So(err, ShouldBeNil)
				So(stats.Requested, ShouldEqual, 3)
				So(stats.Successful, ShouldEqual, 3)
				So(stats.Failed, ShouldEqual, 0)
				for _, s := range []string{"2023-24", "2022-23", "2021-22"} {
					So(dash.hitCount(s), ShouldEqual, 1)
				}
			})

			Convey("Then results keep request order and count teams", func() {
				So(stats.Results[0].Season, ShouldEqual, "2023-24")
				So(stats.Results[0].Teams, ShouldEqual, 2)
				So(stats.Duration, ShouldBeGreaterThanOrEqualTo, stats.Slowest)
			})
		})

		Convey("When a season fails upstream", func() {
			dash.update(func() { dash.failing["2022-23"] = true })
			cfg.Seasons = []string{"2023-24", "2022-23"}
			cfg.Verbose = true
			stats, err := Run(ctx, cfg)

			Convey("Then the failure is counted, not returned", func() {
				So(err, ShouldBeNil)
				So(stats.Successful, ShouldEqual, 1)
				So(stats.Failed, ShouldEqual, 1)
				failures := stats.Failures()
				So(failures, ShouldHaveLength, 1)
				So(failures[0].Season, ShouldEqual, "2022-23")
				So(failures[0].Status, ShouldEqual, http.StatusBadGateway)
			})
		})

		Convey("When the dashboard is unhealthy", func() {
			dash.update(func() { dash.healthy = false })
			stats, err := Run(ctx, cfg)

			Convey("Then nothing is requested", func() {
				So(errors.Is(err, ErrUnhealthy), ShouldBeTrue)
				So(stats, ShouldBeNil)
				So(dash.hitCount("2023-24"), ShouldEqual, 0)
			})
		})

		Convey("When the context is already canceled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := Run(cctx, cfg)

			Convey("Then the run fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})

	Convey("Given nothing listening", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		Convey("Then the health check fails", func() {
			_, err := Run(context.Background(), &Config{BaseURL: url, Workers: 1, Timeout: time.Second})
			So(errors.Is(err, ErrUnhealthy), ShouldBeTrue)
		})
	})
}

func TestSeasons(t *testing.T) {
	Convey("Given season selections", t, func() {
		Convey("Then an explicit list wins", func() {
			got, err := Seasons(" 2023-24, 2019-20 ", 2000, 2001)
			So(err, ShouldBeNil)
			So(got, ShouldResemble, []string{"2023-24", "2019-20"})
		})

		Convey("Then a malformed list entry is rejected", func() {
			_, err := Seasons("2023-25", 0, 0)
			So(errors.Is(err, season.ErrInvalidSeason), ShouldBeTrue)
		})

		Convey("Then a year range expands newest first", func() {
			got, err := Seasons("", 2020, 2022)
			So(err, ShouldBeNil)
			So(got, ShouldResemble, []string{"2022-23", "2021-22", "2020-21"})
		})

		Convey("Then a single bound selects one season", func() {
			got, err := Seasons("", 0, 1999)
			So(err, ShouldBeNil)
			So(got, ShouldResemble, []string{"1999-00"})
		})

		Convey("Then an inverted range is rejected", func() {
			_, err := Seasons("", 2022, 2020)
			So(errors.Is(err, season.ErrInvalidSeason), ShouldBeTrue)
		})

		Convey("Then no selection defers to the dashboard", func() {
			got, err := Seasons("", 0, 0)
			So(err, ShouldBeNil)
			So(got, ShouldBeNil)
		})
	})
}

func TestSetupLogging(t *testing.T) {
	Convey("Given a log file path", t, func() {
		path := filepath.Join(t.TempDir(), "warmup.log")

		Convey("Then log lines are mirrored into the file", func() {
			closeFn, err := SetupLogging(path, logger.FormatJSON, false)
			So(err, ShouldBeNil)
			logger.Get().Info(context.Background(), "hello from warmup")
			So(closeFn(), ShouldBeNil)

			data, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, "hello from warmup")
			_ = logger.Init()
		})

		Convey("Then an unknown format is rejected", func() {
			_, err := SetupLogging(path, "xml", false)
			So(err, ShouldNotBeNil)
			_ = logger.Init()
		})
	})
}
