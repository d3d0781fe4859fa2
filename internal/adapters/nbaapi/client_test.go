package nbaapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/angelnenov7/nba-dashboard/internal/adapters/nbaapi"
	. "github.com/smartystreets/goconvey/convey"
)

const teamStatsBody = `{
  "resource": "leaguedashteamstats",
  "parameters": {"Season": "2023-24"},
  "resultSets": [{
    "name": "LeagueDashTeamStats",
    "headers": ["TEAM_ID", "TEAM_NAME", "GP", "W", "L", "PTS", "FG3M", "FG3A", "FG3_PCT"],
    "rowSet": [
      [1610612738, "Boston Celtics", 82, 64, 18, 9887, 1351, 3527, 0.383],
      [1610612743, "Denver Nuggets", 82, 57, 25, 9581, 951, 2605, 0.365],
      [1610612744, null, 82, 46, 36, 9617, 1302, 3409, null]
    ]
  }]
}`

func newTestClient(url string, opts ...nbaapi.Option) *nbaapi.Client {
	base := []nbaapi.Option{
		nbaapi.WithBaseURL(url),
		nbaapi.WithRateLimit(0, 1),
		nbaapi.WithInitialBackoff(time.Millisecond),
		nbaapi.WithTimeout(2 * time.Second),
	}
	return nbaapi.NewClient(append(base, opts...)...)
}

func TestLeagueDashTeamStats(t *testing.T) {
	Convey("Given a stats API that answers normally", t, func() {
		var calls atomic.Int32
		var lastReq *http.Request
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			lastReq = r.Clone(context.Background())
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(teamStatsBody))
		}))
		defer srv.Close()

		client := newTestClient(srv.URL + "/")
		rows, err := client.LeagueDashTeamStats(context.Background(), "2023-24")

		Convey("Then rows are decoded by header name", func() {
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 2)
			So(rows[0].Season, ShouldEqual, "2023-24")
			So(rows[0].TeamID, ShouldEqual, 1610612738)
			So(rows[0].TeamName, ShouldEqual, "Boston Celtics")
			So(rows[0].GP, ShouldEqual, 82)
			So(rows[0].PTS, ShouldEqual, 9887)
			So(rows[0].FG3M, ShouldEqual, 1351)
			So(rows[0].FG3A, ShouldEqual, 3527)
			So(rows[0].FG3Pct, ShouldEqual, 0.383)
			So(calls.Load(), ShouldEqual, 1)
		})

		Convey("Then the request carries the endpoint parameters and browser headers", func() {
			So(lastReq.URL.Path, ShouldEqual, "/leaguedashteamstats")
			q := lastReq.URL.Query()
			So(q.Get("Season"), ShouldEqual, "2023-24")
			So(q.Get("SeasonType"), ShouldEqual, "Regular Season")
			So(q.Get("PerMode"), ShouldEqual, "Totals")
			So(q.Get("MeasureType"), ShouldEqual, "Base")
			So(q.Get("LeagueID"), ShouldEqual, "00")
			So(q.Has("VsDivision"), ShouldBeTrue)
			So(lastReq.Header.Get("Referer"), ShouldEqual, "https://www.nba.com/")
			So(lastReq.Header.Get("Origin"), ShouldEqual, "https://www.nba.com")
			So(lastReq.Header.Get("User-Agent"), ShouldContainSubstring, "Mozilla/5.0")
			So(lastReq.Header.Get("x-nba-stats-origin"), ShouldEqual, "stats")
		})
	})

	Convey("Given a stats API with reordered columns", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"resultSets":[{"name":"Other","headers":[],"rowSet":[]},{"name":"LeagueDashTeamStats",
				"headers":["FG3_PCT","FG3A","FG3M","PTS","GP","TEAM_NAME","TEAM_ID"],
				"rowSet":[[0.4, 100, 40, 900, 10, "Team A", 7]]}]}`))
		}))
		defer srv.Close()

		rows, err := newTestClient(srv.URL).LeagueDashTeamStats(context.Background(), "1990-91")

		Convey("Then values land in the right fields", func() {
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 1)
			So(rows[0].TeamName, ShouldEqual, "Team A")
			So(rows[0].TeamID, ShouldEqual, 7)
			So(rows[0].GP, ShouldEqual, 10)
			So(rows[0].FG3A, ShouldEqual, 100)
			So(rows[0].FG3Pct, ShouldEqual, 0.4)
		})
	})
}

func TestLeagueDashTeamStatsFailures(t *testing.T) {
	Convey("Given a stats API that fails transiently", t, func() {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(teamStatsBody))
		}))
		defer srv.Close()

		rows, err := newTestClient(srv.URL, nbaapi.WithMaxRetries(3)).LeagueDashTeamStats(context.Background(), "2023-24")

		Convey("Then the client retries until it succeeds", func() {
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 2)
			So(calls.Load(), ShouldEqual, 3)
		})
	})

	Convey("Given a stats API that keeps rate limiting", t, func() {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL, nbaapi.WithMaxRetries(2)).LeagueDashTeamStats(context.Background(), "2023-24")

		Convey("Then it gives up after the retry budget", func() {
			So(errors.Is(err, nbaapi.ErrUpstreamStatus), ShouldBeTrue)
			var statusErr *nbaapi.StatusError
			So(errors.As(err, &statusErr), ShouldBeTrue)
			So(statusErr.Code, ShouldEqual, http.StatusTooManyRequests)
			So(calls.Load(), ShouldEqual, 3)
		})
	})

	Convey("Given a stats API that rejects the request", t, func() {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).LeagueDashTeamStats(context.Background(), "2023-24")

		Convey("Then it does not retry", func() {
			So(errors.Is(err, nbaapi.ErrUpstreamStatus), ShouldBeTrue)
			So(calls.Load(), ShouldEqual, 1)
		})
	})

	Convey("Given malformed payloads", t, func() {
		cases := map[string]struct {
			body string
			want error
		}{
			"invalid json":    {body: `{"resultSets": [`, want: nbaapi.ErrMalformedResponse},
			"no result sets":  {body: `{"resultSets": []}`, want: nbaapi.ErrMalformedResponse},
			"missing column":  {body: `{"resultSets":[{"headers":["TEAM_ID","TEAM_NAME"],"rowSet":[]}]}`, want: nbaapi.ErrMissingColumn},
			"short row": {body: `{"resultSets":[{"headers":["TEAM_ID","TEAM_NAME","GP","PTS","FG3M","FG3A","FG3_PCT"],
				"rowSet":[[1,"A",82]]}]}`, want: nbaapi.ErrMalformedResponse},
		}
		for name, tc := range cases {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				_, _ = w.Write([]byte(tc.body))
			}))
			_, err := newTestClient(srv.URL).LeagueDashTeamStats(context.Background(), "2023-24")
			srv.Close()

			Convey("Then "+name+" fails permanently", func() {
				So(errors.Is(err, tc.want), ShouldBeTrue)
				So(calls.Load(), ShouldEqual, 1)
			})
		}
	})

	Convey("Given a canceled context", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(teamStatsBody))
		}))
		defer srv.Close()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newTestClient(srv.URL).LeagueDashTeamStats(ctx, "2023-24")

		Convey("Then the call returns the context error", func() {
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestRateLimit(t *testing.T) {
	Convey("Given a client limited to one request per 100ms", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(teamStatsBody))
		}))
		defer srv.Close()
		client := newTestClient(srv.URL, nbaapi.WithRateLimit(100*time.Millisecond, 1))

		start := time.Now()
		_, err1 := client.LeagueDashTeamStats(context.Background(), "2022-23")
		_, err2 := client.LeagueDashTeamStats(context.Background(), "2023-24")
		elapsed := time.Since(start)

		Convey("Then the second request waits for the limiter", func() {
			So(err1, ShouldBeNil)
			So(err2, ShouldBeNil)
			So(elapsed >= 90*time.Millisecond, ShouldBeTrue)
		})
	})

	Convey("Given default options", t, func() {
		client := nbaapi.NewClient()

		Convey("Then the client asks for regular season totals", func() {
			So(client.SeasonType(), ShouldEqual, "Regular Season")
			So(client.PerMode(), ShouldEqual, "Totals")
		})
	})
}
