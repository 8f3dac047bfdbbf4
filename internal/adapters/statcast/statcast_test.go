package statcast_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/yardwatch/engine/internal/adapters/statcast"
	"github.com/yardwatch/engine/internal/domain/aggregate"
)

const sampleCSV = `pitch_type,description,events,delta_run_exp,game_date,pitcher,batter,player_name,home_team,away_team,inning_topbot,stand,p_throws
FF,ball,,0.032,2025-04-01,607644,660271,"Webb, Logan",SF,LAD,Top,L,R
SL,swinging_strike,,-0.041,2025-04-01,607644,660271,"Webb, Logan",SF,LAD,Top,L,R
SL,hit_into_play,home_run,1.377,2025-04-01,607644,660271,"Webb, Logan",SF,LAD,Top,L,R
`

func TestParseCSV(t *testing.T) {
	Convey("Given a well-formed Statcast export", t, func() {
		events, err := statcast.ParseCSV(strings.NewReader(sampleCSV))

		Convey("Then every row becomes a typed event", func() {
			So(err, ShouldBeNil)
			So(events, ShouldHaveLength, 3)
			So(events[0].PitchType, ShouldEqual, "FF")
			So(events[0].DeltaRunExp, ShouldEqual, 0.032)
			So(events[0].PitcherID, ShouldEqual, 607644)
			So(events[0].BatterID, ShouldEqual, 660271)
			So(events[0].PlayerName, ShouldEqual, "Webb, Logan")
			So(events[0].GameDate.Equal(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
			So(events[2].Event, ShouldEqual, "home_run")
		})
	})

	Convey("Given null markers and missing columns", t, func() {
		csv := "pitch_type,description,delta_run_exp,pitcher\n" +
			"NA,ball,null,607644\n" +
			",swinging_strike,0.1,\n"
		events, err := statcast.ParseCSV(strings.NewReader(csv))

		Convey("Then affected fields default to zero values", func() {
			So(err, ShouldBeNil)
			So(events, ShouldHaveLength, 2)
			So(events[0].PitchType, ShouldBeEmpty)
			So(events[0].DeltaRunExp, ShouldEqual, 0)
			So(events[0].Event, ShouldBeEmpty)
			So(events[0].GameDate.IsZero(), ShouldBeTrue)
			So(events[1].PitcherID, ShouldEqual, 0)
		})
	})

	Convey("Given short rows", t, func() {
		csv := "pitch_type,description,events\nFF\n"
		events, err := statcast.ParseCSV(strings.NewReader(csv))

		Convey("Then missing trailing cells read as empty", func() {
			So(err, ShouldBeNil)
			So(events, ShouldHaveLength, 1)
			So(events[0].PitchType, ShouldEqual, "FF")
			So(events[0].Description, ShouldBeEmpty)
		})
	})

	Convey("Given an empty body", t, func() {
		events, err := statcast.ParseCSV(strings.NewReader(""))

		Convey("Then there are no events and no error", func() {
			So(err, ShouldBeNil)
			So(events, ShouldBeNil)
		})
	})

	Convey("Given a header with no data rows", t, func() {
		events, err := statcast.ParseCSV(strings.NewReader("pitch_type,description\n"))
		So(err, ShouldBeNil)
		So(events, ShouldBeNil)
	})
}

func TestSeasonRange(t *testing.T) {
	Convey("Given a completed season", t, func() {
		now := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)
		start, end := statcast.SeasonRange(2024, now)

		Convey("Then the window spans spring training to the World Series", func() {
			So(start.Equal(time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
			So(end.Equal(time.Date(2024, time.November, 5, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
		})
	})

	Convey("Given a season still in progress", t, func() {
		now := time.Date(2025, time.June, 15, 18, 30, 0, 0, time.UTC)
		start, end := statcast.SeasonRange(2025, now)

		Convey("Then the end clips to today", func() {
			So(start.Equal(time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
			So(end.Equal(time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
		})
	})

	Convey("Given the current year after the season ended", t, func() {
		now := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)
		_, end := statcast.SeasonRange(2025, now)

		Convey("Then the end stays at the season boundary", func() {
			So(end.Equal(time.Date(2025, time.November, 5, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
		})
	})
}

func TestClientPlayerEvents(t *testing.T) {
	Convey("Given an upstream serving CSV", t, func() {
		var gotQuery map[string][]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			w.Header().Set("Content-Type", "text/csv")
			_, _ = w.Write([]byte(sampleCSV))
		}))
		defer srv.Close()

		client := statcast.NewClient(statcast.WithBaseURL(srv.URL))
		start := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)
		end := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

		Convey("When fetching a pitcher's events", func() {
			events, err := client.PlayerEvents(context.Background(), 607644, aggregate.RolePitcher, start, end)

			Convey("Then rows are parsed and the query filters by pitcher", func() {
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 3)
				So(gotQuery["player_type"], ShouldResemble, []string{"pitcher"})
				So(gotQuery["pitchers_lookup[]"], ShouldResemble, []string{"607644"})
				So(gotQuery["game_date_gt"], ShouldResemble, []string{"2025-03-20"})
				So(gotQuery["game_date_lt"], ShouldResemble, []string{"2025-06-01"})
			})
		})

		Convey("When fetching a batter's events", func() {
			_, err := client.PlayerEvents(context.Background(), 660271, aggregate.RoleBatter, start, end)

			Convey("Then the query filters by batter", func() {
				So(err, ShouldBeNil)
				So(gotQuery["player_type"], ShouldResemble, []string{"batter"})
				So(gotQuery["batters_lookup[]"], ShouldResemble, []string{"660271"})
			})
		})

		Convey("When fetching a whole season", func() {
			events, err := client.SeasonEvents(context.Background(), start, end)

			Convey("Then no player filter is sent", func() {
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 3)
				So(gotQuery["player_type"], ShouldBeEmpty)
			})
		})
	})

	Convey("Given an upstream returning a server error", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := statcast.NewClient(statcast.WithBaseURL(srv.URL))
		start, end := statcast.SeasonRange(2024, time.Now())
		_, err := client.PlayerEvents(context.Background(), 1, aggregate.RolePitcher, start, end)

		Convey("Then the error wraps the unavailable sentinel", func() {
			So(err, ShouldNotBeNil)
			So(errors.Is(err, statcast.ErrUnavailable), ShouldBeTrue)
		})
	})
}
