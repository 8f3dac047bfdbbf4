package aggregate_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/yardwatch/engine/internal/domain/aggregate"
	"github.com/yardwatch/engine/internal/domain/model"
)

// pitches builds n events of one pitch type with a neutral outcome.
func pitches(pitchType string, n int) []model.PitchEvent {
	out := make([]model.PitchEvent, n)
	for i := range out {
		out[i] = model.PitchEvent{PitchType: pitchType, Description: "ball"}
	}
	return out
}

// reversed returns a copy of events in reverse order.
func reversed(events []model.PitchEvent) []model.PitchEvent {
	out := make([]model.PitchEvent, len(events))
	for i := range events {
		out[len(events)-1-i] = events[i]
	}
	return out
}

// mixedSeason is 120 pitches: 70 four-seamers thrown for balls and 50
// sliders with 10 whiffs, 9 fouls and one home run.
func mixedSeason() []model.PitchEvent {
	events := pitches("FF", 70)
	sliders := pitches("SL", 50)
	for i := range sliders {
		sliders[i].DeltaRunExp = 0.01
		switch {
		case i < 10:
			sliders[i].Description = "swinging_strike"
		case i < 19:
			sliders[i].Description = "foul"
		case i == 19:
			sliders[i].Description = "hit_into_play"
			sliders[i].Event = "home_run"
		}
	}
	return append(events, sliders...)
}

func TestAggregate_Pitcher(t *testing.T) {
	Convey("Given a season of 70 four-seamers and 50 sliders", t, func() {
		events := mixedSeason()

		Convey("When aggregating from the pitcher's perspective", func() {
			stats := aggregate.Aggregate(events, aggregate.RolePitcher, 50)

			Convey("Then both pitch types qualify, most used first", func() {
				So(stats, ShouldHaveLength, 2)
				So(stats[0].PitchType, ShouldEqual, "FF")
				So(stats[1].PitchType, ShouldEqual, "SL")
			})

			Convey("And usage shares are rounded to one decimal", func() {
				So(stats[0].UsagePct, ShouldEqual, 58.3)
				So(stats[1].UsagePct, ShouldEqual, 41.7)
			})

			Convey("And the slider's whiff rate counts misses per swing", func() {
				// 20 swings, 10 misses.
				So(stats[1].WhiffPct, ShouldEqual, 50.0)
			})

			Convey("And the slider's home run rate is per pitch", func() {
				So(stats[1].HRRate, ShouldEqual, 0.02)
			})

			Convey("And run values come from the summed expectancy deltas", func() {
				So(stats[1].RunValue, ShouldEqual, 0.5)
				So(stats[1].RunValuePer100, ShouldEqual, 1.0)
			})

			Convey("And hitting stats use at-bat endings as denominator", func() {
				// One at-bat, one hit, four bases.
				So(stats[1].BattingAvg, ShouldEqual, 1.0)
				So(stats[1].SlugPct, ShouldEqual, 4.0)
			})

			Convey("And pitch codes resolve to display names", func() {
				So(stats[0].PitchName, ShouldEqual, "4-Seam Fastball")
				So(stats[1].PitchName, ShouldEqual, "Slider")
			})
		})

		Convey("When the input order is reversed", func() {
			forward := aggregate.Aggregate(events, aggregate.RolePitcher, 50)
			backward := aggregate.Aggregate(reversed(events), aggregate.RolePitcher, 50)

			Convey("Then the output is identical", func() {
				So(backward, ShouldResemble, forward)
			})
		})

		Convey("When aggregating the same input twice", func() {
			first := aggregate.Aggregate(events, aggregate.RolePitcher, 50)
			second := aggregate.Aggregate(events, aggregate.RolePitcher, 50)

			Convey("Then the results match", func() {
				So(second, ShouldResemble, first)
			})
		})
	})
}

func TestAggregate_Thresholds(t *testing.T) {
	Convey("Given pitch groups all below the minimum sample", t, func() {
		events := append(pitches("FF", 30), pitches("SL", 20)...)

		Convey("When aggregating with a minimum of 50", func() {
			stats := aggregate.Aggregate(events, aggregate.RolePitcher, 50)

			Convey("Then the result is empty but not nil", func() {
				So(stats, ShouldNotBeNil)
				So(stats, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a mix of qualifying and non-qualifying groups", t, func() {
		events := append(pitches("FF", 60), pitches("CH", 5)...)
		stats := aggregate.Aggregate(events, aggregate.RolePitcher, 50)

		Convey("Then only the qualifying group is reported", func() {
			So(stats, ShouldHaveLength, 1)
			So(stats[0].PitchType, ShouldEqual, "FF")
		})

		Convey("And its usage share still counts the dropped pitches", func() {
			// 60 of 65.
			So(stats[0].UsagePct, ShouldEqual, 92.3)
		})
	})

	Convey("Given a non-positive minimum", t, func() {
		events := pitches("FF", 25)

		Convey("Then the role default applies", func() {
			So(aggregate.Aggregate(events, aggregate.RolePitcher, 0), ShouldBeEmpty)
			So(aggregate.Aggregate(events, aggregate.RoleBatter, 0), ShouldHaveLength, 1)
		})
	})
}

func TestAggregate_EdgeCases(t *testing.T) {
	Convey("Given no events", t, func() {
		So(aggregate.Aggregate(nil, aggregate.RolePitcher, 50), ShouldBeNil)
	})

	Convey("Given only unclassified pitches", t, func() {
		events := pitches("", 100)
		So(aggregate.Aggregate(events, aggregate.RolePitcher, 50), ShouldBeNil)
	})

	Convey("Given unclassified pitches mixed in", t, func() {
		events := append(pitches("FF", 50), pitches("", 50)...)
		stats := aggregate.Aggregate(events, aggregate.RolePitcher, 50)

		Convey("Then they are excluded before grouping", func() {
			So(stats, ShouldHaveLength, 1)
			So(stats[0].Count, ShouldEqual, 50)
			So(stats[0].UsagePct, ShouldEqual, 100.0)
		})
	})

	Convey("Given a group with no swings and no at-bat endings", t, func() {
		stats := aggregate.Aggregate(pitches("FF", 50), aggregate.RolePitcher, 50)

		Convey("Then rate stats with zero denominators are zero", func() {
			So(stats[0].WhiffPct, ShouldEqual, 0.0)
			So(stats[0].BattingAvg, ShouldEqual, 0.0)
			So(stats[0].SlugPct, ShouldEqual, 0.0)
		})
	})

	Convey("Given qualifying groups", t, func() {
		stats := aggregate.Aggregate(mixedSeason(), aggregate.RolePitcher, 50)

		Convey("Then usage shares never exceed one hundred", func() {
			sum := 0.0
			for _, s := range stats {
				sum += s.UsagePct
			}
			So(sum, ShouldBeLessThanOrEqualTo, 100.0)
		})
	})
}

func TestAggregate_BatterOrdering(t *testing.T) {
	Convey("Given a batter's events across three pitch types", t, func() {
		events := append(pitches("SL", 40), pitches("FF", 25)...)
		events = append(events, pitches("CH", 25)...)

		Convey("When aggregating from the batter's perspective", func() {
			stats := aggregate.Aggregate(events, aggregate.RoleBatter, 20)

			Convey("Then groups sort by count, ties on pitch code", func() {
				So(stats, ShouldHaveLength, 3)
				So(stats[0].PitchType, ShouldEqual, "SL")
				So(stats[1].PitchType, ShouldEqual, "CH")
				So(stats[2].PitchType, ShouldEqual, "FF")
			})
		})
	})
}
