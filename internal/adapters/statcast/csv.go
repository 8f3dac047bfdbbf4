package statcast

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/yardwatch/engine/internal/domain/model"
)

// ParseCSV reads a Statcast search export and returns typed pitch
// events. This is the single validation point for the loosely-typed
// upstream table: columns absent from the header, or cells holding
// "", "NA" or "null", default to zero values on the event.
func ParseCSV(r io.Reader) ([]model.PitchEvent, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1 // upstream occasionally pads short rows

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrBadResponse, err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	var events []model.PitchEvent
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read row %d: %w", ErrBadResponse, len(events)+1, err)
		}

		events = append(events, model.PitchEvent{
			PitchType:    cell(rec, col, "pitch_type"),
			Description:  cell(rec, col, "description"),
			Event:        cell(rec, col, "events"),
			DeltaRunExp:  floatCell(rec, col, "delta_run_exp"),
			GameDate:     dateCell(rec, col, "game_date"),
			PitcherID:    intCell(rec, col, "pitcher"),
			BatterID:     intCell(rec, col, "batter"),
			PlayerName:   cell(rec, col, "player_name"),
			HomeTeam:     cell(rec, col, "home_team"),
			AwayTeam:     cell(rec, col, "away_team"),
			InningTopBot: cell(rec, col, "inning_topbot"),
			Stand:        cell(rec, col, "stand"),
			PThrows:      cell(rec, col, "p_throws"),
		})
	}
	return events, nil
}

// cell returns the named column's value, or "" when the column is
// absent or holds an upstream null marker.
func cell(rec []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(rec) {
		return ""
	}
	v := rec[i]
	if v == "NA" || v == "null" {
		return ""
	}
	return v
}

// floatCell parses the named column as a float, defaulting to 0.
func floatCell(rec []string, col map[string]int, name string) float64 {
	v := cell(rec, col, name)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

// intCell parses the named column as an int, defaulting to 0.
func intCell(rec []string, col map[string]int, name string) int {
	v := cell(rec, col, name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// dateCell parses the named column as a YYYY-MM-DD date, defaulting to
// the zero time.
func dateCell(rec []string, col map[string]int, name string) time.Time {
	v := cell(rec, col, name)
	if v == "" {
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}
	}
	return t
}
