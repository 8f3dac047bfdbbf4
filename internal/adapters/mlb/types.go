// Package mlb provides a minimal client for the free MLB Stats API:
// schedules, game lineups and player identity.
package mlb

// GameSummary is brief game info for schedule listings.
type GameSummary struct {
	GameID      string `json:"game_id"`
	GameDate    string `json:"game_date"`
	HomeTeam    string `json:"home_team"`
	AwayTeam    string `json:"away_team"`
	HomePitcher string `json:"home_pitcher,omitempty"`
	AwayPitcher string `json:"away_pitcher,omitempty"`
}

// LineupPlayer is one batter in a team's batting order.
type LineupPlayer struct {
	BatterID     int    `json:"batter_id"`
	Name         string `json:"name"`
	BattingOrder int    `json:"batting_order"`
	Position     string `json:"position"`
}

// TeamLineup is a single team's lineup for a game.
type TeamLineup struct {
	TeamID              int            `json:"team_id"`
	TeamName            string         `json:"team_name"`
	TeamAbbrev          string         `json:"team_abbrev"`
	StartingPitcherID   int            `json:"starting_pitcher_id,omitempty"`
	StartingPitcherName string         `json:"starting_pitcher_name,omitempty"`
	Lineup              []LineupPlayer `json:"lineup"`
}

// Game holds both lineups for one game.
type Game struct {
	GameID   string     `json:"game_id"`
	Venue    string     `json:"venue,omitempty"`
	HomeTeam TeamLineup `json:"home_team"`
	AwayTeam TeamLineup `json:"away_team"`
	Status   string     `json:"status"`
}

// PlayerInfo is the identity record used to overlay profile metadata.
type PlayerInfo struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Team     string `json:"team"`
	Position string `json:"position"`
	Bats     string `json:"bats"`
	Throws   string `json:"throws"`
}

// teamAbbrevs maps MLB Stats API team IDs to scoreboard abbreviations.
var teamAbbrevs = map[int]string{
	108: "LAA", 109: "ARI", 110: "BAL", 111: "BOS", 112: "CHC",
	113: "CIN", 114: "CLE", 115: "COL", 116: "DET", 117: "HOU",
	118: "KC", 119: "LAD", 120: "WSH", 121: "NYM", 133: "OAK",
	134: "PIT", 135: "SD", 136: "SEA", 137: "SF", 138: "STL",
	139: "TB", 140: "TEX", 141: "TOR", 142: "MIN", 143: "PHI",
	144: "ATL", 145: "CWS", 146: "MIA", 147: "NYY", 158: "MIL",
}

// TeamAbbrev returns the scoreboard abbreviation for a team ID, or
// "UNK" when the ID is not a current MLB franchise.
func TeamAbbrev(teamID int) string {
	if a, ok := teamAbbrevs[teamID]; ok {
		return a
	}
	return "UNK"
}
