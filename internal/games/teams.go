package games

import (
	"regexp"
	"strings"
)

// teamAbbr is the 32-team NFL abbreviation table.
var teamAbbr = map[string]string{
	"Arizona Cardinals":     "ARI",
	"Atlanta Falcons":       "ATL",
	"Baltimore Ravens":      "BAL",
	"Buffalo Bills":         "BUF",
	"Carolina Panthers":     "CAR",
	"Chicago Bears":         "CHI",
	"Cincinnati Bengals":    "CIN",
	"Cleveland Browns":      "CLE",
	"Dallas Cowboys":        "DAL",
	"Denver Broncos":        "DEN",
	"Detroit Lions":         "DET",
	"Green Bay Packers":     "GB",
	"Houston Texans":        "HOU",
	"Indianapolis Colts":    "IND",
	"Jacksonville Jaguars":  "JAX",
	"Kansas City Chiefs":    "KC",
	"Las Vegas Raiders":     "LV",
	"Los Angeles Chargers":  "LAC",
	"Los Angeles Rams":      "LAR",
	"Miami Dolphins":        "MIA",
	"Minnesota Vikings":     "MIN",
	"New England Patriots":  "NE",
	"New Orleans Saints":    "NO",
	"New York Giants":       "NYG",
	"New York Jets":         "NYJ",
	"Philadelphia Eagles":   "PHI",
	"Pittsburgh Steelers":   "PIT",
	"San Francisco 49ers":   "SF",
	"Seattle Seahawks":      "SEA",
	"Tampa Bay Buccaneers":  "TB",
	"Tennessee Titans":      "TEN",
	"Washington Commanders": "WAS",
}

var nonLetters = regexp.MustCompile(`[^A-Za-z]`)

// Abbr returns a team's abbreviation. Unknown teams get their first three
// letters, upper-cased.
func Abbr(name string) string {
	if a, ok := teamAbbr[name]; ok {
		return a
	}
	letters := strings.ToUpper(nonLetters.ReplaceAllString(name, ""))
	if len(letters) > 3 {
		letters = letters[:3]
	}
	return letters
}
