// Identifiers and lifecycle enums shared by the market, the league and the result rows.

package sim

import (
	"cmp"
	"fmt"
)

// PlayerID identifies a player in the market. Domestic and foreign players
// live in separate namespaces, so {Foreign: false, Number: 3} and
// {Foreign: true, Number: 3} are different players.
type PlayerID struct {
	Foreign bool
	Number  int
}

// DomesticPlayer returns the id of the n-th domestic player.
func DomesticPlayer(n int) PlayerID { return PlayerID{Number: n} }

// ForeignPlayer returns the id of the n-th foreign player.
func ForeignPlayer(n int) PlayerID { return PlayerID{Foreign: true, Number: n} }

func (id PlayerID) String() string {
	if id.Foreign {
		return fmt.Sprintf("F%d", id.Number)
	}
	return fmt.Sprintf("D%d", id.Number)
}

// ComparePlayerIDs orders domestic players before foreign ones, then by number.
func ComparePlayerIDs(a, b PlayerID) int {
	if a.Foreign != b.Foreign {
		if a.Foreign {
			return 1
		}
		return -1
	}
	return cmp.Compare(a.Number, b.Number)
}

// TeamID identifies a league slot (1-based). The number of slots is fixed for
// the league's lifetime.
type TeamID int

func (id TeamID) String() string {
	return fmt.Sprintf("team_%d", int(id))
}

// Stage is a phase of the season. It selects the revenue phase factor and
// records where a team was eliminated.
type Stage string

const (
	StageRegularSeason Stage = "regular_season"
	StagePrePlayoffs   Stage = "pre_playoffs"
	StagePlayoffs      Stage = "playoffs"
)

// Exit records how far a team got in a season. Round is only meaningful when
// Stage == StagePlayoffs (1-based). A zero Exit means the team was not
// eliminated, i.e. it is the champion or the season did not finish.
type Exit struct {
	Stage Stage
	Round int
}

func (e Exit) String() string {
	switch e.Stage {
	case "":
		return "none"
	case StagePlayoffs:
		return fmt.Sprintf("%s_round_%d", e.Stage, e.Round)
	default:
		return string(e.Stage)
	}
}
