package aggregator

import "github.com/pable/go-nba-efg/internal/model"

// SelectorKind tags which shots a Selector keeps.
type SelectorKind int

const (
	SelectAll SelectorKind = iota
	SelectPlayer
	SelectTeam
)

// Selector restricts aggregation to every shot, one player's shots or one
// team's shots.
type Selector struct {
	Kind SelectorKind
	Name string
}

// All selects every shot.
func All() Selector { return Selector{Kind: SelectAll} }

// ByPlayer selects the shots of the named player.
func ByPlayer(name string) Selector { return Selector{Kind: SelectPlayer, Name: name} }

// ByTeam selects the shots of the named team.
func ByTeam(name string) Selector { return Selector{Kind: SelectTeam, Name: name} }

// SelectorFor builds a Selector from optional player and team names. A
// player name wins over a team name.
func SelectorFor(player, team string) Selector {
	switch {
	case player != "":
		return ByPlayer(player)
	case team != "":
		return ByTeam(team)
	default:
		return All()
	}
}

// Match reports whether shot passes the selector.
func (s Selector) Match(shot model.JoinedShot) bool {
	switch s.Kind {
	case SelectPlayer:
		return shot.PlayerName == s.Name
	case SelectTeam:
		return shot.TeamName == s.Name
	default:
		return true
	}
}

// Subject names the selection for report titles; empty for All.
func (s Selector) Subject() string {
	if s.Kind == SelectAll {
		return ""
	}
	return s.Name
}
