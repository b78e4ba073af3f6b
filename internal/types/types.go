// Package types defines the CFS records cfsedit loads and edits: teams,
// their staff, and the leagues they belong to. The database schema is owned
// by the game; these structs mirror it, they do not define it.
package types

import (
	"fmt"
	"strings"
)

// Team is one club row from the Teams table. ID is assigned by the game and
// immutable; every other field is editable.
type Team struct {
	ID             int64  `db:"ID"`
	Name           string `db:"TeamName"`
	Wealth         int64  `db:"TeamWealth"`
	FoundYear      int64  `db:"TeamFoundYear"`
	Location       string `db:"TeamLocation"`
	SupporterCount int64  `db:"SupporterCount"`
	StadiumName    string `db:"StadiumName"`
	Nickname       string `db:"Nickname"`
	LeagueID       int64  `db:"BelongingLeague"`

	// Reputation maps to the optional TeamReputation column. Older save
	// versions do not have it; the store reports zero for those and rejects
	// edits to the field.
	Reputation int64 `db:"TeamReputation"`
}

func (t Team) String() string {
	return fmt.Sprintf("%s (ID: %d)", t.Name, t.ID)
}

// SearchText returns the lowercased haystack used by the "all fields" filter.
func (t Team) SearchText() string {
	return strings.ToLower(fmt.Sprintf("%d %s %d %d %s %d %s %s %d",
		t.ID, t.Name, t.Wealth, t.FoundYear, t.Location,
		t.SupporterCount, t.StadiumName, t.Nickname, t.LeagueID))
}

// Staff is one employee row. AbilityJSON is an opaque attribute set owned by
// the game; the editor round-trips it unchanged apart from the documented
// rawAbility key (see ability.go).
type Staff struct {
	ID          int64  `db:"ID"`
	Name        string `db:"Name"`
	AbilityJSON string `db:"AbilityJSON"`
	Fame        int64  `db:"Fame"`
	TeamID      int64  `db:"EmployedTeamID"`
}

func (s Staff) String() string {
	return fmt.Sprintf("%s (ID: %d)", s.Name, s.ID)
}

// League is one row from the League lookup table.
type League struct {
	ID   int64  `db:"ID"`
	Name string `db:"LeagueName"`
}
