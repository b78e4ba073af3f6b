package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"

	"cfsedit/internal/types"
)

// newTestDB creates a CFS-shaped save database in a temp directory and
// seeds it with a couple of teams, staff and leagues.
func newTestDB(t *testing.T, withReputation bool) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "save.db")
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	defer db.Close()

	teamsDDL := `CREATE TABLE Teams (
		ID INTEGER PRIMARY KEY,
		TeamName TEXT NOT NULL,
		TeamWealth INTEGER NOT NULL,
		TeamFoundYear INTEGER NOT NULL,
		TeamLocation TEXT NOT NULL,
		SupporterCount INTEGER NOT NULL,
		StadiumName TEXT NOT NULL,
		Nickname TEXT NOT NULL,
		BelongingLeague INTEGER NOT NULL`
	if withReputation {
		teamsDDL += ",\n\t\tTeamReputation INTEGER NOT NULL DEFAULT 0"
	}
	teamsDDL += ")"

	ddl := []string{
		teamsDDL,
		`CREATE TABLE League (ID INTEGER PRIMARY KEY, LeagueName TEXT NOT NULL)`,
		`CREATE TABLE Staff (
			ID INTEGER PRIMARY KEY,
			Name TEXT NOT NULL,
			AbilityJSON TEXT NOT NULL,
			Fame INTEGER NOT NULL,
			EmployedTeamID INTEGER NOT NULL)`,
	}
	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Failed to create schema: %v", err)
		}
	}

	if _, err := db.Exec(`INSERT INTO League (ID, LeagueName) VALUES (1, 'Premier'), (2, 'Championship')`); err != nil {
		t.Fatalf("Failed to seed leagues: %v", err)
	}

	teams := []struct {
		id                 int64
		name, loc          string
		wealth, year, supp int64
		stadium, nick      string
		league             int64
	}{
		{1, "Arsenal", "London", 5000, 1886, 60000, "Emirates", "Gunners", 1},
		{2, "Everton", "Liverpool", 1200, 1878, 39000, "Goodison", "Toffees", 1},
		{3, "Wrexham", "Wrexham", 300, 1864, 10000, "Racecourse", "Dragons", 2},
	}
	for _, tm := range teams {
		_, err := db.Exec(
			`INSERT INTO Teams (ID, TeamName, TeamWealth, TeamFoundYear, TeamLocation,
				SupporterCount, StadiumName, Nickname, BelongingLeague)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			tm.id, tm.name, tm.wealth, tm.year, tm.loc, tm.supp, tm.stadium, tm.nick, tm.league)
		if err != nil {
			t.Fatalf("Failed to seed team %d: %v", tm.id, err)
		}
	}

	if _, err := db.Exec(
		`INSERT INTO Staff (ID, Name, AbilityJSON, Fame, EmployedTeamID) VALUES
			(10, 'Arteta', '{"rawAbility":80,"tactics":7}', 90, 1),
			(11, 'Physio', '{"rawAbility":55}', 10, 1),
			(12, 'Moyes', '{"rawAbility":70}', 60, 2)`); err != nil {
		t.Fatalf("Failed to seed staff: %v", err)
	}

	return path
}

func openTestStore(t *testing.T, withReputation bool) *Store {
	t.Helper()
	s, err := Open(context.Background(), newTestDB(t, withReputation))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "nope.db"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestOpenNotADatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.db")
	if err := os.WriteFile(path, []byte("this is not sqlite at all, just text"), 0644); err != nil {
		t.Fatalf("Failed to write junk file: %v", err)
	}
	_, err := Open(context.Background(), path)
	if !errors.Is(err, ErrNotADatabase) {
		t.Errorf("Expected ErrNotADatabase, got %v", err)
	}
}

func TestOpenMissingTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.db")
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	if _, err := db.Exec("CREATE TABLE Something (ID INTEGER)"); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	db.Close()

	_, err = Open(context.Background(), path)
	if !errors.Is(err, ErrNotADatabase) {
		t.Errorf("Expected ErrNotADatabase for non-CFS sqlite file, got %v", err)
	}
}

func TestReputationDiscovery(t *testing.T) {
	old := openTestStore(t, false)
	if old.HasReputation() {
		t.Error("Expected no reputation column on old save version")
	}

	cur := openTestStore(t, true)
	if !cur.HasReputation() {
		t.Error("Expected reputation column on current save version")
	}
}

func TestListTeamsOrdering(t *testing.T) {
	s := openTestStore(t, true)
	teams, err := s.ListTeams(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("Failed to list teams: %v", err)
	}
	if len(teams) != 3 {
		t.Fatalf("Expected 3 teams, got %d", len(teams))
	}
	// Ordered by name: Arsenal, Everton, Wrexham.
	for i, want := range []string{"Arsenal", "Everton", "Wrexham"} {
		if teams[i].Name != want {
			t.Errorf("Team %d: expected %s, got %s", i, want, teams[i].Name)
		}
	}
}

func TestListTeamsFilters(t *testing.T) {
	s := openTestStore(t, true)
	ctx := context.Background()

	cases := []struct {
		name   string
		filter Filter
		want   []int64
	}{
		{"name substring case-insensitive", Filter{Query: "arse", Field: FilterName}, []int64{1}},
		{"all fields matches stadium", Filter{Query: "goodison"}, []int64{2}},
		{"location field", Filter{Query: "liverpool", Field: FilterLocation}, []int64{2}},
		{"league id", Filter{LeagueID: ptr(int64(2))}, []int64{3}},
		{"wealth range", Filter{MinWealth: ptr(int64(1000)), MaxWealth: ptr(int64(2000))}, []int64{2}},
		{"year range", Filter{MaxYear: ptr(int64(1870))}, []int64{3}},
		{"no match", Filter{Query: "zzz"}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			teams, err := s.ListTeams(ctx, tc.filter)
			if err != nil {
				t.Fatalf("Failed to list teams: %v", err)
			}
			var ids []int64
			for _, tm := range teams {
				ids = append(ids, tm.ID)
			}
			if len(ids) != len(tc.want) {
				t.Fatalf("Expected IDs %v, got %v", tc.want, ids)
			}
			for i := range ids {
				if ids[i] != tc.want[i] {
					t.Errorf("Expected IDs %v, got %v", tc.want, ids)
				}
			}
		})
	}
}

func TestGetTeam(t *testing.T) {
	s := openTestStore(t, true)

	team, err := s.GetTeam(context.Background(), 2)
	if err != nil {
		t.Fatalf("Failed to get team: %v", err)
	}
	if team.Name != "Everton" || team.Wealth != 1200 {
		t.Errorf("Unexpected team: %+v", team)
	}

	_, err = s.GetTeam(context.Background(), 999)
	if !errors.Is(err, ErrNoSuchTeam) {
		t.Errorf("Expected ErrNoSuchTeam, got %v", err)
	}
}

func TestUpdateTeam(t *testing.T) {
	s := openTestStore(t, true)
	ctx := context.Background()

	err := s.UpdateTeam(ctx, 1, types.Changes{
		types.FieldWealth:   int64(7777),
		types.FieldNickname: "The Arsenal",
	})
	if err != nil {
		t.Fatalf("Failed to update team: %v", err)
	}

	team, err := s.GetTeam(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to reload team: %v", err)
	}
	if team.Wealth != 7777 || team.Nickname != "The Arsenal" {
		t.Errorf("Update not persisted: %+v", team)
	}
	if team.Name != "Arsenal" {
		t.Errorf("Untouched field changed: %+v", team)
	}
}

func TestUpdateTeamNoSuchTeam(t *testing.T) {
	s := openTestStore(t, true)
	err := s.UpdateTeam(context.Background(), 999, types.Changes{types.FieldWealth: int64(1)})
	if !errors.Is(err, ErrNoSuchTeam) {
		t.Errorf("Expected ErrNoSuchTeam, got %v", err)
	}
}

func TestUpdateTeamEmptyChanges(t *testing.T) {
	s := openTestStore(t, true)
	if err := s.UpdateTeam(context.Background(), 1, nil); err != nil {
		t.Errorf("Empty changes should be a no-op, got %v", err)
	}
}

func TestReputationOnOldSave(t *testing.T) {
	s := openTestStore(t, false)
	ctx := context.Background()

	// Reads report zero instead of failing.
	team, err := s.GetTeam(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to get team: %v", err)
	}
	if team.Reputation != 0 {
		t.Errorf("Expected zero reputation on old save, got %d", team.Reputation)
	}

	// Writes fail with ErrNoSuchField and change nothing.
	err = s.UpdateTeam(ctx, 1, types.Changes{
		types.FieldWealth:     int64(9999),
		types.FieldReputation: int64(50),
	})
	if !errors.Is(err, ErrNoSuchField) {
		t.Fatalf("Expected ErrNoSuchField, got %v", err)
	}
	team, err = s.GetTeam(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to reload team: %v", err)
	}
	if team.Wealth != 5000 {
		t.Errorf("Rejected update must not partially apply, wealth = %d", team.Wealth)
	}
}

func TestUpdateTeamsPartialFailure(t *testing.T) {
	s := openTestStore(t, true)
	ctx := context.Background()

	result := s.UpdateTeams(ctx, map[int64]types.Changes{
		1:   {types.FieldWealth: int64(100)},
		999: {types.FieldWealth: int64(100)},
		3:   {types.FieldWealth: int64(100)},
	})

	if len(result.Applied) != 2 {
		t.Errorf("Expected 2 applied, got %v", result.Applied)
	}
	if len(result.Failed) != 1 {
		t.Fatalf("Expected 1 failure, got %v", result.Failed)
	}
	if result.Failed[0].TeamID != 999 || !errors.Is(result.Failed[0].Err, ErrNoSuchTeam) {
		t.Errorf("Unexpected failure: %+v", result.Failed[0])
	}
	if result.Ok() {
		t.Error("Result with failures must not report Ok")
	}

	// The successful teams kept their updates.
	for _, id := range []int64{1, 3} {
		team, err := s.GetTeam(ctx, id)
		if err != nil {
			t.Fatalf("Failed to reload team %d: %v", id, err)
		}
		if team.Wealth != 100 {
			t.Errorf("Team %d not updated past the failure, wealth = %d", id, team.Wealth)
		}
	}
}

func TestUpdateTeamsConstraintFailure(t *testing.T) {
	// A save with a UNIQUE team name; the batch renames both teams to the
	// same name, so the second update violates the constraint.
	path := filepath.Join(t.TempDir(), "save.db")
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	for _, stmt := range []string{
		`CREATE TABLE Teams (
			ID INTEGER PRIMARY KEY,
			TeamName TEXT NOT NULL UNIQUE,
			TeamWealth INTEGER NOT NULL,
			TeamFoundYear INTEGER NOT NULL,
			TeamLocation TEXT NOT NULL,
			SupporterCount INTEGER NOT NULL,
			StadiumName TEXT NOT NULL,
			Nickname TEXT NOT NULL,
			BelongingLeague INTEGER NOT NULL)`,
		`CREATE TABLE League (ID INTEGER PRIMARY KEY, LeagueName TEXT NOT NULL)`,
		`CREATE TABLE Staff (
			ID INTEGER PRIMARY KEY,
			Name TEXT NOT NULL,
			AbilityJSON TEXT NOT NULL,
			Fame INTEGER NOT NULL,
			EmployedTeamID INTEGER NOT NULL)`,
		`INSERT INTO Teams VALUES (1, 'Arsenal', 1, 1886, 'London', 1, 'Emirates', 'Gunners', 1)`,
		`INSERT INTO Teams VALUES (2, 'Everton', 1, 1878, 'Liverpool', 1, 'Goodison', 'Toffees', 1)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Failed to create schema: %v", err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Failed to close test database: %v", err)
	}

	s, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	ctx := context.Background()

	result := s.UpdateTeams(ctx, map[int64]types.Changes{
		1: {types.FieldName: "Same"},
		2: {types.FieldName: "Same"},
	})

	// Ids process in ascending order: 1 takes the name, 2 collides.
	if len(result.Applied) != 1 || result.Applied[0] != 1 {
		t.Errorf("Expected team 1 applied, got %v", result.Applied)
	}
	if len(result.Failed) != 1 {
		t.Fatalf("Expected 1 failure, got %v", result.Failed)
	}
	if result.Failed[0].TeamID != 2 || !errors.Is(result.Failed[0].Err, ErrConstraint) {
		t.Errorf("Expected ErrConstraint for team 2, got %+v", result.Failed[0])
	}

	team, err := s.GetTeam(ctx, 2)
	if err != nil {
		t.Fatalf("Failed to reload team 2: %v", err)
	}
	if team.Name != "Everton" {
		t.Errorf("Failed update must leave the row unchanged, name = %q", team.Name)
	}
}

func TestStaffForTeam(t *testing.T) {
	s := openTestStore(t, true)

	staff, err := s.StaffForTeam(context.Background(), 1)
	if err != nil {
		t.Fatalf("Failed to list staff: %v", err)
	}
	if len(staff) != 2 {
		t.Fatalf("Expected 2 staff, got %d", len(staff))
	}
	if staff[0].Name != "Arteta" || staff[1].Name != "Physio" {
		t.Errorf("Unexpected staff order: %v, %v", staff[0].Name, staff[1].Name)
	}

	none, err := s.StaffForTeam(context.Background(), 3)
	if err != nil {
		t.Fatalf("Failed to list staff: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Expected no staff for team 3, got %d", len(none))
	}
}

func TestUpdateStaffPreservesAbilityKeys(t *testing.T) {
	s := openTestStore(t, true)
	ctx := context.Background()

	st, err := s.GetStaff(ctx, 10)
	if err != nil {
		t.Fatalf("Failed to get staff: %v", err)
	}
	if err := st.SetAbility(95); err != nil {
		t.Fatalf("Failed to set ability: %v", err)
	}
	st.Fame = 99
	if err := s.UpdateStaff(ctx, st); err != nil {
		t.Fatalf("Failed to update staff: %v", err)
	}

	got, err := s.GetStaff(ctx, 10)
	if err != nil {
		t.Fatalf("Failed to reload staff: %v", err)
	}
	if got.Fame != 99 {
		t.Errorf("Fame not persisted: %d", got.Fame)
	}
	ability, err := got.Ability()
	if err != nil {
		t.Fatalf("Failed to read ability: %v", err)
	}
	if ability != 95 {
		t.Errorf("Expected ability 95, got %d", ability)
	}
	// The undocumented tactics key survives the round trip.
	if !strings.Contains(got.AbilityJSON, `"tactics"`) {
		t.Errorf("Unknown ability key dropped: %s", got.AbilityJSON)
	}
}

func TestUpdateStaffNoSuchStaff(t *testing.T) {
	s := openTestStore(t, true)
	err := s.UpdateStaff(context.Background(), types.Staff{ID: 999, Name: "Ghost", AbilityJSON: "{}"})
	if !errors.Is(err, ErrNoSuchStaff) {
		t.Errorf("Expected ErrNoSuchStaff, got %v", err)
	}
}

func TestLeagues(t *testing.T) {
	s := openTestStore(t, true)

	leagues, err := s.Leagues(context.Background())
	if err != nil {
		t.Fatalf("Failed to list leagues: %v", err)
	}
	if len(leagues) != 2 || leagues[0].Name != "Premier" {
		t.Errorf("Unexpected leagues: %+v", leagues)
	}

	names, err := s.LeagueNames(context.Background())
	if err != nil {
		t.Fatalf("Failed to build league lookup: %v", err)
	}
	if LeagueName(names, 2) != "Championship" {
		t.Errorf("Unexpected league name: %s", LeagueName(names, 2))
	}
	if LeagueName(names, 7) != "league 7" {
		t.Errorf("Unknown league should fall back to placeholder, got %s", LeagueName(names, 7))
	}
}

func ptr[T any](v T) *T { return &v }
