package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"cfsedit/internal/logging"
	"cfsedit/internal/types"
)

// teamColumns maps editable fields to their Teams columns. The UPDATE
// statement is built only from this whitelist.
var teamColumns = map[types.Field]string{
	types.FieldName:       "TeamName",
	types.FieldWealth:     "TeamWealth",
	types.FieldFoundYear:  "TeamFoundYear",
	types.FieldLocation:   "TeamLocation",
	types.FieldSupporters: "SupporterCount",
	types.FieldStadium:    "StadiumName",
	types.FieldNickname:   "Nickname",
	types.FieldLeague:     "BelongingLeague",
	types.FieldReputation: "TeamReputation",
}

// FilterField selects which columns a free-text filter matches against.
type FilterField int

const (
	FilterAll FilterField = iota
	FilterName
	FilterLocation
	FilterLeague
)

// Filter narrows ListTeams results. The zero value matches every team.
// Text matching is case-insensitive substring; ranges are inclusive.
type Filter struct {
	Query string
	Field FilterField

	Location string
	LeagueID *int64

	MinWealth *int64
	MaxWealth *int64
	MinYear   *int64
	MaxYear   *int64
}

func (f Filter) matches(t types.Team) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		var hay string
		switch f.Field {
		case FilterName:
			hay = strings.ToLower(t.Name)
		case FilterLocation:
			hay = strings.ToLower(t.Location)
		case FilterLeague:
			hay = fmt.Sprintf("%d", t.LeagueID)
		default:
			hay = t.SearchText()
		}
		if !strings.Contains(hay, q) {
			return false
		}
	}
	if f.Location != "" && t.Location != f.Location {
		return false
	}
	if f.LeagueID != nil && t.LeagueID != *f.LeagueID {
		return false
	}
	if f.MinWealth != nil && t.Wealth < *f.MinWealth {
		return false
	}
	if f.MaxWealth != nil && t.Wealth > *f.MaxWealth {
		return false
	}
	if f.MinYear != nil && t.FoundYear < *f.MinYear {
		return false
	}
	if f.MaxYear != nil && t.FoundYear > *f.MaxYear {
		return false
	}
	return true
}

// selectColumns builds the team SELECT list. Saves without the optional
// reputation column report zero for it.
func (s *Store) selectColumns() string {
	rep := "TeamReputation"
	if !s.hasReputation {
		rep = "0 AS TeamReputation"
	}
	return "ID, TeamName, TeamWealth, TeamFoundYear, TeamLocation, " +
		"SupporterCount, StadiumName, Nickname, BelongingLeague, " + rep
}

// ListTeams returns teams matching the filter, ordered by name.
func (s *Store) ListTeams(ctx context.Context, filter Filter) ([]types.Team, error) {
	timer := logging.StartTimer(logging.CategoryStore, "ListTeams")
	defer timer.Stop()

	var teams []types.Team
	query := fmt.Sprintf("SELECT %s FROM Teams ORDER BY TeamName", s.selectColumns())
	if err := s.db.SelectContext(ctx, &teams, query); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	out := teams[:0]
	for _, t := range teams {
		if filter.matches(t) {
			out = append(out, t)
		}
	}
	logging.StoreDebug("ListTeams: %d matched", len(out))
	return out, nil
}

// GetTeam loads a single team by identifier.
func (s *Store) GetTeam(ctx context.Context, id int64) (types.Team, error) {
	var t types.Team
	query := fmt.Sprintf("SELECT %s FROM Teams WHERE ID = ?", s.selectColumns())
	if err := s.db.GetContext(ctx, &t, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Team{}, fmt.Errorf("%w: %d", ErrNoSuchTeam, id)
		}
		return types.Team{}, fmt.Errorf("get team %d: %w", id, err)
	}
	return t, nil
}

// UpdateTeam applies the field changes to one team as a single atomic
// UPDATE statement. Fails with ErrNoSuchTeam when the identifier is
// unknown, ErrNoSuchField when a field has no column in this save, and
// ErrConstraint when SQLite rejects the statement.
func (s *Store) UpdateTeam(ctx context.Context, id int64, changes types.Changes) error {
	if len(changes) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateTeamLocked(ctx, id, changes)
}

func (s *Store) updateTeamLocked(ctx context.Context, id int64, changes types.Changes) error {
	var (
		sets []string
		args []any
	)
	// Iterate the canonical field order so the statement is deterministic.
	for _, f := range types.TeamFields {
		v, ok := changes[f]
		if !ok {
			continue
		}
		if f == types.FieldReputation && !s.hasReputation {
			return fmt.Errorf("%w: reputation (no TeamReputation column)", ErrNoSuchField)
		}
		col, ok := teamColumns[f]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNoSuchField, f)
		}
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE Teams SET %s WHERE ID = ?", strings.Join(sets, ", "))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update team %d: %w", id, mapSQLiteError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update team %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrNoSuchTeam, id)
	}

	logging.StoreDebug("Updated team %d: %d field(s)", id, len(changes))
	return nil
}

// BatchError records one failed team inside a batch update.
type BatchError struct {
	TeamID int64
	Err    error
}

func (e BatchError) Error() string {
	return fmt.Sprintf("team %d: %v", e.TeamID, e.Err)
}

func (e BatchError) Unwrap() error { return e.Err }

// BatchResult reports the outcome of a batch update. A failure on one team
// never rolls back or stops the others.
type BatchResult struct {
	Applied []int64
	Failed  []BatchError
}

// Ok reports whether every team in the batch was updated.
func (r BatchResult) Ok() bool {
	return len(r.Failed) == 0
}

// UpdateTeams applies per-team field changes, each as its own independent
// statement. Prior successes are kept when a later team fails; the result
// names exactly which identifiers failed and why.
func (s *Store) UpdateTeams(ctx context.Context, changes map[int64]types.Changes) BatchResult {
	timer := logging.StartTimer(logging.CategoryStore, "UpdateTeams")
	defer timer.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(changes))
	for id := range changes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var result BatchResult
	for _, id := range ids {
		if err := s.updateTeamLocked(ctx, id, changes[id]); err != nil {
			result.Failed = append(result.Failed, BatchError{TeamID: id, Err: err})
			continue
		}
		result.Applied = append(result.Applied, id)
	}

	logging.Store("Batch update: %d applied, %d failed", len(result.Applied), len(result.Failed))
	return result
}
