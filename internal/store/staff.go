package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cfsedit/internal/logging"
	"cfsedit/internal/types"
)

// StaffForTeam returns the employees of one team, ordered by name.
func (s *Store) StaffForTeam(ctx context.Context, teamID int64) ([]types.Staff, error) {
	var staff []types.Staff
	query := "SELECT ID, Name, AbilityJSON, Fame, EmployedTeamID FROM Staff " +
		"WHERE EmployedTeamID = ? ORDER BY Name"
	if err := s.db.SelectContext(ctx, &staff, query, teamID); err != nil {
		return nil, fmt.Errorf("staff for team %d: %w", teamID, err)
	}
	return staff, nil
}

// GetStaff loads a single staff record by identifier.
func (s *Store) GetStaff(ctx context.Context, id int64) (types.Staff, error) {
	var st types.Staff
	query := "SELECT ID, Name, AbilityJSON, Fame, EmployedTeamID FROM Staff WHERE ID = ?"
	if err := s.db.GetContext(ctx, &st, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Staff{}, fmt.Errorf("%w: %d", ErrNoSuchStaff, id)
		}
		return types.Staff{}, fmt.Errorf("get staff %d: %w", id, err)
	}
	return st, nil
}

// UpdateStaff persists one staff record's editable fields (name, fame and
// ability JSON). The record is written independently of any pending team
// edits; identifier and employer are never changed.
func (s *Store) UpdateStaff(ctx context.Context, st types.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := "UPDATE Staff SET Name = ?, Fame = ?, AbilityJSON = ? WHERE ID = ?"
	res, err := s.db.ExecContext(ctx, query, st.Name, st.Fame, st.AbilityJSON, st.ID)
	if err != nil {
		return fmt.Errorf("update staff %d: %w", st.ID, mapSQLiteError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update staff %d: %w", st.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrNoSuchStaff, st.ID)
	}

	logging.StoreDebug("Updated staff %d", st.ID)
	return nil
}
