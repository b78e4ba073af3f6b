package store

import (
	"context"
	"fmt"

	"cfsedit/internal/types"
)

// Leagues returns every league in the save, ordered by identifier.
func (s *Store) Leagues(ctx context.Context) ([]types.League, error) {
	var leagues []types.League
	if err := s.db.SelectContext(ctx, &leagues,
		"SELECT ID, LeagueName FROM League ORDER BY ID"); err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	return leagues, nil
}

// LeagueNames returns an ID-to-name lookup for display.
func (s *Store) LeagueNames(ctx context.Context) (map[int64]string, error) {
	leagues, err := s.Leagues(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(leagues))
	for _, l := range leagues {
		names[l.ID] = l.Name
	}
	return names, nil
}

// LeagueName resolves one league identifier, falling back to a numeric
// placeholder for identifiers without a League row.
func LeagueName(names map[int64]string, id int64) string {
	if name, ok := names[id]; ok {
		return name
	}
	return fmt.Sprintf("league %d", id)
}
