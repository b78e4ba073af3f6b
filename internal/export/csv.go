// Package export writes team lists out of the editor as CSV.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"cfsedit/internal/logging"
	"cfsedit/internal/store"
	"cfsedit/internal/types"
)

// columns is the fixed header row. Export order never depends on the
// on-screen column layout.
var columns = []string{
	"ID", "Name", "Wealth", "FoundedYear", "Reputation",
	"Location", "League", "Supporters", "Stadium", "Nickname",
}

// WriteCSV streams the teams to w, one row per team plus the header.
// League identifiers are resolved through names when possible.
func WriteCSV(w io.Writer, teams []types.Team, names map[int64]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range teams {
		row := []string{
			strconv.FormatInt(t.ID, 10),
			t.Name,
			strconv.FormatInt(t.Wealth, 10),
			strconv.FormatInt(t.FoundYear, 10),
			strconv.FormatInt(t.Reputation, 10),
			t.Location,
			store.LeagueName(names, t.LeagueID),
			strconv.FormatInt(t.SupporterCount, 10),
			t.StadiumName,
			t.Nickname,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row for team %d: %w", t.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFile writes the current (filtered) team list to path. The file is
// created fresh; a partial write from a failed export is removed rather
// than left behind.
func ExportFile(ctx context.Context, st *store.Store, filter store.Filter, path string) (int, error) {
	timer := logging.StartTimer(logging.CategoryExport, "ExportFile")
	defer timer.Stop()

	teams, err := st.ListTeams(ctx, filter)
	if err != nil {
		return 0, err
	}
	names, err := st.LeagueNames(ctx)
	if err != nil {
		return 0, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("create export directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create export file: %w", err)
	}
	if err := WriteCSV(f, teams, names); err != nil {
		f.Close()
		os.Remove(path)
		return 0, err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("close export file: %w", err)
	}

	logging.Export("Exported %d team(s) to %s", len(teams), path)
	return len(teams), nil
}
