package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cfsedit/internal/export"
	"cfsedit/internal/store"
)

var (
	exportOut string

	filterQuery    string
	filterLocation string
	filterLeague   int64
	filterMinW     int64
	filterMaxW     int64
	filterMinY     int64
	filterMaxY     int64
)

// exportCmd writes the (optionally filtered) team list to CSV without
// opening the editor.
var exportCmd = &cobra.Command{
	Use:   "export [save.db]",
	Short: "Export teams to CSV",
	Long: `Exports the team list to CSV with a fixed column layout. Filters
narrow the exported set the same way the editor's filter bar does.

Example:
  cfsedit export save.db -o premier.csv --league 1 --min-wealth 1000`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "teams.csv", "output CSV path")
	addFilterFlags(exportCmd)
}

// addFilterFlags registers the shared team filter flags.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&filterQuery, "filter", "", "substring match across all fields")
	cmd.Flags().StringVar(&filterLocation, "location", "", "exact location match")
	cmd.Flags().Int64Var(&filterLeague, "league", 0, "league identifier")
	cmd.Flags().Int64Var(&filterMinW, "min-wealth", -1, "minimum wealth")
	cmd.Flags().Int64Var(&filterMaxW, "max-wealth", -1, "maximum wealth")
	cmd.Flags().Int64Var(&filterMinY, "min-year", 0, "earliest founding year")
	cmd.Flags().Int64Var(&filterMaxY, "max-year", 0, "latest founding year")
}

// filterFromFlags assembles the store filter from the shared flags.
func filterFromFlags(cmd *cobra.Command) store.Filter {
	f := store.Filter{Query: filterQuery, Location: filterLocation}
	if cmd.Flags().Changed("league") {
		f.LeagueID = &filterLeague
	}
	if filterMinW >= 0 {
		f.MinWealth = &filterMinW
	}
	if filterMaxW >= 0 {
		f.MaxWealth = &filterMaxW
	}
	if filterMinY > 0 {
		f.MinYear = &filterMinY
	}
	if filterMaxY > 0 {
		f.MaxYear = &filterMaxY
	}
	return f
}

func runExport(cmd *cobra.Command, args []string) error {
	st, ctx, cancel, err := openStore(args[0])
	if err != nil {
		return err
	}
	defer cancel()
	defer st.Close()

	n, err := export.ExportFile(ctx, st, filterFromFlags(cmd), exportOut)
	if err != nil {
		return err
	}

	logger.Info("Export complete", zap.Int("teams", n), zap.String("path", exportOut))
	fmt.Printf("Exported %d team(s) to %s\n", n, exportOut)
	return nil
}
