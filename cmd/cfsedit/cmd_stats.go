package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cfsedit/cmd/cfsedit/ui"
	"cfsedit/internal/stats"
)

var statsBy string

// statsCmd prints the distributions the chart page shows, as tables.
var statsCmd = &cobra.Command{
	Use:   "stats [save.db]",
	Short: "Show team distributions",
	Long: `Prints bucketed distributions over the team list. Filters narrow
the charted set the same way they narrow an export.

Metrics: wealth, supporters, location, league, decade (or "all").`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsBy, "by", "all", "metric: wealth, supporters, location, league, decade, all")
	addFilterFlags(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	st, ctx, cancel, err := openStore(args[0])
	if err != nil {
		return err
	}
	defer cancel()
	defer st.Close()

	teams, err := st.ListTeams(ctx, filterFromFlags(cmd))
	if err != nil {
		return err
	}
	names, err := st.LeagueNames(ctx)
	if err != nil {
		return err
	}

	metrics := map[string]func() []stats.Bucket{
		"wealth":     func() []stats.Bucket { return stats.WealthDistribution(teams) },
		"supporters": func() []stats.Bucket { return stats.SupporterDistribution(teams) },
		"location":   func() []stats.Bucket { return stats.ByLocation(teams) },
		"league":     func() []stats.Bucket { return stats.ByLeague(teams, names) },
		"decade":     func() []stats.Bucket { return stats.FoundingDecades(teams) },
	}
	order := []string{"wealth", "supporters", "location", "league", "decade"}

	selected := strings.ToLower(statsBy)
	if selected != "all" {
		if _, ok := metrics[selected]; !ok {
			return fmt.Errorf("unknown metric %q", statsBy)
		}
		order = []string{selected}
	}

	styles := ui.DefaultStyles()
	fmt.Printf("%d team(s)\n\n", len(teams))
	for _, name := range order {
		title := strings.ToUpper(name[:1]) + name[1:]
		table := ui.NewSimpleTable(title, []string{"Bucket", "Teams", "Share"})
		buckets := metrics[name]()
		total := stats.Total(buckets)
		for _, b := range buckets {
			table.AddRow(b.Label, strconv.Itoa(b.Count),
				fmt.Sprintf("%d%%", stats.Percent(b.Count, total)))
		}
		fmt.Println(table.View(styles))
	}
	return nil
}
