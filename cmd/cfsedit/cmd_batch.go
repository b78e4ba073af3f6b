package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cfsedit/internal/session"
	"cfsedit/internal/types"
)

var (
	batchIDs     string
	batchField   string
	batchSet     int64
	batchAdd     int64
	batchPercent int64
	batchSetText string
)

// batchCmd applies one adjustment to a set of teams from the command
// line.
var batchCmd = &cobra.Command{
	Use:   "batch [save.db]",
	Short: "Apply one change to multiple teams",
	Long: `Adjusts one field across a set of teams. Exactly one of --set,
--add, --percent or --set-text must be given. Each team is updated
independently; a failure on one team does not roll back the others.

Examples:
  cfsedit batch save.db --ids 1,2,3 --field wealth --add 500
  cfsedit batch save.db --ids 4,5 --field supporters --percent -10
  cfsedit batch save.db --ids 4,5 --field location --set-text "Madrid"
  cfsedit batch save.db --ids 4,5 --field league --set 2`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchIDs, "ids", "", "comma-separated team identifiers (required)")
	batchCmd.Flags().StringVar(&batchField, "field", "wealth", "field to adjust: wealth, supporters, reputation, location, league")
	batchCmd.Flags().Int64Var(&batchSet, "set", 0, "set the field to this value")
	batchCmd.Flags().Int64Var(&batchAdd, "add", 0, "add this amount (may be negative)")
	batchCmd.Flags().Int64Var(&batchPercent, "percent", 0, "change by this percentage (may be negative)")
	batchCmd.Flags().StringVar(&batchSetText, "set-text", "", "set the field to this text value")
	_ = batchCmd.MarkFlagRequired("ids")
}

func parseIDList(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid team identifier %q", p)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no team identifiers given")
	}
	return ids, nil
}

// batchChange is the single adjustment the flags describe: either a
// numeric modifier or a verbatim text set.
type batchChange struct {
	isText bool
	text   string
	mod    session.Modifier
}

func batchChangeFromFlags(cmd *cobra.Command) (batchChange, error) {
	given := 0
	var ch batchChange
	if cmd.Flags().Changed("set") {
		given++
		ch = batchChange{mod: session.Modifier{Mode: session.ModifierSet, Value: batchSet}}
	}
	if cmd.Flags().Changed("add") {
		given++
		ch = batchChange{mod: session.Modifier{Mode: session.ModifierAdd, Value: batchAdd}}
	}
	if cmd.Flags().Changed("percent") {
		given++
		ch = batchChange{mod: session.Modifier{Mode: session.ModifierPercent, Value: batchPercent}}
	}
	if cmd.Flags().Changed("set-text") {
		given++
		ch = batchChange{isText: true, text: batchSetText}
	}
	if given != 1 {
		return ch, fmt.Errorf("exactly one of --set, --add, --percent or --set-text is required")
	}
	return ch, nil
}

func batchTargetField(name string) (types.Field, error) {
	switch strings.ToLower(name) {
	case "wealth":
		return types.FieldWealth, nil
	case "supporters":
		return types.FieldSupporters, nil
	case "reputation":
		return types.FieldReputation, nil
	case "location":
		return types.FieldLocation, nil
	case "league":
		return types.FieldLeague, nil
	}
	return "", fmt.Errorf("unknown field %q (wealth, supporters, reputation, location, league)", name)
}

func runBatch(cmd *cobra.Command, args []string) error {
	ids, err := parseIDList(batchIDs)
	if err != nil {
		return err
	}
	field, err := batchTargetField(batchField)
	if err != nil {
		return err
	}
	change, err := batchChangeFromFlags(cmd)
	if err != nil {
		return err
	}

	st, ctx, cancel, err := openStore(args[0])
	if err != nil {
		return err
	}
	defer cancel()
	defer st.Close()

	sess := session.New(st)
	if err := sess.SelectMany(ctx, ids); err != nil {
		return err
	}
	if change.isText {
		err = sess.SetField(field, change.text)
	} else {
		err = sess.ApplyModifier(field, change.mod)
	}
	if err != nil {
		return err
	}

	result, err := sess.Save(ctx)
	for _, f := range result.Failed {
		logger.Warn("Batch update failed for team", zap.Int64("team", f.TeamID), zap.Error(f.Err))
		fmt.Printf("team %d: %v\n", f.TeamID, f.Err)
	}
	fmt.Printf("Updated %d of %d team(s)\n", len(result.Applied), len(ids))
	return err
}
