package main

import (
	"testing"

	"github.com/spf13/cobra"

	"cfsedit/internal/session"
	"cfsedit/internal/types"
)

func TestRootCommandWiring(t *testing.T) {
	if rootCmd.Root() != rootCmd {
		t.Fatalf("expected rootCmd to be its own root")
	}
	want := map[string]bool{"export": false, "batch": false, "logo": false, "stats": false, "inspect": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("subcommand %q not registered", name)
		}
	}
}

func TestParseIDList(t *testing.T) {
	ids, err := parseIDList("1, 2,3")
	if err != nil {
		t.Fatalf("parseIDList returned error: %v", err)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[2] != 3 {
		t.Fatalf("unexpected ids: %v", ids)
	}

	if _, err := parseIDList("1,x"); err == nil {
		t.Fatalf("expected error for junk identifier")
	}
	if _, err := parseIDList(" , "); err == nil {
		t.Fatalf("expected error for empty list")
	}
}

func TestBatchTargetField(t *testing.T) {
	f, err := batchTargetField("Wealth")
	if err != nil || f != types.FieldWealth {
		t.Fatalf("expected wealth field, got %v (%v)", f, err)
	}
	if f, err := batchTargetField("location"); err != nil || f != types.FieldLocation {
		t.Fatalf("expected location field, got %v (%v)", f, err)
	}
	if _, err := batchTargetField("stadium"); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestBatchChangeRequiresExactlyOne(t *testing.T) {
	newCmd := func() *cobra.Command {
		cmd := &cobra.Command{Use: "batch"}
		cmd.Flags().Int64Var(&batchSet, "set", 0, "")
		cmd.Flags().Int64Var(&batchAdd, "add", 0, "")
		cmd.Flags().Int64Var(&batchPercent, "percent", 0, "")
		cmd.Flags().StringVar(&batchSetText, "set-text", "", "")
		return cmd
	}

	cmd := newCmd()
	if _, err := batchChangeFromFlags(cmd); err == nil {
		t.Fatalf("expected error with no mode flag")
	}

	cmd = newCmd()
	if err := cmd.Flags().Set("add", "100"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}
	ch, err := batchChangeFromFlags(cmd)
	if err != nil {
		t.Fatalf("batchChangeFromFlags returned error: %v", err)
	}
	if ch.isText || ch.mod.Mode != session.ModifierAdd || ch.mod.Value != 100 {
		t.Fatalf("unexpected change: %+v", ch)
	}

	cmd = newCmd()
	_ = cmd.Flags().Set("set-text", "Madrid")
	ch, err = batchChangeFromFlags(cmd)
	if err != nil {
		t.Fatalf("batchChangeFromFlags returned error: %v", err)
	}
	if !ch.isText || ch.text != "Madrid" {
		t.Fatalf("unexpected change: %+v", ch)
	}

	cmd = newCmd()
	_ = cmd.Flags().Set("add", "1")
	_ = cmd.Flags().Set("percent", "5")
	if _, err := batchChangeFromFlags(cmd); err == nil {
		t.Fatalf("expected error with two mode flags")
	}
}

func TestFilterFromFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "export"}
	addFilterFlags(cmd)

	filterQuery = ""
	filterLocation = ""
	_ = cmd.Flags().Set("league", "2")
	_ = cmd.Flags().Set("min-wealth", "100")

	f := filterFromFlags(cmd)
	if f.LeagueID == nil || *f.LeagueID != 2 {
		t.Fatalf("expected league filter, got %+v", f)
	}
	if f.MinWealth == nil || *f.MinWealth != 100 {
		t.Fatalf("expected min wealth filter, got %+v", f)
	}
	if f.MaxWealth != nil || f.MinYear != nil {
		t.Fatalf("unset bounds must stay nil: %+v", f)
	}
}
