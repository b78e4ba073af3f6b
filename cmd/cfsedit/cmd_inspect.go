package main

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

var (
	inspectTeams  bool
	inspectStaff  bool
	inspectSchema bool
)

// inspectCmd dumps the raw save contents read-only. It uses the pure-Go
// SQLite driver so it works even where the main editor's driver cannot be
// built, and it never takes a write lock on the save.
var inspectCmd = &cobra.Command{
	Use:   "inspect [save.db]",
	Short: "Dump raw save contents (read-only)",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectTeams, "teams", true, "dump team rows")
	inspectCmd.Flags().BoolVar(&inspectStaff, "staff", false, "dump staff rows")
	inspectCmd.Flags().BoolVar(&inspectSchema, "schema", false, "dump table definitions")
}

func runInspect(cmd *cobra.Command, args []string) error {
	db, err := sql.Open("sqlite", "file:"+args[0]+"?mode=ro")
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if inspectSchema {
		fmt.Println(strings.Repeat("=", 72))
		fmt.Println("SCHEMA")
		fmt.Println(strings.Repeat("=", 72))
		rows, err := db.Query("SELECT name, sql FROM sqlite_master WHERE type = 'table' ORDER BY name")
		if err != nil {
			return err
		}
		for rows.Next() {
			var name string
			var ddl sql.NullString
			if err := rows.Scan(&name, &ddl); err != nil {
				rows.Close()
				return err
			}
			fmt.Printf("\n-- %s\n%s\n", name, ddl.String)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
	}

	if inspectTeams {
		fmt.Println(strings.Repeat("=", 72))
		fmt.Println("TEAMS")
		fmt.Println(strings.Repeat("=", 72))
		rows, err := db.Query(`SELECT ID, TeamName, TeamWealth, TeamFoundYear, TeamLocation,
			SupporterCount, BelongingLeague FROM Teams ORDER BY ID`)
		if err != nil {
			return err
		}
		for rows.Next() {
			var id, wealth, year, supporters, league int64
			var name, location string
			if err := rows.Scan(&id, &name, &wealth, &year, &location, &supporters, &league); err != nil {
				rows.Close()
				return err
			}
			fmt.Printf("[%4d] %-28s wealth=%-8d founded=%d %-18s supporters=%-8d league=%d\n",
				id, name, wealth, year, location, supporters, league)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
	}

	if inspectStaff {
		fmt.Println(strings.Repeat("=", 72))
		fmt.Println("STAFF")
		fmt.Println(strings.Repeat("=", 72))
		rows, err := db.Query("SELECT ID, Name, Fame, EmployedTeamID, AbilityJSON FROM Staff ORDER BY EmployedTeamID, ID")
		if err != nil {
			return err
		}
		for rows.Next() {
			var id, fame, teamID int64
			var name, ability string
			if err := rows.Scan(&id, &name, &fame, &teamID, &ability); err != nil {
				rows.Close()
				return err
			}
			fmt.Printf("[%4d] %-24s fame=%-5d team=%-4d %s\n", id, name, fame, teamID, ability)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
	}

	return nil
}
