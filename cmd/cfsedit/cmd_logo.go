package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cfsedit/internal/logo"
)

// logoCmd groups the logo subcommands.
var logoCmd = &cobra.Command{
	Use:   "logo",
	Short: "Manage team logos",
	Long: `Team logos live in a logos/ directory next to the save database,
one PNG per team named <teamID>.png. The game reads them as-is; cfsedit
normalizes any input image to a square PNG before installing it.`,
}

var logoSetCmd = &cobra.Command{
	Use:   "set [save.db] [teamID] [image]",
	Short: "Install an image as a team's logo",
	Args:  cobra.ExactArgs(3),
	RunE:  runLogoSet,
}

var logoRemoveCmd = &cobra.Command{
	Use:   "rm [save.db] [teamID]",
	Short: "Remove a team's logo",
	Args:  cobra.ExactArgs(2),
	RunE:  runLogoRemove,
}

var logoInfoCmd = &cobra.Command{
	Use:   "info [save.db] [teamID]",
	Short: "Show a team's installed logo",
	Args:  cobra.ExactArgs(2),
	RunE:  runLogoInfo,
}

func init() {
	logoCmd.AddCommand(logoSetCmd)
	logoCmd.AddCommand(logoRemoveCmd)
	logoCmd.AddCommand(logoInfoCmd)
}

func runLogoSet(cmd *cobra.Command, args []string) error {
	teamID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid team identifier %q", args[1])
	}

	st, ctx, cancel, err := openStore(args[0])
	if err != nil {
		return err
	}
	defer cancel()
	defer st.Close()

	if err := logo.Replace(ctx, st, teamID, args[2], cfg.Logo.Size); err != nil {
		return err
	}

	logger.Info("Logo installed", zap.Int64("team", teamID), zap.String("source", args[2]))
	fmt.Printf("Installed logo for team %d at %s\n", teamID, logo.Path(st.Dir(), teamID))
	return nil
}

func runLogoInfo(cmd *cobra.Command, args []string) error {
	teamID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid team identifier %q", args[1])
	}

	st, ctx, cancel, err := openStore(args[0])
	if err != nil {
		return err
	}
	defer cancel()
	defer st.Close()

	team, err := st.GetTeam(ctx, teamID)
	if err != nil {
		return err
	}

	img, err := logo.Load(st.Dir(), teamID)
	if errors.Is(err, os.ErrNotExist) {
		fmt.Printf("%s (team %d) has no logo\n", team.Name, teamID)
		return nil
	}
	if err != nil {
		return err
	}
	b := img.Bounds()
	fmt.Printf("%s (team %d): %dx%d png at %s\n",
		team.Name, teamID, b.Dx(), b.Dy(), logo.Path(st.Dir(), teamID))
	return nil
}

func runLogoRemove(cmd *cobra.Command, args []string) error {
	teamID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid team identifier %q", args[1])
	}

	st, ctx, cancel, err := openStore(args[0])
	if err != nil {
		return err
	}
	defer cancel()
	defer st.Close()

	if err := logo.Remove(ctx, st, teamID); err != nil {
		return err
	}
	fmt.Printf("Removed logo for team %d\n", teamID)
	return nil
}
