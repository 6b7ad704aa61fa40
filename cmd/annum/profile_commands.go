package main

import (
	"context"
	"fmt"
	"time"

	"github.com/annumhq/annum/internal/ui"
	"github.com/annumhq/annum/profile"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your public profile",
}

// profile show
var profileShowCmd = &cobra.Command{
	Use:   "show [username]",
	Short: "Show a profile's activity summary",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProfileShow,
}

// profile claim
var profileClaimCmd = &cobra.Command{
	Use:   "claim <username>",
	Short: "Claim a public username",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileClaim,
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileShowCmd, profileClaimCmd)
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var found *profile.Profile
	if len(args) > 0 {
		found, err = application.profiles.ByUsername(ctx, args[0])
	} else {
		if _, err := application.requireUser(); err != nil {
			return err
		}
		found, err = application.profiles.ByID(ctx, application.userID())
	}
	if err != nil {
		return err
	}

	fmt.Printf("@%s\n", found.Username)
	now := time.Now()
	monthFrom, monthTo := profile.LastNDays(now, 30)
	if err := printActivity(ctx, application, found.ID, "last 30 days", monthFrom, monthTo); err != nil {
		return err
	}
	yearFrom, yearTo := profile.YearDays(now)
	return printActivity(ctx, application, found.ID, now.Format("2006"), yearFrom, yearTo)
}

func runProfileClaim(cmd *cobra.Command, args []string) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	if _, err := application.requireUser(); err != nil {
		return err
	}

	claimed, err := application.profiles.ClaimUsername(cmd.Context(), application.userID(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("claimed @%s\n", claimed.Username)
	return nil
}

func printActivity(ctx context.Context, application *app, userID, label, from, to string) error {
	tasks, err := application.profiles.Activity(ctx, userID, from, to)
	if err != nil {
		return err
	}
	summary := profile.Aggregate(tasks)
	fmt.Printf("%s: %s across %d active days\n", label, ui.FormatHuman(summary.TotalMS), summary.ActiveDays)
	return nil
}
