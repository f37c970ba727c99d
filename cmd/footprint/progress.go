package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vladimiradmaev/footprint-helper/internal/bot/menus"
	"github.com/vladimiradmaev/footprint-helper/internal/session"
)

var refreshWhich string

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show the logging streak",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(s *session.Session) error {
			fmt.Fprintln(cmd.OutOrStdout(), menus.FormatStreak(s.Streak()))
			return nil
		})
	},
}

var challengesCmd = &cobra.Command{
	Use:   "challenges",
	Short: "Show today's and this week's challenges",
	RunE: func(cmd *cobra.Command, args []string) error {
		daily, weekly := false, false
		switch refreshWhich {
		case "":
		case "daily":
			daily = true
		case "weekly":
			weekly = true
		case "all":
			daily, weekly = true, true
		default:
			return fmt.Errorf("invalid --refresh %q (expected daily, weekly or all)", refreshWhich)
		}

		return withSession(cmd.Context(), func(s *session.Session) error {
			var set session.ChallengeSet
			if daily || weekly {
				set = s.RefreshChallenges(cmd.Context(), daily, weekly)
			} else {
				set = s.Challenges(cmd.Context())
			}
			fmt.Fprintln(cmd.OutOrStdout(), menus.FormatChallenges(set))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(streakCmd, challengesCmd)
	challengesCmd.Flags().StringVar(&refreshWhich, "refresh", "", "Generate new challenges: daily, weekly or all")
}
