package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vladimiradmaev/footprint-helper/internal/bot/menus"
	"github.com/vladimiradmaev/footprint-helper/internal/session"
)

var (
	logPhoto   string
	summaryDay int
)

var logCmd = &cobra.Command{
	Use:   "log <food qty, ...>",
	Short: "Log a meal, e.g. footprint log rice 200g, lentils 150g",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		description := strings.TrimSpace(strings.Join(args, " "))
		var image []byte
		if logPhoto != "" {
			data, err := os.ReadFile(logPhoto)
			if err != nil {
				return fmt.Errorf("read --photo: %w", err)
			}
			image = data
		}
		if description == "" && image == nil {
			return fmt.Errorf("describe the meal or pass --photo")
		}

		return withSession(cmd.Context(), func(s *session.Session) error {
			analysis, err := s.AnalyzePhoto(cmd.Context(), image, description)
			if err != nil {
				return err
			}
			res, err := s.LogMeal(cmd.Context(), analysis.Meal())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), menus.FormatItems(analysis.Items))
			fmt.Fprintln(cmd.OutOrStdout(), menus.FormatLogResult(res))
			return nil
		})
	},
}

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "List logged meals, oldest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(s *session.Session) error {
			entries := s.Entries()
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No meals logged.")
				return nil
			}
			for i := len(entries) - 1; i >= 0; i-- {
				e := entries[i]
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-9s %6.2f kg CO2e  %s\n", e.Date, e.Slot, e.TotalFootprint, e.Description)
			}
			return nil
		})
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize recent meals",
	RunE: func(cmd *cobra.Command, args []string) error {
		if summaryDay <= 0 {
			return fmt.Errorf("--days must be positive")
		}
		return withSession(cmd.Context(), func(s *session.Session) error {
			fmt.Fprintln(cmd.OutOrStdout(), s.Summary(summaryDay))
			return nil
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the meal log, streak and challenges",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(s *session.Session) error {
			s.Reset(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared.")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(logCmd, entriesCmd, summaryCmd, resetCmd)
	logCmd.Flags().StringVar(&logPhoto, "photo", "", "Path to a photo of the meal")
	summaryCmd.Flags().IntVar(&summaryDay, "days", 7, "Window in days")
}
