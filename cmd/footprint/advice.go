package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vladimiradmaev/footprint-helper/internal/bot/menus"
	"github.com/vladimiradmaev/footprint-helper/internal/session"
)

var forceRefresh bool

var tipCmd = &cobra.Command{
	Use:   "tip",
	Short: "Show the weekly tip",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(s *session.Session) error {
			fmt.Fprintln(cmd.OutOrStdout(), s.WeeklyTip(cmd.Context(), forceRefresh).Value)
			return nil
		})
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Show an overall recommendation",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(s *session.Session) error {
			fmt.Fprintln(cmd.OutOrStdout(), s.Recommendation(cmd.Context(), forceRefresh).Value)
			return nil
		})
	},
}

var swapsCmd = &cobra.Command{
	Use:   "swaps",
	Short: "Suggest lower-footprint food swaps",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(s *session.Session) error {
			fmt.Fprintln(cmd.OutOrStdout(), menus.FormatSwaps(s.FoodSwaps(cmd.Context(), forceRefresh).Value))
			return nil
		})
	},
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask about your diet's footprint",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(s *session.Session) error {
			out, err := s.Ask(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Value)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(tipCmd, recommendCmd, swapsCmd, askCmd)
	for _, c := range []*cobra.Command{tipCmd, recommendCmd, swapsCmd} {
		c.Flags().BoolVar(&forceRefresh, "force", false, "Ignore the cached value")
	}
}
