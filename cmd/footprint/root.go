package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dbPath  string
	userID  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "footprint",
	Short: "footprint tracks the carbon footprint of your meals from the terminal",
	Long: "footprint logs meals to a local SQLite database, estimates their footprint in kg CO2e " +
		"and keeps your streak and daily/weekly challenges up to date.",
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "local", "User whose log is used")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log to stderr")
}
