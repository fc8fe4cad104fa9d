package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/alumnet/internal/output"
)

var (
	// Version info set from main
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"

	// Global flags
	configPath  string
	outputFmt   string
	debugLog    bool
	logJSON     bool
	metricsFile string
)

// SetVersionInfo sets version information from build flags
func SetVersionInfo(v, c, b string) {
	version = v
	commit = c
	buildTime = b
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "alumnet",
	Short: "Connection and job recommendations for an alumni network",
	Long: `alumnet suggests people to connect with and job postings to look at
for students and alumni of an institution.

It provides:
  - People recommendations from branch, skills, city, domain and mutual connections
  - Job recommendations for students from skill overlap
  - Optional semantic matching of bios and interests (Ollama or Gemini embeddings)
  - SQLite storage with fixture seeding, or an existing MySQL database`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !output.ValidFormat(outputFmt) {
			return fmt.Errorf("unknown output format: %s (use table, json or jsonl)", outputFmt)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return writeMetrics()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"config file (default: ~/.config/alumnet/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", output.FormatTable,
		"output format (table, json, jsonl)")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false,
		"enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false,
		"write logs as JSON")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "",
		"write Prometheus metrics to this file after the command")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}
		configPath = filepath.Join(home, ".config", "alumnet", "config.toml")
	}
}

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("alumnet %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", buildTime)
	},
}
