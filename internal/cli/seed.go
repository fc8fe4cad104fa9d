package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vijay-prabhu/alumnet/internal/database"
	"github.com/vijay-prabhu/alumnet/internal/output"
)

var seedCmd = &cobra.Command{
	Use:   "seed <fixture.toml>",
	Short: "Load users, connections and jobs from a fixture file",
	Long: `Seed writes the users, connections, connection requests and job
postings described in a TOML fixture into the database. Links refer to
users by email; users that already exist are reused.

Example fixture:
  [[users]]
  name = "Asha Rao"
  email = "asha@example.edu"
  role = "student"
  branch = "CS"
  skills = "python, sql"

  [[connections]]
  a = "asha@example.edu"
  b = "meera@example.edu"

Examples:
  alumnet seed testdata/campus.toml
  alumnet seed campus.toml -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	fixture, err := database.LoadFixture(args[0])
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if a.db.Driver() != database.DriverSQLite {
		a.logger.Warn("Seeding a non-SQLite database", zap.String("driver", a.db.Driver()))
	}

	result, err := a.db.Seed(ctx, fixture)
	if err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	a.logger.Info("Fixture loaded",
		zap.String("file", args[0]),
		zap.Int("users", result.Users),
		zap.Int("connections", result.Connections),
		zap.Int("requests", result.Requests),
		zap.Int("jobs", result.Jobs))

	if outputFmt == output.FormatJSON {
		return output.JSON(result)
	}

	fmt.Printf("Seeded %d users, %d connections, %d requests, %d jobs\n",
		result.Users, result.Connections, result.Requests, result.Jobs)
	return nil
}
