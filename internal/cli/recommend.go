package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vijay-prabhu/alumnet/internal/config"
	"github.com/vijay-prabhu/alumnet/internal/database"
	"github.com/vijay-prabhu/alumnet/internal/output"
	"github.com/vijay-prabhu/alumnet/internal/recommend"
	"github.com/vijay-prabhu/alumnet/internal/semantic"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend people or jobs for a user",
}

var recommendPeopleCmd = &cobra.Command{
	Use:   "people <user-id>",
	Short: "Suggest people to connect with",
	Long: `Suggest up to five users of the opposite role (students see alumni,
alumni see students) who are not already connected and have no pending
request with the user.

Examples:
  alumnet recommend people 12
  alumnet recommend people 12 -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runRecommendPeople,
}

var recommendJobsCmd = &cobra.Command{
	Use:   "jobs <user-id>",
	Short: "Suggest job postings for a student",
	Long: `Suggest up to five job postings whose required skills overlap with
the student's skills. Alumni get no job recommendations.

Examples:
  alumnet recommend jobs 12`,
	Args: cobra.ExactArgs(1),
	RunE: runRecommendJobs,
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.AddCommand(recommendPeopleCmd)
	recommendCmd.AddCommand(recommendJobsCmd)
}

func runRecommendPeople(cmd *cobra.Command, args []string) error {
	return runRecommend(cmd, args, func(ctx context.Context, e *recommend.Engine, u *database.User) (any, error) {
		return e.RecommendPeople(ctx, u)
	})
}

func runRecommendJobs(cmd *cobra.Command, args []string) error {
	return runRecommend(cmd, args, func(ctx context.Context, e *recommend.Engine, u *database.User) (any, error) {
		return e.RecommendJobs(ctx, u)
	})
}

type recommendFunc func(ctx context.Context, e *recommend.Engine, u *database.User) (any, error)

func runRecommend(cmd *cobra.Command, args []string, fn recommendFunc) error {
	ctx := cmd.Context()

	id, err := parseUserID(args[0])
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	user, err := a.db.GetUser(ctx, id)
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if user == nil {
		return fmt.Errorf("user not found: %d", id)
	}

	engine := a.newEngine(ctx)
	recs, err := fn(ctx, engine, user)
	if err != nil {
		return fmt.Errorf("recommendation failed: %w", err)
	}

	return output.Output(outputFmt, recs)
}

// newEngine builds the engine with the configured semantic provider.
// An eager provider is initialized here; failure only disables semantic scoring.
func (a *app) newEngine(ctx context.Context) *recommend.Engine {
	provider := a.newProvider()
	if a.cfg.Embedding.Eager {
		if err := semantic.Warm(ctx, provider); err != nil {
			a.logger.Debug("Eager semantic initialization failed", zap.Error(err))
		}
	}

	return recommend.NewEngine(
		recommend.DatabaseSource(a.db),
		provider,
		engineOptions(a.cfg.Recommend),
		a.logger.With(zap.String("component", "recommend")),
	)
}

func engineOptions(cfg config.RecommendConfig) recommend.Options {
	w := recommend.Weights{
		Branch: cfg.Weights.Branch,
		Skill:  cfg.Weights.Skill,
		Mutual: cfg.Weights.Mutual,
		Domain: cfg.Weights.Domain,
		City:   cfg.Weights.City,
	}
	return recommend.Options{
		CandidateBatch: cfg.CandidateBatch,
		Weights:        &w,
	}
}

func (a *app) newProvider() semantic.Provider {
	return semantic.New(a.cfg.Embedding, a.cfg.GeminiAPIKey(),
		a.logger.With(zap.String("component", "semantic")))
}
