package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/alumnet/internal/config"
	"github.com/vijay-prabhu/alumnet/internal/output"
	"github.com/vijay-prabhu/alumnet/internal/semantic"
)

var semanticCmd = &cobra.Command{
	Use:   "semantic",
	Short: "Inspect the semantic similarity backend",
}

var semanticCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Initialize the embedding backend and report its state",
	Long: `Check loads the configured embedding backend once and reports whether
semantic scoring is available. Exits non-zero when it is not.

Examples:
  alumnet semantic check
  alumnet semantic check -o json`,
	RunE: runSemanticCheck,
}

var semanticCompareCmd = &cobra.Command{
	Use:   "compare <text1> <text2>",
	Short: "Score the similarity of two texts (0-10)",
	Long: `Compare prints the similarity the recommendation engine would use for
two texts. It prints 0 when the backend is unavailable.

Examples:
  alumnet semantic compare "backend engineer" "distributed systems"`,
	Args: cobra.ExactArgs(2),
	RunE: runSemanticCompare,
}

func init() {
	rootCmd.AddCommand(semanticCmd)
	semanticCmd.AddCommand(semanticCheckCmd)
	semanticCmd.AddCommand(semanticCompareCmd)
}

// SemanticStatus is the result of a backend check
type SemanticStatus struct {
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
	State    string `json:"state"`
}

// SemanticComparison is the result of comparing two texts
type SemanticComparison struct {
	Provider   string `json:"provider"`
	State      string `json:"state"`
	Similarity int    `json:"similarity"`
}

func runSemanticCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	provider := a.newProvider()
	// The cause is logged by the provider.
	_ = semantic.Warm(ctx, provider)
	name, state := semantic.Describe(provider)

	status := SemanticStatus{
		Provider: name,
		Model:    embeddingModel(a.cfg.Embedding),
		State:    state.String(),
	}

	if outputFmt == output.FormatJSON {
		if err := output.JSON(status); err != nil {
			return err
		}
	} else {
		fmt.Printf("Provider:  %s\n", status.Provider)
		if status.Model != "" {
			fmt.Printf("Model:     %s\n", status.Model)
		}
		fmt.Printf("State:     %s\n", status.State)
	}

	if state != semantic.StateReady {
		return semantic.ErrUnavailable
	}
	return nil
}

func runSemanticCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	provider := a.newProvider()
	score := provider.Similarity(ctx, args[0], args[1])
	name, state := semantic.Describe(provider)

	result := SemanticComparison{
		Provider:   name,
		State:      state.String(),
		Similarity: score,
	}

	if outputFmt == output.FormatJSON {
		return output.JSON(result)
	}

	fmt.Printf("Similarity: %d/%d (%s, %s)\n", result.Similarity, semantic.MaxScore, result.Provider, result.State)
	return nil
}

func embeddingModel(cfg config.EmbeddingConfig) string {
	switch cfg.Provider {
	case config.ProviderOllama:
		return cfg.Ollama.Model
	case config.ProviderGemini:
		return cfg.Gemini.Model
	default:
		return ""
	}
}
