package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/alumnet/internal/config"
	"github.com/vijay-prabhu/alumnet/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configFile := configPath
	configDir := filepath.Dir(configFile)
	dataDir := filepath.Join(home, ".local", "share", "alumnet")

	// Create directories
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	// Check if config already exists
	if _, err := os.Stat(configFile); err == nil {
		fmt.Printf("Config file already exists at %s\n", configFile)
		fmt.Println("Use 'alumnet config show' to view current configuration")
		return nil
	}

	// Write default config
	if err := os.WriteFile(configFile, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created config file at %s\n", configFile)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Run 'alumnet seed <fixture.toml>' to load users and jobs")
	fmt.Println("  2. Run 'alumnet users list' to find a user id")
	fmt.Println("  3. Run 'alumnet recommend people <id>'")
	fmt.Println()
	fmt.Println("For semantic matching with a local model, set provider = \"ollama\" and run:")
	fmt.Println("  ollama pull all-minilm")
	fmt.Println("  ollama serve")
	fmt.Printf("For Gemini, set provider = \"gemini\" and put %s in %s/.env\n", config.GeminiAPIKeyEnv, configDir)

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if outputFmt == output.FormatJSON {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		return output.JSON(cfg)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No config file found. Run 'alumnet config init' to create one.")
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	fmt.Printf("# Config file: %s\n\n", configPath)
	fmt.Println(string(data))
	return nil
}

const defaultConfig = `# alumnet configuration

[database]
driver = "sqlite3"                         # sqlite3 or mysql
path = "~/.local/share/alumnet/alumnet.db"  # sqlite3 only
# dsn = "user:pass@tcp(localhost:3306)/alumni?parseTime=true"  # mysql only

[recommend]
candidate_batch = 50  # opposite-role candidates scored per request; others are never considered

[recommend.weights]     # points per people-scoring rule
branch = 5
skill = 5
mutual = 2              # per mutual connection
domain = 3
city = 2

[embedding]
provider = "none"              # none, ollama or gemini
eager = false                  # initialize the model before the first request
serialize = false              # one embedding call at a time
cache_size = 256               # embeddings memoized per process (0 disables)
breaker_failures = 5           # consecutive failures before calls are skipped
breaker_timeout_seconds = 30   # how long calls are skipped once tripped

[embedding.ollama]
host = "http://localhost:11434"
model = "all-minilm"
timeout_seconds = 30

[embedding.gemini]
model = "text-embedding-004"
# API key read from GEMINI_API_KEY (environment or .env next to this file)

[log]
level = "info"  # debug, info, warn, error
json = false

[metrics]
# textfile = "/var/lib/node_exporter/textfile_collector/alumnet.prom"
`
