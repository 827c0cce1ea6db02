// Package cli provides the command-line interface for valigence.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/valigence-labs/valigence-cli/internal/adapters/driven/ai"
	configfile "github.com/valigence-labs/valigence-cli/internal/adapters/driven/config/file"
	"github.com/valigence-labs/valigence-cli/internal/adapters/driven/extract"
	"github.com/valigence-labs/valigence-cli/internal/adapters/driven/storage/sqlite"
	"github.com/valigence-labs/valigence-cli/internal/adapters/driven/vector"
	"github.com/valigence-labs/valigence-cli/internal/chunker"
	"github.com/valigence-labs/valigence-cli/internal/core/domain"
	"github.com/valigence-labs/valigence-cli/internal/core/ports/driven"
	"github.com/valigence-labs/valigence-cli/internal/core/ports/driving"
	"github.com/valigence-labs/valigence-cli/internal/core/services"
	"github.com/valigence-labs/valigence-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// verbose enables debug logging for all commands.
var verbose bool

// Package-level services, wired in initServices. Tests replace these
// with mocks.
var (
	settingsService driving.SettingsService
	historyService  driving.HistoryService
	historyStore    driven.HistoryStore
	promptStore     driven.PromptStore
)

var rootCmd = &cobra.Command{
	Use:   "valigence",
	Short: "Validate role coverage in documents",
	Long: `Valigence checks whether a document actually mentions every role a
role definitions file declares. It indexes the document into a vector
store, asks an LLM which roles the document names, and reconciles the
two sets with exact and fuzzy matching.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() {
	defer closeServices()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initServices wires the configuration-backed services every command
// needs. The AI/vector pipeline is heavier (it pings providers), so it
// is built on demand via buildPipeline.
func initServices() error {
	// Already wired (by a previous command in tests, or a mock).
	if settingsService != nil {
		return nil
	}

	// Load .env if present; real environment wins.
	_ = godotenv.Load() //nolint:errcheck // missing .env is fine

	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("initialising config store: %w", err)
	}

	settingsService = services.NewSettingsService(configStore, ai.NewConfigValidator())

	prompts, err := configfile.NewPromptStore("")
	if err != nil {
		logger.Warn("Prompt store unavailable, using built-in prompts: %v", err)
	} else {
		promptStore = prompts
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		logger.Warn("History store unavailable, history will not be recorded: %v", err)
	} else {
		historyStore = store
		historyService = services.NewHistoryService(store)
	}

	return nil
}

func closeServices() {
	if historyStore != nil {
		_ = historyStore.Close() //nolint:errcheck // best-effort shutdown
	}
}

// pipeline bundles the providers and services one command invocation
// runs against. Close releases provider connections.
type pipeline struct {
	embedder  driven.EmbeddingService
	llm       driven.LLMService
	index     driven.VectorIndex
	indexer   driving.IndexerService
	answer    driving.AnswerService
	validator driving.ValidationService
}

// Close releases every provider the pipeline holds.
func (p *pipeline) Close() {
	if p.embedder != nil {
		_ = p.embedder.Close() //nolint:errcheck // best-effort shutdown
	}
	if p.llm != nil {
		_ = p.llm.Close() //nolint:errcheck // best-effort shutdown
	}
	if p.index != nil {
		_ = p.index.Close() //nolint:errcheck // best-effort shutdown
	}
}

// buildPipeline constructs the full validation pipeline from current
// settings: embedding and LLM providers, the vector index, and the core
// services on top of them. Providers are pinged during construction so
// misconfiguration fails here rather than mid-run.
func buildPipeline() (*pipeline, error) {
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	applyEnvOverrides(settings)

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	embedder, err := ai.CreateAndValidateEmbeddingService(&settings.Embedding)
	if err != nil {
		return nil, err
	}
	if embedder == nil {
		return nil, fmt.Errorf("%w: run 'valigence settings embedding' to configure a provider",
			domain.ErrEmbeddingUnavailable)
	}

	llm, err := ai.CreateAndValidateLLMService(&settings.LLM)
	if err != nil {
		embedder.Close()
		return nil, err
	}
	if llm == nil {
		embedder.Close()
		return nil, fmt.Errorf("%w: run 'valigence settings llm' to configure a provider",
			domain.ErrLLMUnavailable)
	}

	index, err := vector.CreateIndex(&settings.VectorIndex)
	if err != nil {
		embedder.Close()
		llm.Close()
		return nil, err
	}

	splitter, err := chunker.New(
		chunker.WithChunkSize(settings.Chunking.Size),
		chunker.WithOverlap(settings.Chunking.Overlap),
	)
	if err != nil {
		embedder.Close()
		llm.Close()
		index.Close()
		return nil, err
	}

	indexer := services.NewIndexerService(embedder, index, splitter)

	answer := services.NewAnswerService(embedder, index, llm, settings.Query.TopK)
	answer.SetHistoryStore(historyStore)
	answer.SetPromptStore(promptStore)

	comparer, err := services.NewCompareService(settings.Comparison.FuzzyThreshold)
	if err != nil {
		embedder.Close()
		llm.Close()
		index.Close()
		return nil, err
	}

	validator := services.NewValidationService(
		extract.NewXMLRoles(),
		extract.Default(),
		llm,
		indexer,
		comparer,
	)
	validator.SetHistoryStore(historyStore)
	validator.SetPromptStore(promptStore)

	return &pipeline{
		embedder:  embedder,
		llm:       llm,
		index:     index,
		indexer:   indexer,
		answer:    answer,
		validator: validator,
	}, nil
}

// applyEnvOverrides fills empty API keys from the environment so users
// can keep credentials out of the config file.
func applyEnvOverrides(settings *domain.AppSettings) {
	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = envAPIKey(settings.Embedding.Provider)
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = envAPIKey(settings.LLM.Provider)
	}
	if settings.VectorIndex.APIKey == "" && settings.VectorIndex.Provider == domain.VectorProviderPinecone {
		settings.VectorIndex.APIKey = os.Getenv("PINECONE_API_KEY")
	}
	if settings.VectorIndex.BaseURL == "" && settings.VectorIndex.Provider == domain.VectorProviderQdrant {
		settings.VectorIndex.BaseURL = os.Getenv("QDRANT_URL")
	}
}

// envAPIKey returns the conventional environment variable for a provider.
func envAPIKey(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderGemini:
		return os.Getenv("GOOGLE_API_KEY")
	case domain.AIProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case domain.AIProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return ""
	}
}
