// Package app wires configuration, storage, clients, and services into the
// shared core used by cmd/stockseer-server.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/stockseer-ai/stockseer-server/internal/clients/gemini"
	"github.com/stockseer-ai/stockseer-server/internal/clients/marketdata"
	"github.com/stockseer-ai/stockseer-server/internal/common"
	"github.com/stockseer-ai/stockseer-server/internal/interfaces"
	"github.com/stockseer-ai/stockseer-server/internal/services/chat"
	"github.com/stockseer-ai/stockseer-server/internal/services/ledger"
	"github.com/stockseer-ai/stockseer-server/internal/services/plan"
	"github.com/stockseer-ai/stockseer-server/internal/services/profile"
	"github.com/stockseer-ai/stockseer-server/internal/services/research"
	"github.com/stockseer-ai/stockseer-server/internal/storage"
)

// App holds all initialized services and clients.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	MarketDataClient interfaces.MarketDataClient
	GeminiClient     interfaces.GeminiClient
	ProfileService   interfaces.ProfileService
	LedgerService    interfaces.LedgerService
	PlanService      interfaces.PlanService
	ResearchService  interfaces.ResearchService
	ChatService      interfaces.ChatService
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, clients, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("STOCKSEER_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "stockseer.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/stockseer.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage paths to the binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}
	if config.Storage.Backup.Path != "" && !filepath.IsAbs(config.Storage.Backup.Path) {
		config.Storage.Backup.Path = filepath.Join(binDir, config.Storage.Backup.Path)
	}

	logger := common.NewLogger(config.Logging.Level)

	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	marketDataClient := marketdata.NewClient(config.Clients.MarketData.APIKey,
		marketdata.WithBaseURL(config.Clients.MarketData.BaseURL),
		marketdata.WithLogger(logger),
		marketdata.WithRateLimit(config.Clients.MarketData.RateLimit),
		marketdata.WithTimeout(config.Clients.MarketData.GetTimeout()),
	)

	var geminiClient interfaces.GeminiClient
	if config.Clients.Gemini.APIKey != "" {
		gc, err := gemini.NewClient(context.Background(), config.Clients.Gemini.APIKey,
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithLogger(logger),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Gemini client unavailable - chat and report narratives disabled")
		} else {
			geminiClient = gc
		}
	} else {
		logger.Warn().Msg("Gemini API key not configured - chat and report narratives disabled")
	}

	planService := plan.NewService(storageManager, logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		MarketDataClient: marketDataClient,
		GeminiClient:     geminiClient,
		ProfileService:   profile.NewService(storageManager, config.Ledger.StartingZolos, logger),
		LedgerService:    ledger.NewService(storageManager, logger),
		PlanService:      planService,
		ResearchService:  research.NewService(storageManager, planService, marketDataClient, geminiClient, logger),
		ChatService:      chat.NewService(storageManager, geminiClient, logger),
		StartupTime:      time.Now(),
	}

	logger.Info().
		Str("environment", config.Environment).
		Str("backend", config.Storage.Backend).
		Str("version", common.GetVersion()).
		Msg("Application initialized")

	return a, nil
}

// Close releases storage and client resources.
func (a *App) Close() error {
	if a.GeminiClient != nil {
		if err := a.GeminiClient.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Gemini client close failed")
		}
	}
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
