package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/gomoku-go/internal/dependencies/clock"
	"github.com/mcoot/gomoku-go/internal/dependencies/random"
	"github.com/mcoot/gomoku-go/internal/services/auth"
	"github.com/mcoot/gomoku-go/internal/services/evaluation"
	"github.com/mcoot/gomoku-go/internal/services/history"
	"github.com/mcoot/gomoku-go/internal/services/match"
	"github.com/mcoot/gomoku-go/internal/services/stats"
	"github.com/mcoot/gomoku-go/internal/sse"
	"github.com/mcoot/gomoku-go/internal/storage"
	"github.com/mcoot/gomoku-go/internal/storage/memory"
	redisstorage "github.com/mcoot/gomoku-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Evaluator       *evaluation.Evaluator
	AuthService     *auth.Service
	StatsService    *stats.Service
	HistoryService  *history.Service
	MatchController *match.Controller
	HubManager      *sse.HubManager
	Broadcaster     *sse.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// MatchConfig sizes the engine registry and evaluation caches (optional)
	MatchConfig match.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory' or 'redis'", storageType)
	}

	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	return newWithDependencies(store, clock.New(), random.New(), authCfg, cfg.MatchConfig, logger)
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	authCfg auth.Config,
	matchCfg match.Config,
	logger *slog.Logger,
) (*App, error) {
	evaluator := evaluation.New()
	authService := auth.New(store, clk, rnd, authCfg, logger)
	statsService := stats.New(store, clk, logger)
	historyService := history.New(store, clk, logger)
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)

	matchController, err := match.NewController(store, statsService, evaluator, broadcaster, clk, rnd, matchCfg, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		Evaluator:       evaluator,
		AuthService:     authService,
		StatsService:    statsService,
		HistoryService:  historyService,
		MatchController: matchController,
		HubManager:      hubManager,
		Broadcaster:     broadcaster,
	}, nil
}

// Close releases resources held by the storage backend
func (a *App) Close() error {
	if c, ok := a.Storage.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Ensure the SSE broadcaster can receive match events
var _ match.Publisher = (*sse.Broadcaster)(nil)
