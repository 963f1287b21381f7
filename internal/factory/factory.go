package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/soval/gemgrid/internal/dependencies/clock"
	"github.com/soval/gemgrid/internal/dependencies/random"
	"github.com/soval/gemgrid/internal/services/game"
	"github.com/soval/gemgrid/internal/services/match"
	"github.com/soval/gemgrid/internal/services/scoring"
	"github.com/soval/gemgrid/internal/services/solver"
	"github.com/soval/gemgrid/internal/sse"
	"github.com/soval/gemgrid/internal/storage"
	"github.com/soval/gemgrid/internal/storage/memory"
	redisstorage "github.com/soval/gemgrid/internal/storage/redis"
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
	MatchFinder       *match.Finder
	ScoringService    *scoring.Service
	Solver            *solver.Solver
	SessionController *game.Controller
	HubManager        *sse.HubManager
	Broadcaster       *sse.Broadcaster
}

// Close shuts down live sessions and releases storage connections
func (a *App) Close() {
	if a.SessionController != nil {
		a.SessionController.Close()
	}
	if closer, ok := a.Storage.(io.Closer); ok {
		_ = closer.Close()
	}
}

// Config holds configuration for the application factory
type Config struct {
	// MatchSize is the minimum run length that counts as a match
	// If zero, defaults to match.DefaultMatchSize
	MatchSize int
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
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
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
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, cfg.MatchSize, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, matchSize int, logger *slog.Logger) *App {
	// Create services
	matchFinder := match.New(matchSize)
	scoringService := scoring.New(logger)
	moveSolver := solver.New()
	hinter := solver.NewRandomStrategy(moveSolver, rnd)
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)
	sessionController := game.NewController(store, matchFinder, scoringService, hinter, broadcaster, clk, rnd, logger)

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		MatchFinder:       matchFinder,
		ScoringService:    scoringService,
		Solver:            moveSolver,
		SessionController: sessionController,
		HubManager:        hubManager,
		Broadcaster:       broadcaster,
	}
}
