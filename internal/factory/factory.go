package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/broadside/internal/dependencies/clock"
	"github.com/mcoot/broadside/internal/dependencies/random"
	"github.com/mcoot/broadside/internal/locks"
	"github.com/mcoot/broadside/internal/notify"
	"github.com/mcoot/broadside/internal/services/directory"
	"github.com/mcoot/broadside/internal/services/fire"
	"github.com/mcoot/broadside/internal/services/identity"
	"github.com/mcoot/broadside/internal/services/session"
	"github.com/mcoot/broadside/internal/storage"
	"github.com/mcoot/broadside/internal/storage/memory"
	redisstorage "github.com/mcoot/broadside/internal/storage/redis"
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
	IdentityService     *identity.Service
	DirectoryController *directory.Controller
	SessionController   *session.Controller
	FireController      *fire.Controller
	Notifier            *notify.Notifier
}

// Config holds configuration for the application factory
type Config struct {
	// IdentityConfig holds configuration for the identity service (optional)
	// If zero value, defaults to identity.DefaultConfig()
	IdentityConfig identity.Config
	// PollInterval is how often the notifier polls store flags (optional)
	// If zero, defaults to notify.DefaultPollInterval
	PollInterval time.Duration
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

	// Use default identity config if not provided
	identityCfg := cfg.IdentityConfig
	if identityCfg.KeyBits == 0 {
		identityCfg = identity.DefaultConfig()
	}

	pollInterval := cfg.PollInterval
	if pollInterval == 0 {
		pollInterval = notify.DefaultPollInterval
	}

	return newWithDependencies(store, clk, rnd, identityCfg, pollInterval, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	identityCfg identity.Config,
	pollInterval time.Duration,
	logger *slog.Logger,
) *App {
	lockTable := locks.NewTable()
	notifier := notify.New(store, pollInterval, logger)

	identityService := identity.New(store, clk, identityCfg, logger)
	directoryController := directory.NewController(store, notifier, clk, logger)
	sessionController := session.NewController(
		store, identityService, directoryController, notifier, lockTable, clk, rnd, logger)
	fireController := fire.NewController(
		store, identityService, directoryController, notifier, lockTable, clk, rnd, logger)

	return &App{
		Storage:             store,
		Clock:               clk,
		Random:              rnd,
		IdentityService:     identityService,
		DirectoryController: directoryController,
		SessionController:   sessionController,
		FireController:      fireController,
		Notifier:            notifier,
	}
}
