package factory

import (
	"io"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/gomoku-go/internal/dependencies/mocks"
	"github.com/mcoot/gomoku-go/internal/services/auth"
	"github.com/mcoot/gomoku-go/internal/services/evalcache"
	"github.com/mcoot/gomoku-go/internal/services/match"
	"github.com/mcoot/gomoku-go/internal/storage"
	"github.com/mcoot/gomoku-go/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App on in-memory storage with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithStorage(memory.New())
}

// NewTestAppWithStorage creates an App on store with mocked dependencies
func NewTestAppWithStorage(store storage.Storage) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	authCfg := auth.DefaultConfig()
	authCfg.BcryptCost = bcrypt.MinCost
	matchCfg := match.Config{EngineCacheSize: 16, EvalCache: evalcache.Config{Size: 4096}}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	app, err := newWithDependencies(store, mockClock, mockRandom, authCfg, matchCfg, logger)
	if err != nil {
		// Only reachable with an invalid static config above
		panic(err)
	}

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
