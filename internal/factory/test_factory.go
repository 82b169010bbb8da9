package factory

import (
	"time"

	"github.com/mcoot/broadside/internal/dependencies/mocks"
	"github.com/mcoot/broadside/internal/services/identity"
	"github.com/mcoot/broadside/internal/storage/memory"
	"github.com/mcoot/broadside/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	// Small keys keep identity issuance fast in tests
	cfg := identity.Config{KeyBits: 1024}

	app := newWithDependencies(
		store, mockClock, mockRandom, cfg, 10*time.Millisecond, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
