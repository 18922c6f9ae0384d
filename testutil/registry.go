package testutil

import (
	"io"
	"log/slog"
	"testing"
	"time"

	hevymcp "github.com/jamoski3112/hevy-mcp"
	"github.com/jamoski3112/hevy-mcp/catalog"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewTestDispatcher returns a Dispatcher over the full catalogue backed by api,
// with a long timeout and panic recovery enabled, suitable for tests.
func NewTestDispatcher(tb testing.TB, api catalog.API, opts ...hevymcp.Option) *hevymcp.Dispatcher {
	tb.Helper()
	reg, err := catalog.NewRegistry(api)
	if err != nil {
		tb.Fatalf("build catalog registry: %v", err)
	}
	base := []hevymcp.Option{
		hevymcp.WithLogger(DiscardLogger()),
		hevymcp.WithDefaultTimeout(30 * time.Second),
		hevymcp.WithRecoverPanics(true),
	}
	return hevymcp.NewDispatcher(reg, append(base, opts...)...)
}
