// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about repository scans and gem conversions.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the core packages never
// import an observability backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetScanHooks(&myScanHooks{})
//	    observability.SetConversionHooks(&myConversionHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Conversion().OnConvertStart(ctx, item)
//	// ... build the gem ...
//	observability.Conversion().OnConvertComplete(ctx, item, gemFile, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Scan Hooks
// =============================================================================

// ScanHooks receives events from batch repository scans.
type ScanHooks interface {
	// OnScanStart records the start of a scan of baseDir.
	OnScanStart(ctx context.Context, runID, baseDir string)

	// OnItemSkipped records a repository item that is not convertible.
	OnItemSkipped(ctx context.Context, runID, item, reason string)

	// OnScanComplete records the outcome of a scan.
	OnScanComplete(ctx context.Context, runID string, converted, skipped, failed int, duration time.Duration, err error)
}

// =============================================================================
// Conversion Hooks
// =============================================================================

// ConversionHooks receives events from artifact to gem conversions.
type ConversionHooks interface {
	OnConvertStart(ctx context.Context, item string)
	OnConvertComplete(ctx context.Context, item, gemFile string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopScanHooks is a no-op implementation of ScanHooks.
type NoopScanHooks struct{}

func (NoopScanHooks) OnScanStart(context.Context, string, string)           {}
func (NoopScanHooks) OnItemSkipped(context.Context, string, string, string) {}
func (NoopScanHooks) OnScanComplete(context.Context, string, int, int, int, time.Duration, error) {
}

// NoopConversionHooks is a no-op implementation of ConversionHooks.
type NoopConversionHooks struct{}

func (NoopConversionHooks) OnConvertStart(context.Context, string) {}
func (NoopConversionHooks) OnConvertComplete(context.Context, string, string, time.Duration, error) {
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	scanHooks       ScanHooks       = NoopScanHooks{}
	conversionHooks ConversionHooks = NoopConversionHooks{}
	hooksMu         sync.RWMutex
)

// SetScanHooks registers custom scan hooks.
// This should be called once at application startup before any scan runs.
func SetScanHooks(h ScanHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		scanHooks = h
	}
}

// SetConversionHooks registers custom conversion hooks.
// This should be called once at application startup before any conversion.
func SetConversionHooks(h ConversionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		conversionHooks = h
	}
}

// Scan returns the registered scan hooks.
func Scan() ScanHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return scanHooks
}

// Conversion returns the registered conversion hooks.
func Conversion() ConversionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return conversionHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	scanHooks = NoopScanHooks{}
	conversionHooks = NoopConversionHooks{}
}
