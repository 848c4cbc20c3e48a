package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	domerrors "github.com/garyellow/casmate/internal/errors"
	"github.com/garyellow/casmate/internal/logger"
	"github.com/garyellow/casmate/internal/metrics"
	"github.com/garyellow/casmate/internal/storage"
)

// Holder owns the live Engine and replaces it on reload.
// Readers take a read lock only to copy the pointer, so a turn that already
// holds an Engine keeps using it while a reload swaps in the next one.
type Holder struct {
	mu      sync.RWMutex
	current *Engine

	reloadMu sync.Mutex
	src      storage.Source
	opts     Options
	log      *logger.Logger
	metrics  *metrics.Metrics
}

// NewHolder creates an empty Holder. Call Reload to load the first Engine.
// log and m may be nil.
func NewHolder(src storage.Source, opts Options, log *logger.Logger, m *metrics.Metrics) *Holder {
	return &Holder{src: src, opts: opts, log: log, metrics: m}
}

// NewStaticHolder wraps an already built Engine. Reload is unavailable.
func NewStaticHolder(e *Engine) *Holder {
	return &Holder{current: e}
}

// Current returns the live Engine, or ErrCatalogNotReady before the first
// successful load.
func (h *Holder) Current() (*Engine, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current == nil {
		return nil, domerrors.ErrCatalogNotReady
	}
	return h.current, nil
}

// Ready reports whether an Engine is loaded.
func (h *Holder) Ready() bool {
	_, err := h.Current()
	return err == nil
}

// Swap installs e as the live Engine and returns the previous one.
func (h *Holder) Swap(e *Engine) *Engine {
	h.mu.Lock()
	old := h.current
	h.current = e
	h.mu.Unlock()
	return old
}

// Reload rebuilds the Engine from the configured source. On failure the live
// Engine stays in place. Concurrent reloads run one at a time.
func (h *Holder) Reload(ctx context.Context) (*Engine, error) {
	if h.src == nil {
		return nil, fmt.Errorf("reload: %w: no catalog source configured", domerrors.ErrMissingParameter)
	}

	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()

	start := time.Now()
	e, err := Load(ctx, h.src, h.opts)
	if err != nil {
		h.record("error")
		if h.log != nil {
			h.log.WithError(err).WithField("source", h.src.Name()).Error("Catalog load failed")
		}
		return nil, err
	}

	h.Swap(e)
	h.record("success")

	issues := e.Catalog.Issues()
	if h.metrics != nil {
		h.metrics.RecordCatalog(e.Catalog.Stats(), e.IssueCounts())
	}
	if h.log != nil {
		log := h.log.WithModule("engine")
		for _, is := range issues {
			log.WithFields(map[string]any{
				"issue_type": string(is.Type),
				"ref":        is.Ref,
				"detail":     is.Detail,
			}).Warn("Catalog integrity issue")
		}
		log.WithFields(map[string]any{
			"source":   e.Source,
			"rows":     e.Catalog.Stats(),
			"issues":   len(issues),
			"duration": time.Since(start).String(),
		}).Info("Catalog loaded")
	}
	return e, nil
}

func (h *Holder) record(status string) {
	if h.metrics != nil {
		h.metrics.RecordReload(status)
	}
}
