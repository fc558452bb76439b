package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oneirolabs/dream-backend/internal/analyzer"
	"github.com/oneirolabs/dream-backend/internal/cache"
	"github.com/oneirolabs/dream-backend/internal/config"
	"github.com/oneirolabs/dream-backend/internal/lexicon"
	"github.com/oneirolabs/dream-backend/internal/logger"
	"github.com/oneirolabs/dream-backend/internal/types"
)

// BackendError is a per-request analysis failure. It is surfaced to the HTTP
// layer as a structured payload and is never cached.
type BackendError struct {
	Message string
	Details string
}

func (e *BackendError) Error() string {
	return e.Message
}

// ModelService selects the best available analyzer backend per request,
// invokes it, and caches the result.
//
// Analyze returns (nil, nil) when no ML backend should handle the request;
// the caller is expected to run basic keyword matching itself.
type ModelService interface {
	Initialize(ctx context.Context, async bool)
	Analyze(ctx context.Context, dreamText, userID string, useML bool) (*types.AnalysisResponse, error)
	Status() types.ModelStatus
	BestAvailableName() string
	ClearCache() int
	Reload(ctx context.Context)
}

// backendSlot tracks one backend's registration. Mutated only under the
// service mutex, by the loader that constructed (or failed to construct) it.
type backendSlot struct {
	name      string
	factory   analyzer.Factory
	available bool
	instance  analyzer.Analyzer
	loadTime  time.Duration
}

type modelService struct {
	log            *logger.Logger
	mu             sync.Mutex
	slots          []*backendSlot
	resultCache    *cache.ResultCache
	requestTimeout time.Duration
}

// NewModelService registers the four optional backends in priority order.
// None is constructed until Initialize runs.
func NewModelService(lex *lexicon.Lexicon, cfg config.ModelsConfig, resultCache *cache.ResultCache, log *logger.Logger) ModelService {
	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &modelService{
		log: log.With("service", "ModelService"),
		slots: []*backendSlot{
			{name: analyzer.NameNeuralAdvanced, factory: func() (analyzer.Analyzer, error) {
				return analyzer.TryNewAdvanced(lex, cfg.BertWeightsPath)
			}},
			{name: analyzer.NameNeuralTransformer, factory: func() (analyzer.Analyzer, error) {
				return analyzer.TryNewTransformer(lex, cfg.TransformerWeightsPath)
			}},
			{name: analyzer.NameStatisticalDeep, factory: func() (analyzer.Analyzer, error) {
				return analyzer.TryNewStatistical(lex)
			}},
			{name: analyzer.NameEnhanced, factory: func() (analyzer.Analyzer, error) {
				return analyzer.TryNewEnhanced(lex)
			}},
		},
		resultCache:    resultCache,
		requestTimeout: timeout,
	}
}

// Initialize constructs every registered backend. Failures are logged and
// leave the slot unavailable; they are never fatal. With async=true the
// loaders run concurrently and Initialize returns immediately.
func (ms *modelService) Initialize(ctx context.Context, async bool) {
	if async {
		var g errgroup.Group
		for _, slot := range ms.slots {
			slot := slot
			g.Go(func() error {
				ms.loadSlot(slot)
				return nil
			})
		}
		go func() {
			_ = g.Wait()
			ms.log.Info("All model backends finished loading", "best", ms.BestAvailableName())
		}()
		ms.log.Info("Model backends are loading asynchronously")
		return
	}
	for _, slot := range ms.slots {
		ms.loadSlot(slot)
	}
	ms.log.Info("Model backends loaded synchronously", "best", ms.BestAvailableName())
}

func (ms *modelService) loadSlot(slot *backendSlot) {
	start := time.Now()
	instance, err := slot.factory()
	elapsed := time.Since(start)

	ms.mu.Lock()
	if err != nil {
		slot.available = false
		slot.instance = nil
	} else {
		slot.available = true
		slot.instance = instance
		slot.loadTime = elapsed
	}
	ms.mu.Unlock()

	if err != nil {
		ms.log.Warn("Backend unavailable", "backend", slot.name, "error", err)
		return
	}
	ms.log.Info("Backend loaded", "backend", slot.name, "load_time", elapsed.String())
}

// BestAvailableName returns the highest-priority available backend name;
// basic matching is the guaranteed terminal fallback.
func (ms *modelService) BestAvailableName() string {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for _, slot := range ms.slots {
		if slot.available {
			return slot.name
		}
	}
	return analyzer.NameBasic
}

func (ms *modelService) bestBackend() analyzer.Analyzer {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for _, slot := range ms.slots {
		if slot.available && slot.instance != nil {
			return slot.instance
		}
	}
	return nil
}

func (ms *modelService) Analyze(ctx context.Context, dreamText, userID string, useML bool) (*types.AnalysisResponse, error) {
	normalized := strings.ToLower(strings.TrimSpace(dreamText))
	key := cache.Key(normalized, useML)
	if response, ok := ms.resultCache.Get(key); ok {
		ms.log.Debug("Cache hit for dream analysis", "chars", len(normalized), "user_id", userID)
		return response, nil
	}

	if !useML {
		return nil, nil
	}
	backend := ms.bestBackend()
	if backend == nil {
		return nil, nil
	}

	start := time.Now()
	response, err := ms.invoke(ctx, backend, normalized)
	if err != nil {
		ms.log.Error("Dream analysis failed", "backend", backend.Name(), "error", err)
		return nil, err
	}
	response.ProcessingTime = fmt.Sprintf("%.2fs", time.Since(start).Seconds())

	ms.resultCache.Set(key, response)
	ms.log.Info("Dream analysis completed", "backend", backend.Name(), "elapsed", time.Since(start).String(), "user_id", userID)
	return response, nil
}

// invoke runs analyze/summarize/perspective against one backend under the
// per-request timeout. The three calls always hit the same backend instance.
func (ms *modelService) invoke(ctx context.Context, backend analyzer.Analyzer, normalized string) (*types.AnalysisResponse, error) {
	cctx, cancel := context.WithTimeout(ctx, ms.requestTimeout)
	defer cancel()

	type outcome struct {
		response *types.AnalysisResponse
		err      error
	}
	done := make(chan outcome, 1)

	go func() {
		results, err := backend.Analyze(cctx, normalized)
		if err != nil {
			done <- outcome{err: &BackendError{Message: "An error occurred during dream analysis", Details: err.Error()}}
			return
		}
		summary, err := backend.Summarize(cctx, normalized)
		if err != nil {
			done <- outcome{err: &BackendError{Message: "An error occurred during dream analysis", Details: err.Error()}}
			return
		}
		perspective, err := backend.Perspective(cctx, normalized, results)
		if err != nil {
			done <- outcome{err: &BackendError{Message: "An error occurred during dream analysis", Details: err.Error()}}
			return
		}
		if len(results) == 0 {
			results = []types.Interpretation{analyzer.GenericInterpretation()}
		}
		done <- outcome{response: &types.AnalysisResponse{
			DreamSummary:             summary,
			Interpretations:          results,
			PsychologicalPerspective: perspective,
			ModelUsed:                backend.Name(),
		}}
	}()

	select {
	case <-cctx.Done():
		return nil, &BackendError{Message: "Dream analysis timed out", Details: cctx.Err().Error()}
	case out := <-done:
		return out.response, out.err
	}
}

func (ms *modelService) Status() types.ModelStatus {
	ms.mu.Lock()
	models := make(map[string]types.BackendStatus, len(ms.slots)+1)
	best := analyzer.NameBasic
	for i := len(ms.slots) - 1; i >= 0; i-- {
		slot := ms.slots[i]
		status := "unavailable"
		if slot.available {
			status = "loaded"
			best = slot.name
		}
		models[slot.name] = types.BackendStatus{Available: slot.available, Status: status}
	}
	ms.mu.Unlock()

	models[analyzer.NameBasic] = types.BackendStatus{Available: true, Status: "loaded"}
	return types.ModelStatus{
		Models:       models,
		DefaultModel: best,
		CacheEntries: ms.resultCache.Len(),
	}
}

func (ms *modelService) ClearCache() int {
	count := ms.resultCache.Clear()
	ms.log.Info("Cleared result cache", "entries", count)
	return count
}

func (ms *modelService) Reload(ctx context.Context) {
	ms.Initialize(ctx, false)
}
