// Package usecases contains application business rules.
// Clean Architecture: Usecases orchestrate entities and depend on port interfaces.
package usecases

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/0xcro3dile/faqbot-go/internal/domain/entities"
	"github.com/0xcro3dile/faqbot-go/internal/domain/ports"
)

// Knowledge is one published dataset generation: the records' index plus
// what was loaded to build it. It is never modified after publication.
type Knowledge struct {
	Index    ports.SearchIndex
	Source   string
	Records  int
	Skipped  int
	Reports  []entities.SourceReport
	LoadedAt time.Time
}

// DatasetUseCase loads sources, builds a fresh index and publishes it.
// Readers see either the previous generation or the new one, never a mix.
type DatasetUseCase struct {
	loader   ports.DatasetCollector
	builder  ports.IndexBuilder
	sources  []string
	recorder ports.Recorder
	logger   *zap.Logger

	loadMu  sync.Mutex // one load at a time
	current atomic.Pointer[Knowledge]
}

// NewDatasetUseCase creates a DatasetUseCase with injected dependencies.
func NewDatasetUseCase(
	loader ports.DatasetCollector,
	builder ports.IndexBuilder,
	sources []string,
	recorder ports.Recorder,
	logger *zap.Logger,
) *DatasetUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DatasetUseCase{
		loader:   loader,
		builder:  builder,
		sources:  sources,
		recorder: recorder,
		logger:   logger,
	}
}

// Load fetches all sources and swaps in a new index. When the sources fail
// to load the previously published generation, if any, stays in place. A
// successful load with no valid records publishes an empty index.
func (uc *DatasetUseCase) Load(ctx context.Context) (*Knowledge, error) {
	uc.loadMu.Lock()
	defer uc.loadMu.Unlock()

	start := time.Now()
	k, err := uc.build(ctx)
	if err != nil {
		uc.recorder.ObserveLoad(false, uc.Current().records())
		uc.logger.Warn("dataset load failed, keeping previous index",
			zap.Strings("sources", uc.sources),
			zap.Bool("has_previous", uc.Current() != nil),
			zap.Error(err))
		return nil, err
	}

	uc.current.Store(k)
	uc.recorder.ObserveLoad(true, k.Records)
	uc.logger.Info("dataset loaded",
		zap.Int("records", k.Records),
		zap.Int("skipped", k.Skipped),
		zap.Duration("took", time.Since(start)))
	return k, nil
}

func (uc *DatasetUseCase) build(ctx context.Context) (*Knowledge, error) {
	ds, reports, err := uc.loader.LoadAll(ctx, uc.sources)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}

	idx, err := uc.builder.Build(ds.Records)
	if err != nil {
		return nil, fmt.Errorf("building index: %w", err)
	}
	if idx.Len() == 0 {
		// An empty index still replaces the previous generation.
		uc.logger.Warn("dataset has no valid records, answering from categories only",
			zap.Strings("sources", uc.sources))
	}

	return &Knowledge{
		Index:    idx,
		Source:   ds.Source,
		Records:  idx.Len(),
		Skipped:  len(ds.Skipped),
		Reports:  reports,
		LoadedAt: ds.LoadedAt,
	}, nil
}

// StartLoad runs Load in the background. The channel receives the
// outcome once and is then closed.
func (uc *DatasetUseCase) StartLoad(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		_, err := uc.Load(ctx)
		done <- err
	}()
	return done
}

// Current returns the published generation, or nil before the first
// successful load.
func (uc *DatasetUseCase) Current() *Knowledge {
	return uc.current.Load()
}

// Index returns the published index, or nil.
func (uc *DatasetUseCase) Index() ports.SearchIndex {
	if k := uc.current.Load(); k != nil {
		return k.Index
	}
	return nil
}

// Watch reloads the dataset whenever the watcher reports a change.
// It blocks until ctx is done or the event channel closes.
func (uc *DatasetUseCase) Watch(ctx context.Context, watcher ports.FileWatcher, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	events, err := watcher.Watch(ctx, paths)
	if err != nil {
		return fmt.Errorf("watching dataset: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			uc.logger.Info("dataset source changed",
				zap.String("path", ev.Path), zap.Stringer("op", ev.Operation))
			// A failed reload is already logged and keeps the old index.
			_, _ = uc.Load(ctx)
		}
	}
}

func (k *Knowledge) records() int {
	if k == nil {
		return 0
	}
	return k.Records
}

type nopRecorder struct{}

func (nopRecorder) ObserveReply(string)   {}
func (nopRecorder) ObserveLoad(bool, int) {}
