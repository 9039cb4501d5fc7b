package usecases

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xcro3dile/faqbot-go/internal/adapters/fuzzy"
	"github.com/0xcro3dile/faqbot-go/internal/domain/entities"
	"github.com/0xcro3dile/faqbot-go/internal/domain/ports"
)

// mockCollector implements ports.DatasetCollector for testing
type mockCollector struct {
	mu      sync.Mutex
	records []entities.QARecord
	err     error
	block   chan struct{}
	calls   int
}

func (m *mockCollector) LoadAll(ctx context.Context, sources []string) (*entities.Dataset, []entities.SourceReport, error) {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, nil, m.err
	}
	return &entities.Dataset{Source: "mock", Records: m.records, LoadedAt: time.Now()}, nil, nil
}

func (m *mockCollector) set(records []entities.QARecord, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records, m.err = records, err
}

// mockRecorder implements ports.Recorder for testing
type mockRecorder struct {
	mu      sync.Mutex
	replies []string
	loads   []bool
	records int
}

func (m *mockRecorder) ObserveReply(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, source)
}

func (m *mockRecorder) ObserveLoad(ok bool, records int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads = append(m.loads, ok)
	m.records = records
}

// mockWatcher implements ports.FileWatcher for testing
type mockWatcher struct {
	events chan ports.FileEvent
}

func (m *mockWatcher) Watch(ctx context.Context, paths []string) (<-chan ports.FileEvent, error) {
	return m.events, nil
}

func (m *mockWatcher) Stop() error { return nil }

func newDatasetUC(c *mockCollector, rec ports.Recorder) *DatasetUseCase {
	return NewDatasetUseCase(c, fuzzy.NewBuilder(nil, fuzzy.DefaultThreshold, 0), []string{"pairs.json"}, rec, nil)
}

func TestDatasetUseCase_LoadPublishesIndex(t *testing.T) {
	c := &mockCollector{records: []entities.QARecord{{Question: "what is go", Answer: "A language."}}}
	rec := &mockRecorder{}
	uc := newDatasetUC(c, rec)

	assert.Nil(t, uc.Index())
	assert.Nil(t, uc.Current())

	k, err := uc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, k.Records)
	assert.Same(t, k, uc.Current())

	m, ok := uc.Index().Search("What is Go")
	require.True(t, ok)
	assert.Equal(t, "A language.", m.Record.Answer)
	assert.Equal(t, []bool{true}, rec.loads)
	assert.Equal(t, 1, rec.records)
}

func TestDatasetUseCase_FailedReloadKeepsPrevious(t *testing.T) {
	c := &mockCollector{records: []entities.QARecord{{Question: "what is go", Answer: "A language."}}}
	rec := &mockRecorder{}
	uc := newDatasetUC(c, rec)

	first, err := uc.Load(context.Background())
	require.NoError(t, err)

	c.set(nil, errors.New("network down"))
	_, err = uc.Load(context.Background())
	require.Error(t, err)

	assert.Same(t, first, uc.Current())
	assert.Equal(t, []bool{true, false}, rec.loads)
	assert.Equal(t, 1, rec.records)
}

func TestDatasetUseCase_EmptyDatasetPublishesEmptyIndex(t *testing.T) {
	c := &mockCollector{records: []entities.QARecord{{Question: "   ", Answer: "blank"}}}
	rec := &mockRecorder{}
	uc := newDatasetUC(c, rec)

	k, err := uc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, k.Records)
	require.NotNil(t, uc.Index())
	assert.Equal(t, 0, uc.Index().Len())
	assert.Equal(t, []bool{true}, rec.loads)
}

func TestDatasetUseCase_ReloadReplacesEntries(t *testing.T) {
	c := &mockCollector{records: []entities.QARecord{{Question: "what is python", Answer: "old"}}}
	uc := newDatasetUC(c, nil)

	_, err := uc.Load(context.Background())
	require.NoError(t, err)

	c.set([]entities.QARecord{{Question: "how do i deploy", Answer: "new"}}, nil)
	_, err = uc.Load(context.Background())
	require.NoError(t, err)

	_, ok := uc.Index().Search("what is python")
	assert.False(t, ok, "stale entry survived reload")

	m, ok := uc.Index().Search("how do i deploy")
	require.True(t, ok)
	assert.Equal(t, "new", m.Record.Answer)
}

func TestDatasetUseCase_ReloadWithEmptyDatasetDropsEntries(t *testing.T) {
	c := &mockCollector{records: []entities.QARecord{{Question: "what is go", Answer: "OLD"}}}
	rec := &mockRecorder{}
	uc := newDatasetUC(c, rec)

	_, err := uc.Load(context.Background())
	require.NoError(t, err)

	c.set([]entities.QARecord{}, nil)
	k, err := uc.Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, k, uc.Current())
	assert.Equal(t, 0, k.Records)

	_, ok := uc.Index().Search("what is go")
	assert.False(t, ok, "answer from the previous dataset survived an empty reload")
	assert.Equal(t, []bool{true, true}, rec.loads)
	assert.Equal(t, 0, rec.records)
}

func TestDatasetUseCase_StartLoadIsAsync(t *testing.T) {
	c := &mockCollector{
		records: []entities.QARecord{{Question: "hi", Answer: "from dataset"}},
		block:   make(chan struct{}),
	}
	uc := newDatasetUC(c, nil)

	done := uc.StartLoad(context.Background())
	assert.Nil(t, uc.Index(), "index visible before load finished")

	close(c.block)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("load did not finish")
	}
	assert.NotNil(t, uc.Index())
}

func TestDatasetUseCase_WatchReloads(t *testing.T) {
	c := &mockCollector{records: []entities.QARecord{{Question: "what is python", Answer: "v1"}}}
	uc := newDatasetUC(c, nil)
	_, err := uc.Load(context.Background())
	require.NoError(t, err)

	w := &mockWatcher{events: make(chan ports.FileEvent, 1)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopped := make(chan error, 1)
	go func() { stopped <- uc.Watch(ctx, w, []string{"pairs.json"}) }()

	c.set([]entities.QARecord{{Question: "what is python", Answer: "v2"}}, nil)
	w.events <- ports.FileEvent{Path: "pairs.json", Operation: ports.FileModified}

	assert.Eventually(t, func() bool {
		m, ok := uc.Index().Search("what is python")
		return ok && m.Record.Answer == "v2"
	}, 2*time.Second, 10*time.Millisecond)

	close(w.events)
	select {
	case err := <-stopped:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestDatasetUseCase_WatchWithoutPaths(t *testing.T) {
	uc := newDatasetUC(&mockCollector{}, nil)
	assert.NoError(t, uc.Watch(context.Background(), &mockWatcher{}, nil))
}
