package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xcro3dile/faqbot-go/internal/adapters/parser"
	"github.com/0xcro3dile/faqbot-go/internal/domain/entities"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func fastRetry(l *HTTPLoader) *HTTPLoader {
	l.newBackOff = func() backoff.BackOff {
		return backoff.NewConstantBackOff(time.Millisecond)
	}
	return l
}

func TestFileLoader_LoadJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pairs.json", `[{"q":"What is Go?","a":"A language."}]`)

	ds, err := NewFileLoader(parser.NewQAParser()).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, ds.Source)
	assert.Equal(t, []entities.QARecord{{Question: "What is Go?", Answer: "A language."}}, ds.Records)
}

func TestFileLoader_MissingFile(t *testing.T) {
	_, err := NewFileLoader(parser.NewQAParser()).Load(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestHTTPLoader_Load(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"q":"remote","a":"yes"}]`))
	}))
	defer srv.Close()

	l := NewHTTPLoader(parser.NewQAParser(), time.Second, nil)
	ds, err := l.Load(context.Background(), srv.URL+"/pairs_chunk_1.json")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/pairs_chunk_1.json", ds.Source)
	assert.Equal(t, "yes", ds.Records[0].Answer)
}

func TestHTTPLoader_NDJSONContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-ndjson; charset=utf-8")
		w.Write([]byte("{\"q\":\"one\",\"a\":\"1\"}\n{\"q\":\"two\",\"a\":\"2\"}\n"))
	}))
	defer srv.Close()

	ds, err := NewHTTPLoader(parser.NewQAParser(), time.Second, nil).Load(context.Background(), srv.URL+"/export")
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
}

func TestHTTPLoader_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[{"q":"eventually","a":"ok"}]`))
	}))
	defer srv.Close()

	l := fastRetry(NewHTTPLoader(parser.NewQAParser(), time.Second, nil))
	ds, err := l.Load(context.Background(), srv.URL+"/pairs.json")
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPLoader_NotFoundIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	l := fastRetry(NewHTTPLoader(parser.NewQAParser(), time.Second, nil))
	_, err := l.Load(context.Background(), srv.URL+"/missing.json")
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPLoader_RejectsOversizedBody(t *testing.T) {
	body := "{\"q\":\"one\",\"a\":\"1\"}\n{\"q\":\"two\",\"a\":\"2\"}\n"
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/x-ndjson")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	l := fastRetry(NewHTTPLoader(parser.NewQAParser(), time.Second, nil))
	l.maxBody = int64(len(body) - 1)
	_, err := l.Load(context.Background(), srv.URL+"/export")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "larger than")
	assert.Equal(t, int32(1), calls.Load())

	l.maxBody = int64(len(body))
	ds, err := l.Load(context.Background(), srv.URL+"/export")
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
}

func TestSupports(t *testing.T) {
	fl := NewFileLoader(nil)
	hl := NewHTTPLoader(nil, 0, nil)

	assert.True(t, fl.Supports("pairs_chunk_1.json"))
	assert.False(t, fl.Supports("https://cdn.example.com/pairs.json"))
	assert.True(t, hl.Supports("HTTP://example.com/pairs.json"))
	assert.False(t, hl.Supports("/data/pairs.json"))
}

func TestMultiLoader_Unsupported(t *testing.T) {
	m := NewMultiLoader(nil, NewHTTPLoader(parser.NewQAParser(), 0, nil))

	_, err := m.Load(context.Background(), "local.json")
	assert.True(t, errors.Is(err, entities.ErrUnsupportedSource))
	assert.False(t, m.Supports("local.json"))
}

func TestMultiLoader_LoadAllKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "pairs_chunk_1.json", `[{"q":"one","a":"1"},{"q":"two","a":"2"}]`)
	second := writeFile(t, dir, "pairs_chunk_2.jsonl", `{"q":"three","a":"3"}`+"\n"+`{"bad":true}`)

	m := NewDefaultLoader(parser.NewQAParser(), time.Second, nil)
	ds, reports, err := m.LoadAll(context.Background(), []string{first, second})
	require.NoError(t, err)

	var questions []string
	for _, r := range ds.Records {
		questions = append(questions, r.Question)
	}
	assert.Equal(t, []string{"one", "two", "three"}, questions)

	require.Len(t, reports, 2)
	assert.Equal(t, 2, reports[0].Records)
	assert.Equal(t, 1, reports[1].Records)
	assert.Len(t, reports[1].Skipped, 1)
}

func TestMultiLoader_LoadAllSkipsFailedSource(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", `[{"q":"one","a":"1"}]`)
	broken := writeFile(t, dir, "broken.json", `{not json`)

	m := NewDefaultLoader(parser.NewQAParser(), time.Second, nil)
	ds, reports, err := m.LoadAll(context.Background(), []string{broken, good, filepath.Join(dir, "missing.json")})
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
	assert.Error(t, reports[0].Err)
	assert.NoError(t, reports[1].Err)
	assert.Error(t, reports[2].Err)
}

func TestMultiLoader_LoadAllEmpty(t *testing.T) {
	dir := t.TempDir()
	empty := writeFile(t, dir, "empty.json", `[]`)

	m := NewDefaultLoader(parser.NewQAParser(), time.Second, nil)
	ds, reports, err := m.LoadAll(context.Background(), []string{empty})
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
	require.Len(t, reports, 1)
	assert.NoError(t, reports[0].Err)

	_, _, err = m.LoadAll(context.Background(), nil)
	assert.Error(t, err)
}

func TestMultiLoader_LoadAllEverySourceFailed(t *testing.T) {
	dir := t.TempDir()
	broken := writeFile(t, dir, "broken.json", `{not json`)

	m := NewDefaultLoader(parser.NewQAParser(), time.Second, nil)
	_, reports, err := m.LoadAll(context.Background(), []string{broken, filepath.Join(dir, "missing.json")})
	assert.ErrorIs(t, err, entities.ErrNoDataset)
	require.Len(t, reports, 2)
	assert.Error(t, reports[0].Err)
	assert.Error(t, reports[1].Err)
}
