// Package loader provides dataset loading adapters.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	httpPkg "net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/0xcro3dile/faqbot-go/internal/domain/entities"
	"github.com/0xcro3dile/faqbot-go/internal/domain/ports"
)

// maxBodyBytes caps a remote dataset download.
const maxBodyBytes = 64 << 20

// FileLoader loads datasets from local .json/.jsonl files.
type FileLoader struct {
	parser ports.DatasetParser
}

// NewFileLoader creates a new local file loader.
func NewFileLoader(parser ports.DatasetParser) *FileLoader {
	return &FileLoader{parser: parser}
}

// Load reads and parses the file at path.
func (l *FileLoader) Load(ctx context.Context, path string) (*entities.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return l.parser.Parse(ctx, data, path)
}

// Supports reports true for anything that is not an http(s) URL.
func (l *FileLoader) Supports(source string) bool {
	return !isURL(source)
}

// HTTPLoader fetches datasets over HTTP(S), retrying transient failures.
type HTTPLoader struct {
	client     *httpPkg.Client
	parser     ports.DatasetParser
	maxTries   uint
	maxBody    int64
	newBackOff func() backoff.BackOff
	logger     *zap.Logger
}

// NewHTTPLoader creates a remote dataset loader.
func NewHTTPLoader(parser ports.DatasetParser, timeout time.Duration, logger *zap.Logger) *HTTPLoader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPLoader{
		client:   &httpPkg.Client{Timeout: timeout},
		parser:   parser,
		maxTries: 3,
		maxBody:  maxBodyBytes,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
		logger: logger,
	}
}

// Load downloads and parses the dataset at rawURL.
func (l *HTTPLoader) Load(ctx context.Context, rawURL string) (*entities.Dataset, error) {
	type download struct {
		body        []byte
		contentType string
	}

	attempt := 0
	dl, err := backoff.Retry(ctx, func() (download, error) {
		attempt++
		req, err := httpPkg.NewRequestWithContext(ctx, httpPkg.MethodGet, rawURL, nil)
		if err != nil {
			return download{}, backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("Accept", "application/json, application/x-ndjson")

		resp, err := l.client.Do(req)
		if err != nil {
			l.logger.Debug("dataset fetch failed", zap.String("url", rawURL), zap.Int("attempt", attempt), zap.Error(err))
			return download{}, fmt.Errorf("fetching dataset: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return download{}, fmt.Errorf("fetching dataset: status %d", resp.StatusCode)
		}
		if resp.StatusCode != httpPkg.StatusOK {
			return download{}, backoff.Permanent(fmt.Errorf("fetching dataset: status %d", resp.StatusCode))
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBody+1))
		if err != nil {
			return download{}, fmt.Errorf("reading response: %w", err)
		}
		if int64(len(body)) > l.maxBody {
			return download{}, backoff.Permanent(fmt.Errorf("dataset larger than %d bytes", l.maxBody))
		}
		return download{body: body, contentType: resp.Header.Get("Content-Type")}, nil
	},
		backoff.WithBackOff(l.newBackOff()),
		backoff.WithMaxTries(l.maxTries),
	)
	if err != nil {
		return nil, err
	}

	ds, err := l.parser.Parse(ctx, dl.body, formatHint(rawURL, dl.contentType))
	if err != nil {
		return nil, err
	}
	ds.Source = rawURL
	return ds, nil
}

// Supports reports true for http and https URLs.
func (l *HTTPLoader) Supports(source string) bool {
	return isURL(source)
}

// formatHint returns a name whose extension tells the parser which format to use.
func formatHint(rawURL, contentType string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mt {
		case "application/x-ndjson", "application/jsonl", "application/jsonlines":
			return "remote.jsonl"
		}
	}
	if u, err := url.Parse(rawURL); err == nil {
		return path.Base(u.Path)
	}
	return rawURL
}

func isURL(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// MultiLoader combines loaders and merges several sources in order.
type MultiLoader struct {
	loaders     []ports.DatasetLoader
	concurrency int
	logger      *zap.Logger
}

// NewMultiLoader creates a loader that dispatches by source kind.
func NewMultiLoader(logger *zap.Logger, loaders ...ports.DatasetLoader) *MultiLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MultiLoader{
		loaders:     loaders,
		concurrency: 4,
		logger:      logger,
	}
}

// NewDefaultLoader wires the file and HTTP loaders around one parser.
func NewDefaultLoader(parser ports.DatasetParser, timeout time.Duration, logger *zap.Logger) *MultiLoader {
	return NewMultiLoader(logger,
		NewHTTPLoader(parser, timeout, logger),
		NewFileLoader(parser),
	)
}

// Load dispatches to the first loader that supports source.
func (m *MultiLoader) Load(ctx context.Context, source string) (*entities.Dataset, error) {
	for _, l := range m.loaders {
		if l.Supports(source) {
			return l.Load(ctx, source)
		}
	}
	return nil, fmt.Errorf("%w: %s", entities.ErrUnsupportedSource, source)
}

// Supports reports whether any wrapped loader handles source.
func (m *MultiLoader) Supports(source string) bool {
	for _, l := range m.loaders {
		if l.Supports(source) {
			return true
		}
	}
	return false
}

// LoadAll fetches every source concurrently and concatenates the results
// in the given order. A failing source is reported and skipped; the call
// only fails when every source failed. Sources that load but hold no valid
// record yield an empty dataset, not an error.
func (m *MultiLoader) LoadAll(ctx context.Context, sources []string) (*entities.Dataset, []entities.SourceReport, error) {
	if len(sources) == 0 {
		return nil, nil, errors.New("no dataset sources configured")
	}

	parts := make([]*entities.Dataset, len(sources))
	reports := make([]entities.SourceReport, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for i, src := range sources {
		g.Go(func() error {
			reports[i].Source = src
			ds, err := m.Load(gctx, src)
			if err != nil {
				reports[i].Err = err
				m.logger.Warn("dataset source failed", zap.String("source", src), zap.Error(err))
				return nil // other sources still count
			}
			parts[i] = ds
			reports[i].Records = ds.Len()
			reports[i].Skipped = ds.Skipped
			if len(ds.Skipped) > 0 {
				m.logger.Info("skipped malformed records",
					zap.String("source", src), zap.Int("skipped", len(ds.Skipped)))
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, reports, err
	}

	var errs []error
	for _, r := range reports {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	if len(errs) == len(sources) {
		return nil, reports, fmt.Errorf("%w: %w", entities.ErrNoDataset, errors.Join(errs...))
	}

	merged := &entities.Dataset{
		Source:   strings.Join(sources, ","),
		LoadedAt: time.Now(),
	}
	for _, part := range parts {
		merged.Append(part)
	}
	return merged, reports, nil
}
