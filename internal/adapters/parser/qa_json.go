// Package parser provides dataset parsing adapters.
// Clean Architecture: Adapter implementing ports.DatasetParser.
package parser

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/0xcro3dile/faqbot-go/internal/domain/entities"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Skip reasons reported in entities.SkippedRecord.
const (
	ReasonNotObject       = "not an object"
	ReasonMissingQuestion = "missing question"
	ReasonBadQuestion     = "question is not a string"
	ReasonBlankQuestion   = "blank question"
	ReasonBadAnswer       = "answer is not a string"
	ReasonInvalidJSON     = "invalid json"
)

// QAParser decodes {"q": ..., "a": ...} records from a JSON array or
// from JSON Lines.
type QAParser struct{}

// NewQAParser creates a new Q/A dataset parser.
func NewQAParser() *QAParser {
	return &QAParser{}
}

// Parse decodes data. A ".jsonl" or ".ndjson" name selects line mode;
// otherwise a leading '[' selects array mode and anything else is read as lines.
func (p *QAParser) Parse(ctx context.Context, data []byte, name string) (*entities.Dataset, error) {
	ds := &entities.Dataset{Source: name, LoadedAt: time.Now()}

	if isLines(name, data) {
		if err := p.parseLines(ctx, data, ds); err != nil {
			return nil, err
		}
		return ds, nil
	}

	var items []jsoniter.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decoding dataset %s: %w", name, err)
	}
	for i, raw := range items {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		p.addRecord(ds, i, raw)
	}
	return ds, nil
}

func (p *QAParser) parseLines(ctx context.Context, data []byte, ds *entities.Dataset) error {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	pos := 0
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if pos%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		p.addRecord(ds, pos, line)
		pos++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading lines: %w", err)
	}
	return nil
}

// addRecord validates one raw entry and appends it or a skip reason.
func (p *QAParser) addRecord(ds *entities.Dataset, pos int, raw []byte) {
	rec, reason := decodeRecord(raw)
	if reason != "" {
		ds.Skipped = append(ds.Skipped, entities.SkippedRecord{Position: pos, Reason: reason})
		return
	}
	ds.Records = append(ds.Records, rec)
}

func decodeRecord(raw []byte) (entities.QARecord, string) {
	if reason := objectReason(raw); reason != "" {
		return entities.QARecord{}, reason
	}

	var obj map[string]jsoniter.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return entities.QARecord{}, ReasonInvalidJSON
	}

	q, ok := obj["q"]
	if !ok {
		return entities.QARecord{}, ReasonMissingQuestion
	}
	var question string
	if err := json.Unmarshal(q, &question); err != nil || isNull(q) {
		return entities.QARecord{}, ReasonBadQuestion
	}
	if strings.TrimSpace(question) == "" {
		return entities.QARecord{}, ReasonBlankQuestion
	}

	var answer string
	if a, ok := obj["a"]; ok && !isNull(a) {
		if err := json.Unmarshal(a, &answer); err != nil {
			return entities.QARecord{}, ReasonBadAnswer
		}
	}

	return entities.QARecord{Question: question, Answer: answer}, ""
}

// objectReason inspects the leading byte. Array elements decoded from null
// arrive empty, so an empty entry counts as null.
func objectReason(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ReasonNotObject
	}
	switch c := trimmed[0]; {
	case c == '{':
		return ""
	case c == '"' || c == '[' || c == '-' || c == 't' || c == 'f' || c == 'n' || (c >= '0' && c <= '9'):
		return ReasonNotObject
	}
	return ReasonInvalidJSON
}

func isNull(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func isLines(name string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jsonl", ".ndjson":
		return true
	case ".json":
		return false
	}
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] != '['
}

// SupportedFormats returns formats this parser handles.
func (p *QAParser) SupportedFormats() []string {
	return []string{".json", ".jsonl", ".ndjson"}
}
