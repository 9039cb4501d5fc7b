package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xcro3dile/faqbot-go/internal/domain/entities"
)

func TestQAParser_Array(t *testing.T) {
	data := []byte(`[
		{"q": "What is Go?", "a": "A language."},
		{"q": "Empty answer", "a": ""},
		{"q": "Null answer", "a": null},
		{"q": "No answer"}
	]`)

	ds, err := NewQAParser().Parse(context.Background(), data, "pairs.json")
	require.NoError(t, err)

	assert.Equal(t, "pairs.json", ds.Source)
	assert.Equal(t, []entities.QARecord{
		{Question: "What is Go?", Answer: "A language."},
		{Question: "Empty answer", Answer: ""},
		{Question: "Null answer", Answer: ""},
		{Question: "No answer", Answer: ""},
	}, ds.Records)
	assert.Empty(t, ds.Skipped)
}

func TestQAParser_SkipsMalformed(t *testing.T) {
	data := []byte(`[
		{"q": "ok", "a": "fine"},
		"just a string",
		{"a": "no question"},
		{"q": 42, "a": "numeric question"},
		{"q": "   ", "a": "blank"},
		{"q": "bad answer", "a": ["list"]},
		null,
		{"q": null, "a": "null question"},
		42,
		-1.5,
		true,
		["q", "a"],
		{"q": "last", "a": "kept"}
	]`)

	ds, err := NewQAParser().Parse(context.Background(), data, "pairs.json")
	require.NoError(t, err)

	require.Len(t, ds.Records, 2)
	assert.Equal(t, "ok", ds.Records[0].Question)
	assert.Equal(t, "last", ds.Records[1].Question)

	assert.Equal(t, []entities.SkippedRecord{
		{Position: 1, Reason: ReasonNotObject},
		{Position: 2, Reason: ReasonMissingQuestion},
		{Position: 3, Reason: ReasonBadQuestion},
		{Position: 4, Reason: ReasonBlankQuestion},
		{Position: 5, Reason: ReasonBadAnswer},
		{Position: 6, Reason: ReasonNotObject},
		{Position: 7, Reason: ReasonBadQuestion},
		{Position: 8, Reason: ReasonNotObject},
		{Position: 9, Reason: ReasonNotObject},
		{Position: 10, Reason: ReasonNotObject},
		{Position: 11, Reason: ReasonNotObject},
	}, ds.Skipped)
}

func TestQAParser_Lines(t *testing.T) {
	data := []byte(`{"q": "first", "a": "1"}

{not json}
7
null
plain text
{"q": "second", "a": "2"}
`)

	ds, err := NewQAParser().Parse(context.Background(), data, "chunk.jsonl")
	require.NoError(t, err)

	require.Len(t, ds.Records, 2)
	assert.Equal(t, "second", ds.Records[1].Question)
	assert.Equal(t, []entities.SkippedRecord{
		{Position: 1, Reason: ReasonInvalidJSON},
		{Position: 2, Reason: ReasonNotObject},
		{Position: 3, Reason: ReasonNotObject},
		{Position: 4, Reason: ReasonInvalidJSON},
	}, ds.Skipped)
}

func TestQAParser_SniffsFormat(t *testing.T) {
	p := NewQAParser()

	ds, err := p.Parse(context.Background(), []byte(`  [{"q":"a","a":"b"}]`), "https://example.com/data")
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())

	ds, err = p.Parse(context.Background(), []byte(`{"q":"a","a":"b"}`+"\n"+`{"q":"c","a":"d"}`), "https://example.com/data")
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
}

func TestQAParser_InvalidArray(t *testing.T) {
	_, err := NewQAParser().Parse(context.Background(), []byte(`{"q":"not an array"}`), "pairs.json")
	assert.Error(t, err)
}

func TestQAParser_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewQAParser().Parse(ctx, []byte(`[{"q":"a","a":"b"}]`), "pairs.json")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQAParser_SupportedFormats(t *testing.T) {
	assert.Contains(t, NewQAParser().SupportedFormats(), ".json")
}
