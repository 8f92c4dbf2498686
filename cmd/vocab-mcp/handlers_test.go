package main

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuchialin/vocab-trainer/internal/dict"
	"github.com/yuchialin/vocab-trainer/internal/scheduler"
	"github.com/yuchialin/vocab-trainer/internal/storage"
	"github.com/yuchialin/vocab-trainer/internal/trainer"
)

var handlerTestNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type stubDictionary struct {
	entry     dict.Entry
	lookupErr error
}

func (d *stubDictionary) Lookup(ctx context.Context, word string) (dict.Entry, error) {
	return d.entry, d.lookupErr
}

func (d *stubDictionary) Translate(ctx context.Context, text string) (string, error) {
	return "蘋果", nil
}

type serverFixture struct {
	vs   *vocabServer
	dict *stubDictionary
	now  *time.Time
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()
	ctx := context.Background()

	store, err := storage.Open(ctx, filepath.Join(t.TempDir(), "vocab.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	now := handlerTestNow
	clock := scheduler.NewClockWithTimeFunc(1, func() time.Time { return now })
	d := &stubDictionary{
		entry: dict.Entry{POS: "noun", Definition: "a round fruit"},
	}
	svc := trainer.NewService(store, clock, d, nil, false)
	return &serverFixture{vs: &vocabServer{svc: svc}, dict: d, now: &now}
}

func toolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

// callTool invokes the handler and unmarshals the JSON text result into out.
func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), req mcp.CallToolRequest, out interface{}) {
	t.Helper()
	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	textContent, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "expected text content")
	require.NoError(t, json.Unmarshal([]byte(textContent.Text), out))
}

func addTestWord(t *testing.T, f *serverFixture, word string) storage.Word {
	t.Helper()
	var resp AddWordResponse
	callTool(t, f.vs.handleAddWord, toolRequest("add_word", map[string]interface{}{
		"word": word,
	}), &resp)
	require.NotEmpty(t, resp.Word.ID)
	return resp.Word
}

func TestHandleAddWordWithLookup(t *testing.T) {
	f := newServerFixture(t)

	var resp AddWordResponse
	callTool(t, f.vs.handleAddWord, toolRequest("add_word", map[string]interface{}{
		"word": "apple",
	}), &resp)

	assert.Equal(t, "apple", resp.Word.Word)
	assert.Equal(t, "noun", resp.Word.POS)
	assert.Equal(t, "a round fruit", resp.Word.Meaning)
	assert.Equal(t, "蘋果", resp.Word.Chinese)
	assert.Equal(t, "1min", resp.Due)
	assert.Equal(t, scheduler.PhaseLearning, resp.Word.Schedule.Phase)
	assert.Equal(t, 1, resp.Word.Schedule.Step)
}

func TestHandleAddWordExplicitMeaningSkipsLookup(t *testing.T) {
	f := newServerFixture(t)
	f.dict.lookupErr = dict.ErrNotFound

	var resp AddWordResponse
	callTool(t, f.vs.handleAddWord, toolRequest("add_word", map[string]interface{}{
		"word":    "ledger",
		"meaning": "an account book",
		"pos":     "noun",
	}), &resp)

	assert.Equal(t, "an account book", resp.Word.Meaning)
}

func TestHandleAddWordLookupMiss(t *testing.T) {
	f := newServerFixture(t)
	f.dict.lookupErr = dict.ErrNotFound

	var resp map[string]interface{}
	callTool(t, f.vs.handleAddWord, toolRequest("add_word", map[string]interface{}{
		"word": "blurg",
	}), &resp)

	assert.Contains(t, resp["error"], "no dictionary entry")
}

func TestHandleAddWordDuplicate(t *testing.T) {
	f := newServerFixture(t)
	addTestWord(t, f, "apple")

	var resp map[string]interface{}
	callTool(t, f.vs.handleAddWord, toolRequest("add_word", map[string]interface{}{
		"word": "apple",
	}), &resp)

	assert.Contains(t, resp["error"], "already in the collection")
}

func TestHandleAddWordMissingParameter(t *testing.T) {
	f := newServerFixture(t)

	result, err := f.vs.handleAddWord(context.Background(), toolRequest("add_word", map[string]interface{}{}))
	require.NoError(t, err)
	textContent, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	assert.Contains(t, textContent.Text, "Missing required parameter: word")
}

func TestHandleGetDueWordNoneDue(t *testing.T) {
	f := newServerFixture(t)
	addTestWord(t, f, "apple")

	var resp struct {
		Error string        `json:"error"`
		Stats storage.Stats `json:"stats"`
	}
	callTool(t, f.vs.handleGetDueWord, toolRequest("get_due_word", nil), &resp)

	assert.Equal(t, "No words due for review", resp.Error)
	assert.Equal(t, 1, resp.Stats.Total)
}

func TestHandleGetDueWordReturnsWord(t *testing.T) {
	f := newServerFixture(t)
	addTestWord(t, f, "apple")
	*f.now = f.now.Add(2 * time.Minute)

	var resp WordResponse
	callTool(t, f.vs.handleGetDueWord, toolRequest("get_due_word", nil), &resp)

	assert.Equal(t, "apple", resp.Word.Word)
	assert.Equal(t, "[Learning 1/3]", resp.Label)
	assert.Equal(t, "now", resp.Due)
	assert.Equal(t, 1, resp.Stats.DueNow)
}

func TestHandleSubmitReviewAdvancesLearning(t *testing.T) {
	f := newServerFixture(t)
	word := addTestWord(t, f, "apple")
	*f.now = f.now.Add(2 * time.Minute)

	var resp ReviewResponse
	callTool(t, f.vs.handleSubmitReview, toolRequest("submit_review", map[string]interface{}{
		"word_id": word.ID,
		"rating":  float64(3),
	}), &resp)

	assert.True(t, resp.Success)
	assert.Equal(t, "advance to step 2", resp.Event)
	assert.False(t, resp.Graduated)
	assert.Equal(t, 2, resp.Word.Schedule.Step)
	assert.Equal(t, "10min", resp.NextDue)
}

func TestHandleSubmitReviewGraduates(t *testing.T) {
	f := newServerFixture(t)
	word := addTestWord(t, f, "apple")

	var resp ReviewResponse
	for i := 0; i < 3; i++ {
		*f.now = f.now.Add(25 * time.Hour)
		callTool(t, f.vs.handleSubmitReview, toolRequest("submit_review", map[string]interface{}{
			"word_id": word.ID,
			"rating":  float64(3),
		}), &resp)
	}

	assert.True(t, resp.Graduated)
	assert.Equal(t, scheduler.PhaseReviewing, resp.Word.Schedule.Phase)
	assert.Equal(t, 1, resp.Word.Schedule.Repetitions)
	assert.Equal(t, 1, resp.Word.Schedule.IntervalDays)
}

func TestHandleSubmitReviewInvalidRating(t *testing.T) {
	f := newServerFixture(t)
	word := addTestWord(t, f, "apple")

	var resp map[string]interface{}
	callTool(t, f.vs.handleSubmitReview, toolRequest("submit_review", map[string]interface{}{
		"word_id": word.ID,
		"rating":  float64(7),
	}), &resp)

	assert.Contains(t, resp["error"], "rating must be between 1 and 3")
}

func TestHandleSubmitReviewUnknownWord(t *testing.T) {
	f := newServerFixture(t)

	var resp map[string]interface{}
	callTool(t, f.vs.handleSubmitReview, toolRequest("submit_review", map[string]interface{}{
		"word_id": "no-such-id",
		"rating":  float64(3),
	}), &resp)

	assert.Contains(t, resp["error"], "not found")
}

func TestHandleListWords(t *testing.T) {
	f := newServerFixture(t)

	var resp ListWordsResponse
	callTool(t, f.vs.handleListWords, toolRequest("list_words", nil), &resp)
	assert.Equal(t, 0, resp.Total)
	assert.Empty(t, resp.Words)

	addTestWord(t, f, "apple")
	addTestWord(t, f, "ledger")

	callTool(t, f.vs.handleListWords, toolRequest("list_words", nil), &resp)
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, "apple", resp.Words[0].Word)
	assert.Equal(t, "[Learning 1/3]", resp.Words[0].Label)
	assert.InDelta(t, 2.5, resp.Words[0].Easiness, 1e-9)
}

func TestHandleUpdateWordSelective(t *testing.T) {
	f := newServerFixture(t)
	word := addTestWord(t, f, "apple")

	var resp UpdateWordResponse
	callTool(t, f.vs.handleUpdateWord, toolRequest("update_word", map[string]interface{}{
		"word_id": word.ID,
		"meaning": "a crisp tree fruit",
	}), &resp)

	assert.True(t, resp.Success)
	assert.Equal(t, "a crisp tree fruit", resp.Word.Meaning)
	assert.Equal(t, "noun", resp.Word.POS, "absent parameters keep stored values")
	assert.Equal(t, word.Schedule, resp.Word.Schedule, "schedule untouched")
}

func TestHandleUpdateWordNotFound(t *testing.T) {
	f := newServerFixture(t)

	var resp map[string]interface{}
	callTool(t, f.vs.handleUpdateWord, toolRequest("update_word", map[string]interface{}{
		"word_id": "no-such-id",
		"meaning": "x",
	}), &resp)

	assert.Contains(t, resp["error"], "not found")
}

func TestHandleGetStats(t *testing.T) {
	f := newServerFixture(t)
	addTestWord(t, f, "apple")
	*f.now = f.now.Add(2 * time.Minute)

	var resp StatsResponse
	callTool(t, f.vs.handleGetStats, toolRequest("get_stats", nil), &resp)

	assert.Equal(t, 1, resp.Stats.Total)
	assert.Equal(t, 1, resp.Stats.Learning)
	assert.Equal(t, 1, resp.Stats.DueNow)
}

func TestHandleDeleteWord(t *testing.T) {
	f := newServerFixture(t)
	word := addTestWord(t, f, "apple")

	var resp DeleteWordResponse
	callTool(t, f.vs.handleDeleteWord, toolRequest("delete_word", map[string]interface{}{
		"word_id": word.ID,
	}), &resp)
	assert.True(t, resp.Success)

	var errResp map[string]interface{}
	callTool(t, f.vs.handleDeleteWord, toolRequest("delete_word", map[string]interface{}{
		"word_id": word.ID,
	}), &errResp)
	assert.Contains(t, errResp["error"], "not found")
}
