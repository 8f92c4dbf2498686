package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/yuchialin/vocab-trainer/internal/dict"
	"github.com/yuchialin/vocab-trainer/internal/scheduler"
	"github.com/yuchialin/vocab-trainer/internal/storage"
	"github.com/yuchialin/vocab-trainer/internal/trainer"
)

// vocabServer binds the tool handlers to the trainer service.
type vocabServer struct {
	svc *trainer.Service
}

// jsonResult marshals v as an indented-JSON text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func errorResult(format string, args ...any) *mcp.CallToolResult {
	msg, _ := json.Marshal(fmt.Sprintf(format, args...))
	return mcp.NewToolResultText(fmt.Sprintf(`{"error": %s}`, msg))
}

// handleAddWord creates a word, looking up its definition and
// translation unless an explicit meaning was supplied.
func (vs *vocabServer) handleAddWord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	word, ok := request.Params.Arguments["word"].(string)
	if !ok || word == "" {
		return mcp.NewToolResultText("Missing required parameter: word"), nil
	}
	meaning, _ := request.Params.Arguments["meaning"].(string)
	pos, _ := request.Params.Arguments["pos"].(string)
	chinese, _ := request.Params.Arguments["chinese"].(string)

	if meaning == "" {
		result, err := vs.svc.Lookup(ctx, word)
		switch {
		case err == nil:
			meaning = result.Definition
			if pos == "" {
				pos = result.POS
			}
			if chinese == "" {
				chinese = result.Chinese
			}
		case errors.Is(err, dict.ErrNotFound):
			return errorResult("no dictionary entry for %q; supply a meaning explicitly", word), nil
		default:
			return errorResult("dictionary lookup failed: %v; supply a meaning explicitly", err), nil
		}
	}

	saved, err := vs.svc.AddWord(ctx, word, pos, meaning, chinese)
	if err != nil {
		if errors.Is(err, storage.ErrWordExists) {
			return errorResult("word %q is already in the collection", word), nil
		}
		return errorResult("error adding word: %v", err), nil
	}

	return jsonResult(AddWordResponse{
		Word: saved,
		Due:  vs.svc.TimeUntilDue(saved.Schedule.Due),
	})
}

// handleGetDueWord returns the next word due for review. When nothing
// is due the error response still carries the collection stats, so the
// session can be wrapped up with real numbers.
func (vs *vocabServer) handleGetDueWord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := vs.svc.Stats(ctx)
	if err != nil {
		return errorResult("error getting stats: %v", err), nil
	}

	due, err := vs.svc.DueWords(ctx)
	if err != nil {
		return errorResult("error getting due words: %v", err), nil
	}
	if len(due) == 0 {
		type noDueResponse struct {
			Error string        `json:"error"`
			Stats storage.Stats `json:"stats"`
		}
		return jsonResult(noDueResponse{
			Error: "No words due for review",
			Stats: stats,
		})
	}

	word := due[0]
	return jsonResult(WordResponse{
		Word:  word,
		Label: trainer.PhaseLabel(word.Schedule),
		Due:   "now",
		Stats: stats,
	})
}

// handleSubmitReview applies a rating (1=forgot, 2=hard, 3=easy) to a word.
func (vs *vocabServer) handleSubmitReview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	wordID, ok := request.Params.Arguments["word_id"].(string)
	if !ok || wordID == "" {
		return mcp.NewToolResultText("Missing required parameter: word_id"), nil
	}
	ratingFloat, ok := request.Params.Arguments["rating"].(float64)
	if !ok {
		return mcp.NewToolResultText("Missing required parameter: rating"), nil
	}

	rating := scheduler.Rating(int(ratingFloat))
	if !rating.Valid() {
		return errorResult("rating must be between 1 and 3"), nil
	}

	outcome, err := vs.svc.SubmitReview(ctx, wordID, rating)
	if err != nil {
		if errors.Is(err, storage.ErrWordNotFound) {
			return errorResult("word %s not found", wordID), nil
		}
		return errorResult("error submitting review: %v", err), nil
	}

	return jsonResult(ReviewResponse{
		Success:   true,
		Message:   fmt.Sprintf("Review recorded for %q", outcome.Word.Word),
		Word:      outcome.Word,
		Event:     outcome.Event,
		Graduated: outcome.Graduated,
		NextDue:   vs.svc.TimeUntilDue(outcome.Word.Schedule.Due),
	})
}

func (vs *vocabServer) handleListWords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	words, err := vs.svc.ListWords(ctx)
	if err != nil {
		return errorResult("error listing words: %v", err), nil
	}

	summaries := make([]WordSummary, 0, len(words))
	for _, w := range words {
		summaries = append(summaries, WordSummary{
			ID:       w.ID,
			Word:     w.Word,
			POS:      w.POS,
			Meaning:  w.Meaning,
			Chinese:  w.Chinese,
			Label:    trainer.PhaseLabel(w.Schedule),
			Easiness: w.Schedule.Easiness,
			Due:      vs.svc.TimeUntilDue(w.Schedule.Due),
		})
	}
	return jsonResult(ListWordsResponse{Words: summaries, Total: len(summaries)})
}

// handleUpdateWord changes content fields; absent parameters keep their
// stored values, and the schedule is never touched.
func (vs *vocabServer) handleUpdateWord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	wordID, ok := request.Params.Arguments["word_id"].(string)
	if !ok || wordID == "" {
		return mcp.NewToolResultText("Missing required parameter: word_id"), nil
	}

	var pos, meaning, chinese *string
	if v, ok := request.Params.Arguments["pos"].(string); ok {
		pos = &v
	}
	if v, ok := request.Params.Arguments["meaning"].(string); ok {
		meaning = &v
	}
	if v, ok := request.Params.Arguments["chinese"].(string); ok {
		chinese = &v
	}

	updated, err := vs.svc.UpdateWord(ctx, wordID, pos, meaning, chinese)
	if err != nil {
		if errors.Is(err, storage.ErrWordNotFound) {
			return errorResult("word %s not found", wordID), nil
		}
		return errorResult("error updating word: %v", err), nil
	}
	return jsonResult(UpdateWordResponse{
		Success: true,
		Message: fmt.Sprintf("Word %q updated", updated.Word),
		Word:    updated,
	})
}

func (vs *vocabServer) handleGetStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := vs.svc.Stats(ctx)
	if err != nil {
		return errorResult("error getting stats: %v", err), nil
	}
	return jsonResult(StatsResponse{Stats: stats})
}

func (vs *vocabServer) handleDeleteWord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	wordID, ok := request.Params.Arguments["word_id"].(string)
	if !ok || wordID == "" {
		return mcp.NewToolResultText("Missing required parameter: word_id"), nil
	}

	if err := vs.svc.DeleteWord(ctx, wordID); err != nil {
		if errors.Is(err, storage.ErrWordNotFound) {
			return errorResult("word %s not found", wordID), nil
		}
		return errorResult("error deleting word: %v", err), nil
	}
	return jsonResult(DeleteWordResponse{
		Success: true,
		Message: "Word " + wordID + " deleted",
	})
}
