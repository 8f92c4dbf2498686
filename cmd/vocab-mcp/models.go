// Package main provides the vocabulary trainer MCP service.
package main

import (
	"github.com/yuchialin/vocab-trainer/internal/storage"
)

// WordResponse is the response structure for get_due_word.
type WordResponse struct {
	Word  storage.Word  `json:"word"`
	Label string        `json:"phase_label"`
	Due   string        `json:"due_in"`
	Stats storage.Stats `json:"stats"`
}

// AddWordResponse is the response structure for add_word.
type AddWordResponse struct {
	Word storage.Word `json:"word"`
	Due  string       `json:"first_review_in"`
}

// ReviewResponse is the response structure for submit_review.
type ReviewResponse struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message"`
	Word      storage.Word `json:"word"`
	Event     string       `json:"event"`
	Graduated bool         `json:"graduated"`
	NextDue   string       `json:"next_review_in"`
}

// ListWordsResponse is the response structure for list_words.
type ListWordsResponse struct {
	Words []WordSummary `json:"words"`
	Total int           `json:"total"`
}

// WordSummary is one entry of a list_words response.
type WordSummary struct {
	ID       string  `json:"id"`
	Word     string  `json:"word"`
	POS      string  `json:"pos,omitempty"`
	Meaning  string  `json:"meaning"`
	Chinese  string  `json:"chinese,omitempty"`
	Label    string  `json:"phase_label"`
	Easiness float64 `json:"easiness_factor"`
	Due      string  `json:"due_in"`
}

// UpdateWordResponse is the response structure for update_word.
type UpdateWordResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Word    storage.Word `json:"word"`
}

// StatsResponse is the response structure for get_stats.
type StatsResponse struct {
	Stats storage.Stats `json:"stats"`
}

// DeleteWordResponse is the response structure for delete_word.
type DeleteWordResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
