// Command vocab-mcp exposes the vocabulary trainer over the Model Context
// Protocol on stdio, so an assistant can run review sessions conversationally.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/yuchialin/vocab-trainer/internal/config"
	"github.com/yuchialin/vocab-trainer/internal/dict"
	"github.com/yuchialin/vocab-trainer/internal/scheduler"
	"github.com/yuchialin/vocab-trainer/internal/storage"
	"github.com/yuchialin/vocab-trainer/internal/trainer"
)

const vocabServerInfo = `
This is a vocabulary trainer using timed learning steps followed by SM-2
spaced repetition. When running a review session:

1. Call get_due_word and show ONLY the word itself. Do not reveal the
   meaning until the learner has attempted to recall it.
2. After the learner answers, reveal the meaning and translation and
   compare them supportively.
3. Submit a rating with submit_review:
   - 1 (forgot): the learner could not recall the meaning
   - 2 (hard): recalled with difficulty or only partially
   - 3 (easy): recalled quickly and correctly
   Estimate the rating from the learner's answer; ask only when unsure.
4. Repeat until get_due_word reports nothing due, then summarize the
   session with get_stats.

When adding words with add_word, the definition and translation are
looked up automatically; pass an explicit meaning only to override.
`

func main() {
	var (
		configFile string
		dbPath     string
		testMode   bool
	)
	flag.StringVar(&configFile, "config", "", "Path to config file (default ./vocab.yaml if present)")
	flag.StringVar(&dbPath, "db", "", "Path to SQLite database (overrides config)")
	flag.BoolVar(&testMode, "test", false, "Accelerated mode: time runs 1000x faster against a separate test database")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}
	if testMode {
		cfg.Accelerated = true
	}

	logger, err := trainer.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	path := cfg.DBPath()
	if dbPath != "" {
		path = dbPath
	}
	store, err := storage.Open(context.Background(), path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database %s: %v\n", path, err)
		os.Exit(1)
	}
	defer store.Close()

	accel := 1.0
	if cfg.Accelerated {
		accel = scheduler.TestAcceleration
	}
	clock := scheduler.NewClock(accel)

	dictionary := dict.NewClient(dict.Config{
		DictionaryURL:  cfg.Dictionary.LookupURL,
		TranslationURL: cfg.Dictionary.TranslationURL,
		Timeout:        cfg.Dictionary.Timeout(),
	})

	svc := trainer.NewService(store, clock, dictionary, logger, cfg.Accelerated)
	vs := &vocabServer{svc: svc}

	s := server.NewMCPServer(
		"Vocab Trainer MCP",
		"1.0.0",
		server.WithInstructions(vocabServerInfo),
		server.WithToolCapabilities(true),
		server.WithLogging(),
	)

	addWordTool := mcp.NewTool("add_word",
		mcp.WithDescription(
			"Add a word to the collection. The definition and Traditional "+
				"Chinese translation are looked up automatically when no "+
				"meaning is given. New words start in learning step 1 and "+
				"come due for their first review after one minute.",
		),
		mcp.WithString("word",
			mcp.Required(),
			mcp.Description("The word to add"),
		),
		mcp.WithString("meaning",
			mcp.Description("Definition; overrides the dictionary lookup"),
		),
		mcp.WithString("pos",
			mcp.Description("Part of speech, e.g. noun or verb"),
		),
		mcp.WithString("chinese",
			mcp.Description("Traditional Chinese translation; overrides the automatic one"),
		),
	)

	getDueWordTool := mcp.NewTool("get_due_word",
		mcp.WithDescription(
			"Get the next word due for review, with collection statistics. "+
				"Show ONLY the word to the learner; never reveal the meaning "+
				"before they have tried to recall it.",
		),
	)

	submitReviewTool := mcp.NewTool("submit_review",
		mcp.WithDescription(
			"Record the review outcome for a word. Rating 1 means the "+
				"learner forgot it, 2 means it was hard, 3 means it was easy. "+
				"The response includes the updated schedule.",
		),
		mcp.WithString("word_id",
			mcp.Required(),
			mcp.Description("The ID of the word being reviewed"),
		),
		mcp.WithNumber("rating",
			mcp.Required(),
			mcp.Description("Rating from 1-3: Forgot=1, Hard=2, Easy=3"),
		),
	)

	listWordsTool := mcp.NewTool("list_words",
		mcp.WithDescription("List all words with their schedule state."),
	)

	updateWordTool := mcp.NewTool("update_word",
		mcp.WithDescription(
			"Update the content of an existing word. Only the supplied "+
				"fields change; the review schedule is untouched.",
		),
		mcp.WithString("word_id",
			mcp.Required(),
			mcp.Description("The ID of the word to update"),
		),
		mcp.WithString("meaning",
			mcp.Description("New definition"),
		),
		mcp.WithString("pos",
			mcp.Description("New part of speech"),
		),
		mcp.WithString("chinese",
			mcp.Description("New Traditional Chinese translation"),
		),
	)

	getStatsTool := mcp.NewTool("get_stats",
		mcp.WithDescription("Get collection statistics: totals per phase, words due now, average easiness."),
	)

	deleteWordTool := mcp.NewTool("delete_word",
		mcp.WithDescription("Remove a word from the collection."),
		mcp.WithString("word_id",
			mcp.Required(),
			mcp.Description("The ID of the word to delete"),
		),
	)

	s.AddTool(addWordTool, vs.handleAddWord)
	s.AddTool(getDueWordTool, vs.handleGetDueWord)
	s.AddTool(submitReviewTool, vs.handleSubmitReview)
	s.AddTool(listWordsTool, vs.handleListWords)
	s.AddTool(updateWordTool, vs.handleUpdateWord)
	s.AddTool(getStatsTool, vs.handleGetStats)
	s.AddTool(deleteWordTool, vs.handleDeleteWord)

	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("Error serving MCP server: %v", err)
	}
}
