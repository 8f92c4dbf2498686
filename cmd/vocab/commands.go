package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/yuchialin/vocab-trainer/internal/dict"
	"github.com/yuchialin/vocab-trainer/internal/scheduler"
	"github.com/yuchialin/vocab-trainer/internal/storage"
	"github.com/yuchialin/vocab-trainer/internal/trainer"
)

// app holds the interactive session state. Input and output are
// injectable so the command loop can be driven from tests.
type app struct {
	svc         *trainer.Service
	in          *bufio.Scanner
	out         io.Writer
	accelerated bool

	// sleep is swapped out in tests so `wait` does not block.
	sleep func(time.Duration)
}

func newApp(svc *trainer.Service, in io.Reader, out io.Writer, accelerated bool) *app {
	return &app{
		svc:         svc,
		in:          bufio.NewScanner(in),
		out:         out,
		accelerated: accelerated,
		sleep:       time.Sleep,
	}
}

// readLine returns the next input line, trimmed, or false on EOF.
func (a *app) readLine() (string, bool) {
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}

func (a *app) prompt(label string) (string, bool) {
	fmt.Fprint(a.out, label)
	return a.readLine()
}

func (a *app) runLoop(ctx context.Context) error {
	fmt.Fprintln(a.out, "Vocabulary trainer. Type 'help' for commands.")
	for {
		line, ok := a.prompt("> ")
		if !ok {
			fmt.Fprintln(a.out)
			return nil
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		var err error
		switch cmd {
		case "add":
			err = a.cmdAdd(ctx, args)
		case "pending":
			err = a.cmdPending(ctx)
		case "review":
			err = a.cmdReview(ctx)
		case "list":
			err = a.cmdList(ctx)
		case "stats":
			err = a.cmdStats(ctx)
		case "wait":
			err = a.cmdWait(args)
		case "help":
			a.cmdHelp()
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye.")
			return nil
		default:
			fmt.Fprintf(a.out, "unknown command %q, type 'help'\n", cmd)
		}
		if err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
		}
	}
}

func (a *app) cmdHelp() {
	fmt.Fprint(a.out, `Commands:
  add [word]   add a word (looks up definition and translation)
  pending      show words due for review
  review       review due words one by one
  list         show all words with their schedule
  stats        show collection statistics
`)
	if a.accelerated {
		fmt.Fprintln(a.out, "  wait <sec>   sleep, letting accelerated time pass")
	}
	fmt.Fprintln(a.out, "  exit         quit")
}

// cmdAdd looks the word up, shows what was found, and lets the user
// accept or override the meaning before saving.
func (a *app) cmdAdd(ctx context.Context, args []string) error {
	word := strings.Join(args, " ")
	if word == "" {
		w, ok := a.prompt("Word: ")
		if !ok {
			return nil
		}
		word = w
	}
	if word == "" {
		return trainer.ErrEmptyWord
	}

	var pos, meaning, chinese string
	result, err := a.svc.Lookup(ctx, word)
	switch {
	case err == nil:
		pos, meaning, chinese = result.POS, result.Definition, result.Chinese
		fmt.Fprintf(a.out, "  [%s] %s\n", pos, meaning)
		if result.Example != "" {
			fmt.Fprintf(a.out, "  e.g. %s\n", result.Example)
		}
		if chinese != "" {
			fmt.Fprintf(a.out, "  %s\n", chinese)
		}
	case errors.Is(err, dict.ErrNotFound):
		fmt.Fprintf(a.out, "No dictionary entry for %q, enter the meaning yourself.\n", word)
	default:
		fmt.Fprintf(a.out, "Lookup failed (%v), enter the meaning yourself.\n", err)
	}

	line, ok := a.prompt("Meaning (enter to accept, or type your own): ")
	if !ok {
		return nil
	}
	if line != "" {
		meaning = line
	}
	if meaning == "" {
		return trainer.ErrEmptyWord
	}

	saved, err := a.svc.AddWord(ctx, word, pos, meaning, chinese)
	if err != nil {
		if errors.Is(err, storage.ErrWordExists) {
			fmt.Fprintf(a.out, "%q is already in the collection.\n", word)
			return nil
		}
		return err
	}
	fmt.Fprintf(a.out, "Added %q, first review in %s.\n",
		saved.Word, a.svc.TimeUntilDue(saved.Schedule.Due))
	return nil
}

func (a *app) cmdPending(ctx context.Context) error {
	due, err := a.svc.DueWords(ctx)
	if err != nil {
		return err
	}
	if len(due) == 0 {
		fmt.Fprintln(a.out, "Nothing due. Come back later.")
		return nil
	}
	fmt.Fprintf(a.out, "%d word(s) due:\n", len(due))
	for _, w := range due {
		fmt.Fprintf(a.out, "  %-20s %s\n", w.Word, trainer.PhaseLabel(w.Schedule))
	}
	return nil
}

// cmdReview runs the drill: for each due word, show it, wait for the
// reveal, then read a rating. Entering q stops the session; reviews
// already applied stay committed.
func (a *app) cmdReview(ctx context.Context) error {
	due, err := a.svc.DueWords(ctx)
	if err != nil {
		return err
	}
	if len(due) == 0 {
		fmt.Fprintln(a.out, "Nothing due. Come back later.")
		return nil
	}

	reviewed := 0
	for _, w := range due {
		fmt.Fprintf(a.out, "\n%s %s\n", trainer.PhaseLabel(w.Schedule), w.Word)
		if _, ok := a.prompt("(enter to reveal) "); !ok {
			break
		}
		fmt.Fprintf(a.out, "  [%s] %s\n", w.POS, w.Meaning)
		if w.Chinese != "" {
			fmt.Fprintf(a.out, "  %s\n", w.Chinese)
		}

		rating, ok := a.readRating()
		if !ok {
			break
		}
		outcome, err := a.svc.SubmitReview(ctx, w.ID, rating)
		if err != nil {
			return err
		}
		reviewed++
		fmt.Fprintf(a.out, "  -> %s, next review in %s\n",
			outcome.Event, a.svc.TimeUntilDue(outcome.Word.Schedule.Due))
		if outcome.Graduated {
			fmt.Fprintf(a.out, "  %q graduated to spaced review!\n", w.Word)
		}
	}
	fmt.Fprintf(a.out, "\nSession done, %d word(s) reviewed.\n", reviewed)
	return nil
}

// readRating re-prompts until it gets a valid rating or q/EOF.
func (a *app) readRating() (scheduler.Rating, bool) {
	for {
		line, ok := a.prompt("Rating (1=forgot 2=hard 3=easy, q=quit): ")
		if !ok {
			return 0, false
		}
		if strings.EqualFold(line, "q") {
			return 0, false
		}
		rating, err := scheduler.ParseRating(line)
		if err != nil {
			fmt.Fprintln(a.out, "Please enter 1, 2, 3 or q.")
			continue
		}
		return rating, true
	}
}

func (a *app) cmdList(ctx context.Context) error {
	words, err := a.svc.ListWords(ctx)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		fmt.Fprintln(a.out, "No words yet. Use 'add' to get started.")
		return nil
	}
	for _, w := range words {
		fmt.Fprintf(a.out, "  %-20s %-14s EF %.2f  due in %s\n",
			w.Word, trainer.PhaseLabel(w.Schedule), w.Schedule.Easiness,
			a.svc.TimeUntilDue(w.Schedule.Due))
	}
	return nil
}

func (a *app) cmdStats(ctx context.Context) error {
	stats, err := a.svc.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Words: %d total, %d learning, %d graduated, %d due now\n",
		stats.Total, stats.Learning, stats.Graduated, stats.DueNow)
	if stats.Graduated > 0 {
		fmt.Fprintf(a.out, "Average easiness: %.2f\n", stats.AvgEasiness)
	}
	return nil
}

// cmdWait sleeps for the given number of real seconds. Only useful in
// accelerated mode, where a second of waiting moves the schedule by
// over 16 minutes.
func (a *app) cmdWait(args []string) error {
	if !a.accelerated {
		return errors.New("wait is only available in test mode (--test)")
	}
	if len(args) != 1 {
		return errors.New("usage: wait <seconds>")
	}
	secs, err := strconv.ParseFloat(args[0], 64)
	if err != nil || secs <= 0 {
		return fmt.Errorf("invalid duration %q", args[0])
	}
	d := time.Duration(secs * float64(time.Second))
	fmt.Fprintf(a.out, "Waiting %s (%s of scheduled time)...\n",
		d, time.Duration(float64(d)*scheduler.TestAcceleration))
	a.sleep(d)
	return nil
}
