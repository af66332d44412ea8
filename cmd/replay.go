package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/zjrosen/textflow/internal/log"
	"github.com/zjrosen/textflow/internal/pubsub"
	"github.com/zjrosen/textflow/internal/script"
	"github.com/zjrosen/textflow/internal/session"
	"github.com/zjrosen/textflow/internal/textdiff"
	"github.com/zjrosen/textflow/internal/tracing"
	"github.com/zjrosen/textflow/internal/watcher"
)

var (
	replayScript  string
	replayDiff    bool
	replayUndoAll bool
	replayEvents  bool
	replayWatch   bool
	replayColor   string
	replayWidth   int
	replayContext int
)

var replayCmd = &cobra.Command{
	Use:   "replay <input>",
	Short: "Apply an edit script to a text file and print the result",
	Long: `Seed a document from <input>, apply the edit script and print the resulting
text. The input file is never modified.

Examples:
  # Print the edited text
  textflow replay notes.txt --script fix.yaml

  # Show what changed
  textflow replay notes.txt --script fix.yaml --diff

  # Also check that undoing every step restores the input
  textflow replay notes.txt --script fix.yaml --undo-all

  # Re-run whenever the input or the script is saved
  textflow replay notes.txt --script fix.yaml --diff --watch`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayWatch {
			return watchReplay(cmd, args[0])
		}
		return runReplay(cmd, args[0])
	},
}

func init() {
	replayCmd.Flags().StringVarP(&replayScript, "script", "s", "", "edit script (YAML)")
	replayCmd.Flags().BoolVar(&replayDiff, "diff", false, "print a diff instead of the text")
	replayCmd.Flags().BoolVar(&replayUndoAll, "undo-all", false, "verify the undo/redo round trip")
	replayCmd.Flags().BoolVarP(&replayWatch, "watch", "w", false, "re-run when the input or script changes")
	replayCmd.Flags().BoolVar(&replayEvents, "events", false, "list change events on stderr")
	replayCmd.Flags().StringVar(&replayColor, "color", "auto", "diff colors: auto, always or never")
	replayCmd.Flags().IntVar(&replayWidth, "width", 0, "truncate diff lines to this width (0 = no limit)")
	replayCmd.Flags().IntVar(&replayContext, "context", 3, "unchanged lines shown around changes (-1 = all)")
	_ = replayCmd.MarkFlagRequired("script")

	rootCmd.AddCommand(replayCmd)
}

// watchReplay runs the replay, then again after every change to the input
// or the script, until interrupted. Failed runs are reported and watching
// continues.
func watchReplay(cmd *cobra.Command, input string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	w, err := watcher.New(watcher.DefaultConfig(input, replayScript))
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()
	onChange, err := w.Start()
	if err != nil {
		return err
	}

	for {
		if err := runReplay(cmd, input); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "replay failed: %v\n", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "watching %s and %s\n", input, replayScript)

		select {
		case <-ctx.Done():
			return nil
		case <-onChange:
			log.Debug(log.CatCLI, "change detected, replaying", "input", input, "script", replayScript)
		}
	}
}

func runReplay(cmd *cobra.Command, input string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sc, err := script.Load(replayScript)
	if err != nil {
		return err
	}
	doc, err := readDocument(input)
	if err != nil {
		return err
	}

	var events *pubsub.Broker[session.Change]
	if replayEvents {
		events = pubsub.NewBrokerWithBuffer[session.Change](eventBuffer(sc))
		defer events.Close()
	}
	listenCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	var listener *pubsub.Listener[session.Change]
	if events != nil {
		listener = pubsub.NewListener(listenCtx, events)
	}

	s, err := newSession(doc, sc.Newline, events)
	if err != nil {
		return err
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("starting tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			log.ErrorErr(log.CatTrace, "tracing shutdown failed", err)
		}
	}()

	initial := s.Text()
	runner := script.NewRunner(provider.Tracer())
	res, err := runner.Run(ctx, s, sc)
	if err != nil {
		return err
	}

	if listener != nil {
		for _, ev := range listener.Drain() {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s at %s (%d lines)\n",
				ev.Type, ev.Payload.Command, ev.Payload.Pos, ev.Payload.LineCount)
		}
		if dropped := events.Dropped(); dropped > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d events dropped\n", dropped)
		}
	}

	final := s.Text()
	if replayUndoAll {
		if err := runner.VerifyUndo(ctx, s, res.Baseline); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "undo round trip ok after %d script steps\n", res.Steps)
	}

	out := cmd.OutOrStdout()
	if !replayDiff {
		_, err := fmt.Fprint(out, final)
		return err
	}

	color, err := useColor(cmd)
	if err != nil {
		return err
	}
	r := textdiff.NewRenderer(out, textdiff.Options{Color: color, Width: replayWidth, Context: replayContext})
	fmt.Fprint(out, r.Render(initial, final))
	fmt.Fprintln(out, textdiff.Summary(textdiff.Lines(initial, final)))
	return nil
}

// eventBuffer sizes the event broker so a whole script fits.
func eventBuffer(sc *script.Script) int {
	n := 16
	for _, st := range sc.Steps {
		n += 2 * st.Times()
	}
	return n
}

func useColor(cmd *cobra.Command) (bool, error) {
	switch replayColor {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		return termenv.NewOutput(cmd.OutOrStdout()).EnvColorProfile() != termenv.Ascii, nil
	default:
		return false, fmt.Errorf("--color must be auto, always or never, got %q", replayColor)
	}
}
