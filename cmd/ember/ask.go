package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/davidbz/ember/internal/domain"
)

//nolint:gochecknoglobals // cobra command
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a single question",
	Long: `Answer a single question and print the result.

With --stream every progress event is printed as one JSON line.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

//nolint:gochecknoglobals // bound to --stream
var askStream bool

func init() {
	askCmd.Flags().BoolVar(&askStream, "stream", false, "print progress events as JSON lines")
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := initLogging(!verbose); err != nil {
		return err
	}

	container, err := buildContainer()
	if err != nil {
		return err
	}

	return container.Invoke(func(orchestrator *domain.Orchestrator) error {
		if askStream {
			return streamAnswer(cmd, orchestrator, args[0])
		}

		result, err := orchestrator.Query(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), result)
	})
}

func printResult(w io.Writer, result *domain.QueryResult) error {
	if result.CacheHit && result.CacheInfo != nil {
		if _, err := fmt.Fprintf(w, "[cache hit: %q, similarity %.3f]\n",
			result.CacheInfo.MatchedQuestion, result.CacheInfo.Similarity); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, result.Answer)
	return err
}

// streamLine is one printed stream event.
type streamLine struct {
	domain.Event

	Error string `json:"error,omitempty"`
}

func streamAnswer(cmd *cobra.Command, orchestrator *domain.Orchestrator, question string) error {
	enc := json.NewEncoder(cmd.OutOrStdout())

	var streamErr error
	for event := range orchestrator.QueryStream(cmd.Context(), question) {
		line := streamLine{Event: event, Error: ""}
		if event.Err != nil && !event.Degraded() {
			line.Error = event.Err.Error()
			streamErr = event.Err
		}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("failed to write event: %w", err)
		}
	}
	return streamErr
}
