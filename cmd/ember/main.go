// Command ember runs the documentation assistant: an HTTP service and a set of
// maintenance commands sharing one dependency container.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // cobra commands are package-level by convention
var rootCmd = &cobra.Command{
	Use:   "ember",
	Short: "Documentation assistant with a semantic answer cache",
	Long: `ember answers product questions from a documentation corpus.

Questions are first matched against a semantic cache of known answers. Misses
run a retrieve, grade and rewrite loop that falls back to a generic answer when
no relevant documentation is found. Configuration is read from the environment
and an optional .env file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

//nolint:gochecknoglobals // bound to the persistent --verbose flag
var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr for one-shot commands")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(ingestCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
