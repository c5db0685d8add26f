package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the state of the textbook collection",
	RunE: func(cmd *cobra.Command, _ []string) error {
		chat, err := requireChat()
		if err != nil {
			return err
		}

		stats := chat.Stats(cmd.Context())
		out := cmd.OutOrStdout()
		printField(out, "collection", stats.CollectionName)
		printField(out, "initialized", stats.Initialized)
		printField(out, "documents", stats.DocumentCount)
		if !stats.Initialized {
			warnColor.Fprintln(out, "Index is not initialized; chat answers will be empty.")
		}
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every document from the textbook collection",
	RunE: func(cmd *cobra.Command, _ []string) error {
		chat, err := requireChat()
		if err != nil {
			return err
		}
		if err := chat.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("clear collection: %w", err)
		}
		okColor.Fprintln(cmd.OutOrStdout(), "Collection cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(clearCmd)
}

func printField(out io.Writer, key string, value interface{}) {
	keyColor.Fprintf(out, "  %-16s", key+":")
	fmt.Fprintf(out, " %v\n", value)
}
