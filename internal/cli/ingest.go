package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"physical-ai-textbook-be/pkg/content"

	"github.com/spf13/cobra"
)

var (
	ingestClear    bool
	ingestWatch    bool
	ingestDebounce time.Duration
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest textbook content into the vector index",
	Long: `Reads every module-*/*.mdx file and the top-level .md/.mdx files under the
content root, chunks them and adds them to the collection.
With --watch the content root is watched and re-ingested after each change.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestClear, "clear", false, "clear the collection before ingesting")
	ingestCmd.Flags().BoolVar(&ingestWatch, "watch", false, "re-ingest whenever content files change")
	ingestCmd.Flags().DurationVar(&ingestDebounce, "debounce", content.DefaultWatchDebounce, "quiet period before a watched change is ingested")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if _, err := requireChat(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := ingestOnce(ctx, cmd, ingestClear); err != nil {
		return err
	}
	if !ingestWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s for changes (Ctrl+C to stop)...\n", services.ContentRoot)
	return content.Watch(ctx, services.ContentRoot, ingestDebounce, func(ctx context.Context) {
		warnColor.Fprintln(cmd.OutOrStdout(), "Content changed, re-ingesting...")
		// The collection is rebuilt so edited or deleted chunks do not linger.
		if err := ingestOnce(ctx, cmd, true); err != nil {
			errColor.Fprintln(cmd.ErrOrStderr(), err.Error())
		}
	})
}

func ingestOnce(ctx context.Context, cmd *cobra.Command, clearExisting bool) error {
	start := time.Now()
	result := services.Chat.Ingest(ctx, clearExisting)
	if !result.Success {
		return fmt.Errorf("ingestion failed: %s", result.Error)
	}

	out := cmd.OutOrStdout()
	okColor.Fprintf(out, "Ingestion complete in %s\n", time.Since(start).Round(time.Millisecond))
	printField(out, "files found", result.FilesFound)
	printField(out, "files processed", result.FilesProcessed)
	printField(out, "chunks created", result.ChunksCreated)
	printField(out, "documents added", result.DocumentsAdded)
	printField(out, "total in store", result.TotalInStore)
	return nil
}
