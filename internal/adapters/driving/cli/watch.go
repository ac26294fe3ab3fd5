package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/connectors/filesystem"
	"github.com/custodia-labs/docqa/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Ingest documents as they appear in a directory",
	Long: `Watch a directory and ingest supported documents when they are created
or modified. Existing documents are ingested first unless --skip-existing
is set. Deleted files stay in the index. Stop with Ctrl+C.`,
	Args:        cobra.ExactArgs(1),
	Annotations: servicesRequired,
	RunE:        runWatch,
}

var watchSkipExisting bool

func init() {
	watchCmd.Flags().BoolVar(&watchSkipExisting, "skip-existing", false, "only ingest files changed after starting")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := requireDocuments(); err != nil {
		return err
	}

	ctx := cmd.Context()
	connector := filesystem.New(filesystem.ResolvePath(args[0]), supportedFormats)
	if err := connector.Validate(); err != nil {
		return fmt.Errorf("reading directory: %w", err)
	}

	if !watchSkipExisting {
		paths, errs := connector.Scan(ctx)
		for path := range paths {
			ingestFile(cmd, path)
		}
		if err := <-errs; err != nil {
			return err
		}
	}

	changes, err := connector.Watch(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := connector.Close(); err != nil {
			logger.Warn("closing watcher: %v", err)
		}
	}()

	cmd.Printf("Watching %s for changes...\n", connector.Root())
	watchLoop(ctx, cmd, changes)
	return nil
}

// watchLoop ingests created and updated files until changes closes or ctx ends.
func watchLoop(ctx context.Context, cmd *cobra.Command, changes <-chan filesystem.Change) {
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			switch change.Type {
			case filesystem.ChangeCreated, filesystem.ChangeUpdated:
				logger.Debug("%s %s", change.Type, change.Path)
				ingestFile(cmd, change.Path)
			case filesystem.ChangeDeleted:
				cmd.Printf("Removed %s (its chunks stay in the index)\n", change.Path)
			}
		}
	}
}
