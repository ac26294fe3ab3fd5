package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/connectors/filesystem"
	"github.com/custodia-labs/docqa/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest documents",
	Long: `Extract, summarise, chunk and index pdf, docx and txt documents.

Files can be named directly or collected from a directory with --dir.
Hidden files and paths listed in .docqaignore are skipped.`,
	Annotations: servicesRequired,
	RunE:        runIngest,
}

var ingestDir string

func init() {
	ingestCmd.Flags().StringVarP(&ingestDir, "dir", "d", "", "ingest every supported document under this directory")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := requireDocuments(); err != nil {
		return err
	}

	paths := append([]string{}, args...)
	if ingestDir != "" {
		found, err := scanDirectory(cmd.Context(), ingestDir)
		if err != nil {
			return err
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		return errors.New(domain.MsgNoFile)
	}

	failed := 0
	for _, path := range paths {
		if !ingestFile(cmd, path) {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(paths))
	}
	return nil
}

func scanDirectory(ctx context.Context, dir string) ([]string, error) {
	connector := filesystem.New(filesystem.ResolvePath(dir), supportedFormats)
	if err := connector.Validate(); err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	paths, errs := connector.Scan(ctx)
	var found []string
	for path := range paths {
		found = append(found, path)
	}
	if err := <-errs; err != nil {
		return found, err
	}
	return found, nil
}

// ingestFile ingests one file and prints the outcome. It reports success.
func ingestFile(cmd *cobra.Command, path string) bool {
	upload, err := filesystem.LoadUpload(path)
	if err != nil {
		cmd.Printf("FAILED %s: %s\n", path, domain.MsgExtractionFailed)
		return false
	}

	result := documentService.Ingest(cmd.Context(), upload)
	if !result.OK() {
		cmd.Printf("FAILED %s: %s\n", upload.Filename, result.Message)
		return false
	}

	doc := result.Document
	cmd.Printf("Ingested %s\n", doc.Filename)
	cmd.Printf("  ID:      %s\n", doc.ID)
	cmd.Printf("  Chunks:  %d\n", doc.Metadata.TotalChunks)
	cmd.Printf("  Words:   %d\n", doc.Metadata.WordCount)
	cmd.Printf("  Summary: %s\n\n", doc.Summary)
	return true
}
