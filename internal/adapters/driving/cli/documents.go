package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

var documentsCmd = &cobra.Command{
	Use:         "documents",
	Aliases:     []string{"document", "docs"},
	Short:       "Manage ingested documents",
	Long:        `List ingested documents or show one with its summary.`,
	Annotations: servicesRequired,
	RunE:        runDocumentsList,
}

var documentsListCmd = &cobra.Command{
	Use:         "list",
	Short:       "List ingested documents",
	Annotations: servicesRequired,
	RunE:        runDocumentsList,
}

var documentsShowCmd = &cobra.Command{
	Use:         "show [doc-id]",
	Short:       "Show a document's metadata and summary",
	Args:        cobra.ExactArgs(1),
	Annotations: servicesRequired,
	RunE:        runDocumentsShow,
}

func init() {
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsShowCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if err := requireDocuments(); err != nil {
		return err
	}

	docs, err := documentService.Catalogue(cmd.Context())
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}

	if len(docs) == 0 {
		cmd.Println("No documents ingested yet.")
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for i := range docs {
		doc := &docs[i]
		cmd.Printf("  %s\n", doc.ID)
		cmd.Printf("    File:    %s (%s)\n", doc.Filename, doc.Format)
		cmd.Printf("    Chunks:  %d\n", doc.Metadata.TotalChunks)
		cmd.Printf("    Added:   %s\n", doc.CreatedAt.Format(domain.TimestampLayout))
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentsShow(cmd *cobra.Command, args []string) error {
	if err := requireDocuments(); err != nil {
		return err
	}

	doc, err := documentService.Open(cmd.Context(), args[0])
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}

	meta := doc.Metadata
	cmd.Printf("ID:       %s\n", doc.ID)
	cmd.Printf("File:     %s\n", doc.Filename)
	cmd.Printf("Handle:   %s\n", doc.Handle)
	cmd.Printf("Type:     %s\n", meta.FileType)
	cmd.Printf("Size:     %d bytes\n", meta.FileSize)
	cmd.Printf("Chunks:   %d\n", meta.TotalChunks)
	cmd.Printf("Words:    %d\n", meta.WordCount)
	cmd.Printf("Chars:    %d\n", meta.CharCount)
	cmd.Printf("Added:    %s\n", doc.CreatedAt.Format(domain.TimestampLayout))
	cmd.Println()
	cmd.Println("Summary:")
	cmd.Println(doc.Summary)
	return nil
}
