// Package cli provides the docqa command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// version is set at build time.
var version = "dev"

// annotationServices marks commands that need the core services.
const annotationServices = "docqa/services"

var servicesRequired = map[string]string{annotationServices: "true"}

// Options are the global flags that shape how services are built.
type Options struct {
	// DataDir holds the index and document store.
	DataDir string

	// Ephemeral keeps the index in memory for this run only.
	Ephemeral bool

	// Verbose enables debug logging.
	Verbose bool
}

// Services are the core services commands run against.
type Services struct {
	Documents driving.DocumentService
	QA        driving.QAService
	Challenge driving.ChallengeService

	// Formats are the accepted upload formats.
	Formats []domain.Format

	// Close releases storage and connections. Optional.
	Close func() error
}

// Builder constructs services on first use.
type Builder func(ctx context.Context, opts Options) (*Services, error)

var (
	documentService  driving.DocumentService
	qaService        driving.QAService
	challengeService driving.ChallengeService
	settingsService  driving.SettingsService
	supportedFormats []domain.Format

	builder       Builder
	closeServices func() error
	options       Options
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Ask questions about your documents",
	Long: `docqa ingests pdf, docx and txt documents, summarises them, and answers
questions grounded in their content. It can also quiz you on a document
and score your answers.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: preRun,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&options.DataDir, "data-dir", "", "directory for the index and documents (default ~/.docqa/data)")
	flags.BoolVar(&options.Ephemeral, "ephemeral", false, "keep the index in memory for this run only")
	flags.BoolVarP(&options.Verbose, "verbose", "v", false, "enable debug logging")
}

// SetBuilder installs the function that builds services for commands that need them.
func SetBuilder(b Builder) {
	builder = b
}

// SetSettingsService installs the settings service.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetServices installs already-built services.
func SetServices(s *Services) {
	if s == nil {
		documentService, qaService, challengeService = nil, nil, nil
		supportedFormats = nil
		closeServices = nil
		return
	}
	documentService = s.Documents
	qaService = s.QA
	challengeService = s.Challenge
	supportedFormats = s.Formats
	closeServices = s.Close
}

func preRun(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(options.Verbose)

	if cmd.Annotations[annotationServices] != "true" || documentService != nil || builder == nil {
		return nil
	}

	services, err := builder(cmd.Context(), options)
	if err != nil {
		return fmt.Errorf("starting docqa: %w", err)
	}
	SetServices(services)
	return nil
}

// Execute runs the root command and releases any services it built.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if closeServices != nil {
		err = errors.Join(err, closeServices())
		closeServices = nil
	}
	return err
}

func requireDocuments() error {
	if documentService == nil {
		return errors.New("document service not configured")
	}
	return nil
}
