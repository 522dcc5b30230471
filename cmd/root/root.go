// Package root contains the root command for the application. Running the root
// command with --vat performs the export.
package root

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"mydata/epsilon-export/internal/config"
	"mydata/epsilon-export/internal/container"
	"mydata/epsilon-export/internal/logging"
	"mydata/epsilon-export/internal/pipeline"
)

// ErrBlocked is returned by commands that found issues. The issues have
// already been printed; main only needs to exit non-zero.
var ErrBlocked = errors.New("export blocked by issues")

// CommonFlags represents the flags shared by every command.
type CommonFlags struct {
	ConfigFile  string
	VAT         string
	Invoices    string
	ClientDB    string
	Credentials string
	Settings    string
	InvoicesDir string
	ExportsDir  string
}

var (
	// AppConfig is the configuration resolved for the current invocation.
	AppConfig *config.Config

	// AppContainer holds the dependencies built from AppConfig.
	AppContainer *container.Container

	// SharedFlags are the persistent flags accessible to all commands.
	SharedFlags = CommonFlags{}

	// Output is the export-only --out flag.
	Output string

	initOnce sync.Once

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "epsilon-export",
		Short: "Export myDATA invoices to an Epsilon accounting workbook.",
		Long: `epsilon-export reads a client's myDATA invoice feed, resolves every line to a
ledger account and customer id, and writes the two-sheet workbook imported by
Epsilon. The workbook is only written when no issue is found; otherwise each
issue is printed and the command exits with status 1.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		RunE:              runExport,
	}
)

// Init registers the flags. It is safe to call more than once.
func Init() {
	initOnce.Do(func() {
		pf := Cmd.PersistentFlags()
		pf.StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default: config.yaml in ., .epsilon-export or $HOME/.epsilon-export)")
		pf.StringVar(&SharedFlags.VAT, "vat", "", "VAT number (AFM) of the client being exported")
		pf.StringVar(&SharedFlags.Invoices, "invoices", "", "Invoice feed JSON (default: discovered under --invoices_dir)")
		pf.StringVar(&SharedFlags.ClientDB, "clientdb", "", "Client roster xlsx/xls/csv (default: discovered)")
		pf.StringVar(&SharedFlags.Credentials, "credentials", "", "Credentials file")
		pf.StringVar(&SharedFlags.Settings, "settings", "", "Account settings file")
		pf.StringVar(&SharedFlags.InvoicesDir, "invoices_dir", "", "Directory holding per-VAT invoice feeds")
		pf.StringVar(&SharedFlags.ExportsDir, "exports_dir", "", "Directory receiving per-VAT exports")

		Cmd.Flags().StringVarP(&Output, "out", "o", "", "Output workbook (default: <exports_dir>/<vat>/epsilon_<vat>.xlsx)")
	})
}

// setup loads .env and configuration, applies flag overrides and builds the container.
func setup(cmd *cobra.Command, args []string) error {
	config.LoadEnv()

	cfg, err := config.Load(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}
	ApplyFlags(cfg, SharedFlags)

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	AppConfig = cfg
	AppContainer = c
	return nil
}

// ApplyFlags overrides configuration paths with the non-empty flags.
func ApplyFlags(cfg *config.Config, flags CommonFlags) {
	if flags.Credentials != "" {
		cfg.Paths.Credentials = flags.Credentials
	}
	if flags.Settings != "" {
		cfg.Paths.Settings = flags.Settings
	}
	if flags.InvoicesDir != "" {
		cfg.Paths.InvoicesDir = flags.InvoicesDir
	}
	if flags.ExportsDir != "" {
		cfg.Paths.ExportsDir = flags.ExportsDir
	}
}

// GetContainer returns the container built for this invocation, or nil before setup ran.
func GetContainer() *container.Container {
	return AppContainer
}

// GetConfig returns the configuration of this invocation, or nil before setup ran.
func GetConfig() *config.Config {
	return AppConfig
}

// GetLogger returns the container logger, or a default logrus adapter before setup ran.
func GetLogger() logging.Logger {
	if AppContainer == nil {
		return logging.NewLogrusAdapter("info", "text")
	}
	return AppContainer.GetLogger()
}

// PipelineOptions maps the shared flags onto a pipeline run.
func PipelineOptions() pipeline.Options {
	return pipeline.Options{
		VAT:          SharedFlags.VAT,
		InvoicesPath: SharedFlags.Invoices,
		ClientDBPath: SharedFlags.ClientDB,
	}
}

// NewPipeline builds a pipeline on the current container.
func NewPipeline() (*pipeline.Pipeline, error) {
	if AppContainer == nil {
		return nil, fmt.Errorf("container not initialized")
	}
	return pipeline.New(AppContainer), nil
}
