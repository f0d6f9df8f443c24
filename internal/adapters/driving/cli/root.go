// Package cli provides the command-line interface for Playbook.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/throughnateseyes/playbook/internal/core/ports/driving"
	"github.com/throughnateseyes/playbook/internal/logger"
)

var (
	version = "dev"

	sopService      driving.SOPService
	searchService   driving.SearchService
	settingsService driving.SettingsService

	serviceFactory ServiceFactory
	closeServices  func() error

	globalOpts Options
)

// Options are the global flags that influence how services are built.
type Options struct {
	// Verbose enables debug logging.
	Verbose bool

	// Workspace overrides the configured workspace.
	Workspace string

	// Backend overrides the configured storage backend.
	Backend string

	// ConfigDir overrides the directory holding config.toml.
	ConfigDir string

	// DataDir overrides the storage data directory.
	DataDir string
}

// Services is the set of core services the commands drive.
type Services struct {
	SOP      driving.SOPService
	Search   driving.SearchService
	Settings driving.SettingsService

	// Close releases storage. May be nil.
	Close func() error
}

// ServiceFactory builds services once the global flags are parsed.
type ServiceFactory func(ctx context.Context, opts Options) (*Services, error)

var rootCmd = &cobra.Command{
	Use:   "playbook",
	Short: "Search and manage standard operating procedures",
	Long: `Playbook keeps a workspace of standard operating procedures (SOPs) and
finds the right one, and the right step inside it, as you type.

Run 'playbook tui' for the interactive interface or 'playbook mcp serve'
to expose the collection to AI assistants.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setupServices,
	PersistentPostRunE: teardownServices,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&globalOpts.Verbose, "verbose", "v", false, "print debug logging to stderr")
	flags.StringVarP(&globalOpts.Workspace, "workspace", "w", "", "workspace to operate on")
	flags.StringVar(&globalOpts.Backend, "backend", "", "storage backend (sqlite, memory)")
	flags.StringVar(&globalOpts.ConfigDir, "config-dir", "", "config directory (default ~/.playbook)")
	flags.StringVar(&globalOpts.DataDir, "data-dir", "", "data directory (default ~/.playbook/data)")
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	version = v
}

// SetServiceFactory registers the function that builds services before a
// command runs.
func SetServiceFactory(factory ServiceFactory) {
	serviceFactory = factory
}

// SetServices injects ready-made services. Used by tests and embedders.
func SetServices(s *Services) {
	if s == nil {
		sopService, searchService, settingsService, closeServices = nil, nil, nil, nil
		return
	}
	sopService = s.SOP
	searchService = s.Search
	settingsService = s.Settings
	closeServices = s.Close
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	// PersistentPostRunE is skipped when a command fails.
	if closeErr := teardownServices(rootCmd, nil); closeErr != nil {
		return errors.Join(err, closeErr)
	}
	return err
}

func setupServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(globalOpts.Verbose)

	if serviceFactory == nil || sopService != nil {
		return nil
	}

	logger.Section("Startup")
	services, err := serviceFactory(cmd.Context(), globalOpts)
	if err != nil {
		return err
	}
	SetServices(services)
	return nil
}

func teardownServices(_ *cobra.Command, _ []string) error {
	if closeServices == nil {
		return nil
	}
	closer := closeServices
	closeServices = nil
	return closer()
}
