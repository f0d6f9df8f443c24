package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/messages"
	"github.com/throughnateseyes/playbook/internal/logger"
)

// ErrNotTerminal is returned when the TUI is started without a terminal.
var ErrNotTerminal = errors.New("tui requires an interactive terminal")

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for Playbook.

Browse SOPs by category, search titles and sections as you type, and
read an SOP with every match highlighted.

Controls:
  Ctrl+K, /   - Open the palette
  s           - Search inline
  f           - Filter the list
  ↑/k, ↓/j    - Navigate
  Enter       - Open / Next match
  N           - Previous match
  p           - Pin or unpin
  ,           - Settings
  Esc         - Back / Cancel
  ?           - Toggle help
  q           - Quit

Use --watch to import SOP files from a directory while the TUI runs.`,
	RunE: runTUI,
}

// isTerminal reports whether stdin and stdout are attached to a terminal.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func init() {
	tuiCmd.Flags().String("watch", "", "directory of SOP files to import on change")
	rootCmd.AddCommand(tuiCmd)
}

// newTUIPorts builds TUI ports from the configured services.
func newTUIPorts() *tui.Ports {
	return tui.NewPorts(sopService, searchService, settingsService)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("tui panicked: %v", r)
		}
	}()

	app, err := tui.NewApp(newTUIPorts())
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if !isTerminal() {
		return ErrNotTerminal
	}

	if logger.IsVerbose() {
		restore, err := logger.ToFile(filepath.Join(os.TempDir(), "playbook-debug.log"))
		if err != nil {
			return err
		}
		defer restore()
	}

	watchDir, err := cmd.Flags().GetString("watch")
	if err != nil {
		return fmt.Errorf("getting watch flag: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	app.WithContext(ctx)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	if watchDir != "" {
		watcher, err := startWatch(ctx, watchDir)
		if err != nil {
			return err
		}
		defer watcher.Close()
		go func() {
			if err := watcher.Sync(ctx, sopService); err != nil && ctx.Err() == nil {
				logger.Warn("Watching %s stopped: %v", watchDir, err)
			}
		}()
	}

	// Registered after the initial import: Send blocks until the program runs.
	sopService.OnChange(func() {
		p.Send(messages.SOPsChanged{})
	})

	logger.Debug("Starting TUI for workspace %q", globalOpts.Workspace)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
