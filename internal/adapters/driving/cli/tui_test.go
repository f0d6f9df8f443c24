package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTUICmd_Exists(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"tui"})

	require.NoError(t, err)
	assert.Equal(t, "tui", cmd.Name())
}

func TestTUICmd_ShortDescription(t *testing.T) {
	assert.Equal(t, "Launch the interactive terminal UI", tuiCmd.Short)
}

func TestTUICmd_LongDescription(t *testing.T) {
	assert.Contains(t, tuiCmd.Long, "Playbook")
	assert.Contains(t, tuiCmd.Long, "Ctrl+K")
	assert.Contains(t, tuiCmd.Long, "--watch")
}

func TestTUICmd_WatchFlag(t *testing.T) {
	flag := tuiCmd.Flags().Lookup("watch")

	require.NotNil(t, flag)
	assert.Equal(t, "", flag.DefValue)
}

func TestTUICmd_HelpOutput(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"tui", "--help"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "interactive terminal user interface")
}

func TestNewTUIPorts(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	ports := newTUIPorts()

	assert.NoError(t, ports.Validate())
	assert.Equal(t, sopService, ports.SOP)
	assert.Equal(t, searchService, ports.Search)
	assert.Equal(t, settingsService, ports.Settings)
}

func TestRunTUI_MissingServices(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	sopService = nil

	err := runTUI(tuiCmd, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create TUI")
}

func TestRunTUI_NotATerminal(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	oldIsTerminal := isTerminal
	isTerminal = func() bool { return false }
	defer func() { isTerminal = oldIsTerminal }()

	err := runTUI(&cobra.Command{}, nil)

	assert.ErrorIs(t, err, ErrNotTerminal)
}
