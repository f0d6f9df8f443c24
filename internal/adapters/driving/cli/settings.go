package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the workspace, storage backend, search timing and
permissions.

Settings are stored in ~/.playbook/config.toml.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change one setting by its key.

Keys:
  workspace                   - workspace whose SOPs are shown
  storage.backend             - sqlite or memory
  storage.data_dir            - directory holding the database
  search.palette_debounce_ms  - palette quiet interval
  search.inline_debounce_ms   - inline dropdown quiet interval
  search.highlight_delay_ms   - delay before scrolling to a match
  search.scroll_offset        - lines kept above a scrolled-to match
  permissions.can_create_sop  - true or false`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Workspace]")
	cmd.Printf("  Name: %s\n", settings.Workspace)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend.Description())
	dataDir := settings.Storage.DataDir
	if dataDir == "" {
		dataDir = "(default)"
	}
	cmd.Printf("  Data dir: %s\n", dataDir)
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Palette debounce: %s\n", settings.Search.PaletteDebounce)
	cmd.Printf("  Inline debounce: %s\n", settings.Search.InlineDebounce)
	cmd.Printf("  Highlight delay: %s\n", settings.Search.HighlightDelay)
	cmd.Printf("  Scroll offset: %d lines\n", settings.Search.ScrollOffset)
	cmd.Println()

	cmd.Println("[Permissions]")
	cmd.Printf("  Create SOPs: %s\n", yesNo(settings.Permissions.CanCreateSOP))

	if pinned := settingsService.Pinned(); len(pinned) > 0 {
		cmd.Println()
		cmd.Println("[Sidebar]")
		cmd.Printf("  Pinned: %v\n", pinned)
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.SetValue(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}

	cmd.Printf("Set %s = %s\n", args[0], args[1])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
