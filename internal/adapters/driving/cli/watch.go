package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Import SOP files from a directory as they change",
	Long: `Imports every *.json file below dir, then keeps watching it and
re-imports files as they are created or modified.

Deleting a file does not delete its SOPs. Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := startWatch(ctx, args[0])
	if err != nil {
		return err
	}
	defer watcher.Close()

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", args[0])
	return watcher.Sync(ctx, sopService)
}
