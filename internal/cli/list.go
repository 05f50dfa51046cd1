package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/corbett/minibar/internal/library"
)

var lsWatch bool

var lsCmd = &cobra.Command{
	Use:   "ls [dir]",
	Short: "List playable media in the library",
	Long: `List every playable file under the library path (or the given
directory). With --watch, keep running and re-list as files change.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLs,
}

func init() {
	lsCmd.Flags().BoolVarP(&lsWatch, "watch", "w", false, "re-list when the library changes")
	rootCmd.AddCommand(lsCmd)
}

func runLs(cmd *cobra.Command, args []string) error {
	root := cfg.Library.Path
	if len(args) == 1 {
		root = args[0]
	}
	if root == "" {
		root = "."
	}

	if err := printLibrary(root); err != nil {
		return err
	}

	if !lsWatch && !cfg.Library.Watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err := library.Watch(ctx, root, func() {
		fmt.Println()
		if err := printLibrary(root); err != nil {
			fmt.Fprintf(os.Stderr, "rescan: %v\n", err)
		}
	})
	if ctx.Err() != nil {
		return nil // interrupted by the user
	}
	return err
}

func printLibrary(root string) error {
	entries, err := library.Scan(root)
	if err != nil {
		return err
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Printf("No playable media under %s\n", root)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tKIND\tSIZE")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			e.Item.ID, e.Item.DisplayTitle(), e.Item.Kind, humanize.Bytes(uint64(e.SizeBytes)))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d items\n", len(entries))
	return nil
}
