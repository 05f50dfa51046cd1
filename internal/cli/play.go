package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/corbett/minibar/internal/core"
	"github.com/corbett/minibar/internal/engine"
	"github.com/corbett/minibar/internal/engine/audio"
	"github.com/corbett/minibar/internal/engine/video"
	"github.com/corbett/minibar/internal/errors"
	"github.com/corbett/minibar/internal/library"
	"github.com/corbett/minibar/internal/logging"
	"github.com/corbett/minibar/internal/playlist"
	"github.com/corbett/minibar/internal/session"
	"github.com/corbett/minibar/internal/tui"
)

var playCmd = &cobra.Command{
	Use:   "play [files...]",
	Short: "Play media in the mini-player",
	Long: `Play the given audio or video files. With no arguments, pick a
starting track from the configured library interactively.`,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	items, err := resolveItems(args)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return errors.WithSuggestion(errors.ErrNoMedia, "Pass audio/video files, or set library.path in the config")
	}

	factory := engine.Dispatch{
		Audio: &audio.Factory{
			SampleRate: cfg.Engine.SampleRate,
			BufferMs:   cfg.Engine.BufferMs,
		},
		Video: &video.Factory{
			MPVPath:   cfg.Engine.MPVPath,
			SocketDir: cfg.Engine.MPVSocketDir,
		},
	}

	s := session.New(factory,
		session.WithVolume(cfg.Player.Volume),
		session.WithShuffle(cfg.Player.Shuffle),
		session.WithRepeat(cfg.Player.Repeat),
		session.WithGracePeriod(time.Duration(cfg.Player.GraceMs)*time.Millisecond),
	)
	defer s.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pl := playlist.New(items)
	pl.Attach(ctx, s)

	first, _ := pl.Current()
	s.Show(ctx, first)

	// Log lines would tear the rendered frame; route them away from
	// the terminal unless a log file is configured.
	if cfg.Log.File == "" {
		logging.Silence()
	}

	refresh := time.Duration(cfg.TUI.RefreshInterval) * time.Millisecond
	return tui.Run(s, cfg.TUI.Theme, refresh)
}

// resolveItems turns CLI args into media items, or falls back to an
// interactive library pick when there are none.
func resolveItems(args []string) ([]core.MediaItem, error) {
	if len(args) > 0 {
		for _, path := range args {
			if _, err := os.Stat(path); err != nil {
				return nil, fmt.Errorf("%w: %s", errors.ErrMediaNotFound, path)
			}
			if _, ok := library.KindForPath(path); !ok {
				return nil, fmt.Errorf("%w: %s", errors.ErrUnsupportedKind, path)
			}
		}
		return library.ItemsFor(args), nil
	}

	root := cfg.Library.Path
	if root == "" {
		root = "."
	}
	entries, err := library.Scan(root)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	items := lo.Map(entries, func(e library.Entry, _ int) core.MediaItem {
		return e.Item
	})

	start, err := pickStart(items)
	if err != nil {
		return nil, err
	}
	// Rotate so the chosen item plays first; the rest keep their scan
	// order as the playlist.
	return append(items[start:], items[:start]...), nil
}

func pickStart(items []core.MediaItem) (int, error) {
	options := lo.Map(items, func(m core.MediaItem, i int) huh.Option[int] {
		label := fmt.Sprintf("%s  %s", m.DisplayTitle(), kindTag(m.Kind))
		return huh.NewOption(label, i)
	})

	var start int
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[int]().
			Title("Play what?").
			Options(options...).
			Value(&start),
	))
	if err := form.Run(); err != nil {
		return 0, err
	}
	return start, nil
}

func kindTag(k core.Kind) string {
	if k == core.KindVideo {
		return "[video]"
	}
	return "[audio]"
}
