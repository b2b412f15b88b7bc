package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/seasonarr/internal/editor"
	"github.com/vmunix/seasonarr/internal/merge"
	"github.com/vmunix/seasonarr/internal/progress"
)

// Collision policies for --on-collision.
const (
	collisionAsk     = "ask"
	collisionReplace = "replace"
	collisionKeep    = "keep"
)

func (a *app) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import playlists and videos",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "preview <playlist-url>",
			Short: "List the first titles of a playlist",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runImportPreview,
		},
		a.importPlaylistCmd(),
		a.importVideoCmd(),
	)
	return cmd
}

func (a *app) runImportPreview(cmd *cobra.Command, args []string) error {
	s, err := a.open(cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	res, err := s.Preview(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if a.jsonOutput {
		printJSON(s.out, res)
		return nil
	}

	fmt.Fprintf(s.out, "%d videos\n", res.Total)
	for i, title := range res.Titles {
		fmt.Fprintf(s.out, "  %2d. %s\n", i+1, title)
	}
	if res.Remaining > 0 {
		fmt.Fprintf(s.out, "  ... and %d more\n", res.Remaining)
	}
	return nil
}

type importResultJSON struct {
	Status        merge.Status `json:"status"`
	SeasonNumber  int          `json:"season_number"`
	EpisodesAdded int          `json:"episodes_added"`
	Malformed     int          `json:"malformed_frames,omitempty"`
}

func (a *app) importPlaylistCmd() *cobra.Command {
	var (
		season       int
		descriptions bool
		onCollision  string
	)
	cmd := &cobra.Command{
		Use:   "playlist <playlist-url>",
		Short: "Import a playlist as a season",
		Long: `Import a playlist as a season of the selected series.

The season number defaults to one past the number of existing seasons.
When the series already has a season with that number the import asks
before replacing it, unless --on-collision is replace or keep.

Examples:
  seasonarr import playlist https://www.youtube.com/playlist?list=PL123
  seasonarr import playlist --series bluey --season 3 --descriptions URL`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decider, err := collisionDecider(onCollision, cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			s, err := a.open(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			series, err := a.target(ctx, s)
			if err != nil {
				return err
			}

			onProgress := func(progress.Snapshot) {}
			p := &progressPrinter{w: s.errOut}
			if !a.jsonOutput {
				onProgress = p.print
			}
			res, err := s.Import(ctx, editor.ImportRequest{
				URL:               args[0],
				SeriesID:          series.ID,
				SeasonNumber:      season,
				FetchDescriptions: descriptions,
			}, onProgress, decider)
			p.finish()
			if err != nil {
				return err
			}
			if err := a.commit(ctx, s); err != nil {
				return err
			}

			if a.jsonOutput {
				printJSON(s.out, importResultJSON{
					Status:        res.Status,
					SeasonNumber:  res.SeasonNumber,
					EpisodesAdded: res.EpisodesAdded,
					Malformed:     res.Malformed,
				})
				return nil
			}
			if res.Malformed > 0 {
				fmt.Fprintf(s.errOut, "Skipped %d malformed frames\n", res.Malformed)
			}
			fmt.Fprintf(s.out, "Season %d: %s (%d episodes)\n", res.SeasonNumber, res.Status, res.EpisodesAdded)
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&season, "season", 0, "Season number (default: next free)")
	f.BoolVar(&descriptions, "descriptions", false, "Extract every video to fetch synopses (slower)")
	f.StringVar(&onCollision, "on-collision", collisionAsk, "When the season exists: ask, replace or keep")
	return cmd
}

func (a *app) importVideoCmd() *cobra.Command {
	var position int
	cmd := &cobra.Command{
		Use:   "video <video-url>",
		Short: "Append a single video to a season",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			series, err := a.target(ctx, s)
			if err != nil {
				return err
			}
			si := position - 1
			if position == 0 {
				si = len(series.Seasons) - 1
			}
			if si < 0 {
				return fmt.Errorf("series %q has no seasons to add to", series.ID)
			}

			ep, err := s.ImportVideo(ctx, args[0], si)
			if err != nil {
				return err
			}
			if err := a.commit(ctx, s); err != nil {
				return err
			}
			if a.jsonOutput {
				printJSON(s.out, ep)
				return nil
			}
			fmt.Fprintf(s.out, "Added episode %d to season %d: %s\n", ep.EpisodeNumber, si+1, ep.Title)
			return nil
		},
	}
	cmd.Flags().IntVar(&position, "season", 0, "Season position (default: last)")
	return cmd
}

func collisionDecider(policy string, in io.Reader, out io.Writer) (merge.Decider, error) {
	switch policy {
	case collisionAsk:
		return promptDecider(in, out), nil
	case collisionReplace:
		return merge.AlwaysReplace, nil
	case collisionKeep:
		return merge.AlwaysAbort, nil
	default:
		return nil, fmt.Errorf("invalid --on-collision %q: want ask, replace or keep", policy)
	}
}

// promptDecider asks on out and reads the answer from in. Anything but yes
// keeps the existing season.
func promptDecider(in io.Reader, out io.Writer) merge.Decider {
	reader := bufio.NewReader(in)
	return merge.DeciderFunc(func(ctx context.Context, c merge.Collision) (merge.Decision, error) {
		fmt.Fprintf(out, "\nSeason %d of %s already has %d episodes. Replace it with %d imported episodes? [y/N]: ",
			c.Existing.SeasonNumber, c.SeriesTitle, len(c.Existing.Episodes), len(c.Incoming.Episodes))

		input, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return merge.Abort, fmt.Errorf("read answer: %w", err)
		}
		if ctx.Err() != nil {
			return merge.Abort, ctx.Err()
		}
		switch strings.ToLower(strings.TrimSpace(input)) {
		case "y", "yes":
			return merge.Replace, nil
		}
		return merge.Abort, nil
	})
}
