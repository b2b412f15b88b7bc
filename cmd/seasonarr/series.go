package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/seasonarr/internal/catalog"
)

var seriesFields = []string{"title", "original_title", "studio", "synopsis", "release_year", "banner", "logo"}

func (a *app) seriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "series",
		Aliases: []string{"s"},
		Short:   "List, show, select and create series",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all series",
			Args:  cobra.NoArgs,
			RunE:  a.runSeriesList,
		},
		&cobra.Command{
			Use:   "show [id-or-title]",
			Short: "Show a series with its seasons",
			Long: `Show a series with its seasons. Expanded seasons (see 'season toggle')
also list their episodes.

Without an argument the selected series is shown.`,
			Args: cobra.MaximumNArgs(1),
			RunE: a.runSeriesShow,
		},
		&cobra.Command{
			Use:   "select <id-or-title>",
			Short: "Select the series later commands work on",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runSeriesSelect,
		},
		&cobra.Command{
			Use:   "set <field> <value>",
			Short: "Set a field of the selected series",
			Long: `Set a field of the selected series.

Fields: ` + strings.Join(seriesFields, ", "),
			Args:      cobra.ExactArgs(2),
			ValidArgs: seriesFields,
			RunE:      a.runSeriesSet,
		},
		a.seriesCreateCmd(),
	)
	return cmd
}

func (a *app) runSeriesList(cmd *cobra.Command, _ []string) error {
	s, err := a.open(cmd, true)
	if err != nil {
		return err
	}
	defer s.Close()

	series := s.Store().List()
	if a.jsonOutput {
		printJSON(s.out, series)
		return nil
	}
	current, _ := s.Current()
	printSeriesTable(s.out, series, current.ID)
	return nil
}

func (a *app) runSeriesShow(cmd *cobra.Command, args []string) error {
	s, err := a.open(cmd, true)
	if err != nil {
		return err
	}
	defer s.Close()

	var series catalog.Series
	if len(args) == 1 {
		series, err = s.Select(cmd.Context(), args[0])
	} else {
		series, err = a.target(cmd.Context(), s)
	}
	if err != nil {
		return err
	}

	if a.jsonOutput {
		printJSON(s.out, series)
		return nil
	}
	printSeries(s.out, series, s.ExpandedSeasons())
	return nil
}

func (a *app) runSeriesSelect(cmd *cobra.Command, args []string) error {
	s, err := a.open(cmd, true)
	if err != nil {
		return err
	}
	defer s.Close()

	series, err := s.Select(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if a.jsonOutput {
		printJSON(s.out, series)
		return nil
	}
	fmt.Fprintf(s.out, "Selected %s (%s)\n", series.Title, series.ID)
	return nil
}

func (a *app) runSeriesSet(cmd *cobra.Command, args []string) error {
	s, err := a.open(cmd, true)
	if err != nil {
		return err
	}
	defer s.Close()

	if _, err := a.target(cmd.Context(), s); err != nil {
		return err
	}
	if err := s.UpdateSeriesField(args[0], args[1]); err != nil {
		return err
	}
	return a.commit(cmd.Context(), s)
}

func (a *app) seriesCreateCmd() *cobra.Command {
	var (
		draft   catalog.Series
		channel string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a series",
		Long: `Create a series and select it.

With --channel the id, title and logo are prefilled from the channel
behind the URL; explicit flags override the prefilled values.

Examples:
  seasonarr series create --id bluey --title "Bluey"
  seasonarr series create --channel https://www.youtube.com/@BlueyOfficial`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.open(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			if channel != "" {
				prefilled, err := s.DraftFromSource(ctx, channel)
				if err != nil {
					return err
				}
				draft = mergeDraft(prefilled, draft)
			}
			series, err := s.CreateSeries(ctx, draft)
			if err != nil {
				return err
			}
			if err := a.commit(ctx, s); err != nil {
				return err
			}

			if a.jsonOutput {
				printJSON(s.out, series)
				return nil
			}
			fmt.Fprintf(s.out, "Created %s (%s)\n", series.Title, series.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&draft.ID, "id", "", "Series id")
	f.StringVar(&draft.Title, "title", "", "Title")
	f.StringVar(&draft.OriginalTitle, "original-title", "", "Original title (default: title)")
	f.StringVar(&draft.Studio, "studio", "", "Studio")
	f.IntVar(&draft.ReleaseYear, "year", 0, "Release year (default: current year)")
	f.StringSliceVar(&draft.Genres, "genre", nil, "Genre (repeatable)")
	f.StringSliceVar(&draft.Values, "value", nil, "Value tag (repeatable)")
	f.StringVar(&draft.Synopsis, "synopsis", "", "Synopsis")
	f.StringVar(&draft.Images.Banner, "banner", "", "Banner image URL")
	f.StringVar(&draft.Images.Logo, "logo", "", "Logo image URL")
	f.StringVar(&channel, "channel", "", "Prefill from a channel URL")
	return cmd
}

// mergeDraft overlays the non-empty fields of explicit onto base.
func mergeDraft(base, explicit catalog.Series) catalog.Series {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&base.ID, explicit.ID)
	set(&base.Title, explicit.Title)
	set(&base.OriginalTitle, explicit.OriginalTitle)
	set(&base.Studio, explicit.Studio)
	set(&base.Synopsis, explicit.Synopsis)
	set(&base.Images.Banner, explicit.Images.Banner)
	set(&base.Images.Logo, explicit.Images.Logo)
	if explicit.ReleaseYear != 0 {
		base.ReleaseYear = explicit.ReleaseYear
	}
	if len(explicit.Genres) > 0 {
		base.Genres = explicit.Genres
	}
	if len(explicit.Values) > 0 {
		base.Values = explicit.Values
	}
	return base
}
