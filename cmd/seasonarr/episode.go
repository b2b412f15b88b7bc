package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) episodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "episode",
		Aliases: []string{"ep"},
		Short:   "Edit the episodes of a season",
		Long: `Edit the episodes of a season of the selected series.

Seasons and episodes are addressed by position, starting at 1.`,
	}
	cmd.AddCommand(
		a.episodeEditCmd(),
		&cobra.Command{
			Use:   "delete <season> <episode>",
			Short: "Delete an episode; later episodes are renumbered",
			Args:  cobra.ExactArgs(2),
			RunE:  a.runEpisodeDelete,
		},
		&cobra.Command{
			Use:   "move <season> <from> <to>",
			Short: "Move an episode within its season",
			Args:  cobra.ExactArgs(3),
			RunE:  a.runEpisodeMove,
		},
		&cobra.Command{
			Use:   "clean <season> <episode>",
			Short: "Clean the title of an episode",
			Args:  cobra.ExactArgs(2),
			RunE:  a.runEpisodeClean,
		},
	)
	return cmd
}

// withEpisode is withSeason plus an episode position.
func (a *app) withEpisode(cmd *cobra.Command, args []string, fn func(s *session, si, ei int) error) error {
	ei, err := parsePosition(args[1], "episode")
	if err != nil {
		return err
	}
	return a.withSeason(cmd, args[0], func(s *session, si int) error {
		return fn(s, si, ei)
	})
}

func (a *app) episodeEditCmd() *cobra.Command {
	var title, synopsis string
	cmd := &cobra.Command{
		Use:   "edit <season> <episode>",
		Short: "Change the title or synopsis of an episode",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("title") && !cmd.Flags().Changed("synopsis") {
				return fmt.Errorf("nothing to change: set --title or --synopsis")
			}
			return a.withEpisode(cmd, args, func(s *session, si, ei int) error {
				series, _ := s.Current()
				if si < len(series.Seasons) && ei < len(series.Seasons[si].Episodes) {
					ep := series.Seasons[si].Episodes[ei]
					if !cmd.Flags().Changed("title") {
						title = ep.Title
					}
					if !cmd.Flags().Changed("synopsis") {
						synopsis = ep.Synopsis
					}
				}
				if err := s.EditEpisode(si, ei, title, synopsis); err != nil {
					return err
				}
				return a.commit(cmd.Context(), s)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&synopsis, "synopsis", "", "New synopsis")
	return cmd
}

func (a *app) runEpisodeDelete(cmd *cobra.Command, args []string) error {
	return a.withEpisode(cmd, args, func(s *session, si, ei int) error {
		if err := s.DeleteEpisode(si, ei); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Episode %d of season %d deleted\n", ei+1, si+1)
		return a.commit(cmd.Context(), s)
	})
}

func (a *app) runEpisodeMove(cmd *cobra.Command, args []string) error {
	to, err := parsePosition(args[2], "episode")
	if err != nil {
		return err
	}
	return a.withEpisode(cmd, args, func(s *session, si, from int) error {
		if err := s.MoveEpisode(si, from, to); err != nil {
			return err
		}
		return a.commit(cmd.Context(), s)
	})
}

func (a *app) runEpisodeClean(cmd *cobra.Command, args []string) error {
	return a.withEpisode(cmd, args, func(s *session, si, ei int) error {
		cleaned, err := s.CleanEpisodeTitle(cmd.Context(), si, ei)
		if err != nil {
			return err
		}
		if a.jsonOutput {
			printJSON(s.out, map[string]string{"title": cleaned})
		} else {
			fmt.Fprintln(s.out, cleaned)
		}
		return a.commit(cmd.Context(), s)
	})
}
