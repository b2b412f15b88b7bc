package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) seasonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "season",
		Short: "Edit the seasons of the selected series",
		Long: `Edit the seasons of the selected series.

Seasons are addressed by their position as shown by 'series show',
starting at 1.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "toggle <position>",
			Short: "Expand or collapse a season in 'series show'",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runSeasonToggle,
		},
		&cobra.Command{
			Use:   "rename <position> <title>",
			Short: "Set the title of a season",
			Args:  cobra.MinimumNArgs(2),
			RunE:  a.runSeasonRename,
		},
		&cobra.Command{
			Use:   "delete <position>",
			Short: "Delete a season and its episodes",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runSeasonDelete,
		},
		&cobra.Command{
			Use:   "move <from> <to>",
			Short: "Move a season to another position",
			Args:  cobra.ExactArgs(2),
			RunE:  a.runSeasonMove,
		},
		&cobra.Command{
			Use:   "clean <position>",
			Short: "Clean every episode title of a season",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runSeasonClean,
		},
	)
	return cmd
}

// withSeason opens a loaded session on the target series and parses the
// season position argument.
func (a *app) withSeason(cmd *cobra.Command, arg string, fn func(s *session, si int) error) error {
	si, err := parsePosition(arg, "season")
	if err != nil {
		return err
	}
	s, err := a.open(cmd, true)
	if err != nil {
		return err
	}
	defer s.Close()

	if _, err := a.target(cmd.Context(), s); err != nil {
		return err
	}
	return fn(s, si)
}

func (a *app) runSeasonToggle(cmd *cobra.Command, args []string) error {
	return a.withSeason(cmd, args[0], func(s *session, si int) error {
		open, err := s.ToggleSeason(cmd.Context(), si)
		if err != nil {
			return err
		}
		state := "collapsed"
		if open {
			state = "expanded"
		}
		fmt.Fprintf(s.out, "Season %d %s\n", si+1, state)
		return nil
	})
}

func (a *app) runSeasonRename(cmd *cobra.Command, args []string) error {
	return a.withSeason(cmd, args[0], func(s *session, si int) error {
		if err := s.UpdateSeasonTitle(si, strings.Join(args[1:], " ")); err != nil {
			return err
		}
		return a.commit(cmd.Context(), s)
	})
}

func (a *app) runSeasonDelete(cmd *cobra.Command, args []string) error {
	return a.withSeason(cmd, args[0], func(s *session, si int) error {
		if err := s.DeleteSeason(cmd.Context(), si); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Season %d deleted\n", si+1)
		return a.commit(cmd.Context(), s)
	})
}

func (a *app) runSeasonMove(cmd *cobra.Command, args []string) error {
	to, err := parsePosition(args[1], "season")
	if err != nil {
		return err
	}
	return a.withSeason(cmd, args[0], func(s *session, from int) error {
		if err := s.MoveSeason(cmd.Context(), from, to); err != nil {
			return err
		}
		return a.commit(cmd.Context(), s)
	})
}

func (a *app) runSeasonClean(cmd *cobra.Command, args []string) error {
	return a.withSeason(cmd, args[0], func(s *session, si int) error {
		n, err := s.CleanSeasonTitles(cmd.Context(), si)
		if err != nil {
			return err
		}
		if a.jsonOutput {
			printJSON(s.out, map[string]int{"cleaned": n})
		}
		return a.commit(cmd.Context(), s)
	})
}
