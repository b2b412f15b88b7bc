package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/seasonarr/internal/client"
	"github.com/vmunix/seasonarr/internal/events"
)

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			status, err := s.client.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("status check failed: %w", err)
			}
			if a.jsonOutput {
				printJSON(s.out, status)
				return nil
			}

			extractor := "not installed"
			if status.Extractor.Available {
				extractor = "available"
				if status.Extractor.Binary != "" {
					extractor += " (" + status.Extractor.Binary + ")"
				}
			}
			fmt.Fprintf(s.out, "Server:     %s (%s)\n", a.serverURL, status.Status)
			fmt.Fprintf(s.out, "Version:    %s\n", status.Version)
			fmt.Fprintf(s.out, "yt-dlp:     %s\n", extractor)
			fmt.Fprintf(s.out, "Event log:  %t\n", status.EventLog)
			return nil
		},
	}
}

func (a *app) eventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show recent events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			eventType, _ := cmd.Flags().GetString("type")

			s, err := a.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			q := client.EventQuery{Limit: limit, EventType: eventType}
			if a.seriesID != "" {
				q.EntityType, q.EntityID = events.EntitySeries, a.seriesID
			}
			list, err := s.client.Events(cmd.Context(), q)
			if err != nil {
				return fmt.Errorf("failed to fetch events: %w", err)
			}
			if a.jsonOutput {
				printJSON(s.out, list)
				return nil
			}
			if len(list.Items) == 0 {
				fmt.Fprintln(s.out, "No events")
				return nil
			}

			fmt.Fprintf(s.out, "Recent Events (%d):\n\n", list.Total)
			registry := events.DefaultRegistry()
			fmt.Fprintf(s.out, "  %-12s %-18s %-24s %s\n", "TIME", "TYPE", "ENTITY", "DETAIL")
			fmt.Fprintln(s.out, "  "+strings.Repeat("-", 80))
			for _, e := range list.Items {
				t, _ := time.Parse(time.RFC3339, e.OccurredAt)
				entity := e.EntityType + "/" + e.EntityID
				detail := ""
				if decoded, err := registry.Unmarshal(events.RawEvent{EventType: e.EventType, Payload: string(e.Payload)}); err == nil {
					detail = events.Describe(decoded)
				}
				fmt.Fprintf(s.out, "  %-12s %-18s %-24s %s\n", formatTimeAgo(t), e.EventType, truncate(entity, 24), truncate(detail, 40))
			}
			return nil
		},
	}
	cmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	cmd.Flags().String("type", "", "Only show events of this type (e.g. import.completed)")
	cmd.Long = "Show recent events, newest first. With --series only that series' events are shown."
	return cmd
}

func (a *app) cleanTitleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean-title <text>",
		Short: "Clean a title the way episode titles are cleaned",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			text := strings.Join(args, " ")
			cleaned := s.CleanTitle(cmd.Context(), text)
			if a.jsonOutput {
				printJSON(s.out, map[string]string{"title": text, "cleaned": cleaned})
				return nil
			}
			fmt.Fprintln(s.out, cleaned)
			return nil
		},
	}
}
