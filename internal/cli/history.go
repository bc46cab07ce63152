package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
)

func newHistoryCommand(e *env) *cobra.Command {
	var (
		kind   string
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List your interactions with projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var k core.InteractionKind
			if kind != "" && kind != "all" {
				parsed, err := core.ParseInteractionKind(kind)
				if err != nil {
					return err
				}
				k = parsed
			}
			a, err := e.App(cmd)
			if err != nil {
				return err
			}

			page, err := a.LoadHistory(cmd.Context(), k, limit)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, page)
			}

			out := cmd.OutOrStdout()
			counts := make([]string, 0, len(core.AllKinds()))
			for _, kind := range core.AllKinds() {
				counts = append(counts, fmt.Sprintf("%s %d", kind, page.Stats.Count(kind)))
			}
			fmt.Fprintf(out, "%d interactions: %s\n", page.Stats.TotalInteractions, strings.Join(counts, ", "))

			if len(page.Interactions.Interactions) == 0 {
				fmt.Fprintln(out, "No interactions yet")
				return nil
			}
			t := newTable("ID", "Project", "Title", "Type", "Rating", "When")
			for _, rec := range page.Interactions.Interactions {
				rating := "-"
				if rec.HasRating() {
					rating = stars(*rec.Rating)
				}
				t.Row(strconv.FormatInt(rec.ID, 10), strconv.FormatInt(rec.ProjectID, 10),
					truncate(orDash(rec.ProjectTitle), 40), string(rec.Kind), rating, ago(rec.CreatedAt.Time))
			}
			fmt.Fprintln(out, t.Render())
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "type", "t", "", "Only this interaction type (viewed, bookmarked, started, completed)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Number of records (max 100)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Delete an interaction record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid interaction id %q", args[0])
			}
			a, err := e.App(cmd)
			if err != nil {
				return err
			}
			if err := a.DeleteInteraction(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted interaction %d\n", id)
			return nil
		},
	})

	return cmd
}

func newStatsCommand(e *env) *cobra.Command {
	var summary, asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show your interaction statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.App(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if summary {
				s, err := a.ActivitySummary(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd, s)
				}
				field(out, "Interactions", s.TotalInteractions)
				field(out, "Viewed", s.ProjectsViewed)
				field(out, "Bookmarked", s.ProjectsBookmarked)
				field(out, "Started", s.ProjectsStarted)
				field(out, "Completed", s.ProjectsCompleted)
				field(out, "Completion", fmt.Sprintf("%.0f%%", s.CompletionRate))
				if s.AvgRating != nil {
					field(out, "Average rating", fmt.Sprintf("%.1f", *s.AvgRating))
				}
				field(out, "Learning hours", s.TotalLearningHours)
				field(out, "Skills", s.SkillsCount)
				if s.MostActiveCategory != nil {
					field(out, "Most active in", *s.MostActiveCategory)
				}
				field(out, "Last 7 days", s.RecentActivity7d)
				return nil
			}

			s, err := a.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, s)
			}
			field(out, "Interactions", s.TotalInteractions)
			for _, k := range core.AllKinds() {
				field(out, strings.ToUpper(string(k[:1]))+string(k[1:]), s.Count(k))
			}
			if s.AverageRating != nil {
				field(out, "Average rating", fmt.Sprintf("%.1f", *s.AverageRating))
			}
			field(out, "Last 30 days", s.RecentActivity30d)
			return nil
		},
	}

	cmd.Flags().BoolVar(&summary, "summary", false, "Show the activity summary instead")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newBookmarksCommand(e *env) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "bookmarks",
		Short: "List your bookmarked projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.App(cmd)
			if err != nil {
				return err
			}
			list, err := a.Bookmarks(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, list)
			}

			out := cmd.OutOrStdout()
			if len(list.Bookmarks) == 0 {
				fmt.Fprintln(out, "No bookmarks yet")
				return nil
			}
			t := newTable("Project", "Title", "Difficulty", "Source", "Bookmarked")
			for _, b := range list.Bookmarks {
				t.Row(strconv.FormatInt(b.ProjectID, 10), truncate(b.Title, 50), orDash(b.Difficulty),
					core.Source(b.Source).DisplayName(), ago(b.BookmarkedAt.Time))
			}
			fmt.Fprintln(out, t.Render())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
