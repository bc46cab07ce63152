package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/app"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/history"
)

// SearchOptions holds options for the search command.
type SearchOptions struct {
	Difficulty string
	Source     string
	Semantic   bool
	Limit      int
	Link       string
	JSON       bool
	Copy       bool
}

// newSearchCommand creates the search command.
func newSearchCommand(e *env) *cobra.Command {
	opts := &SearchOptions{}

	cmd := &cobra.Command{
		Use:   "search [QUERY]",
		Short: "Search projects",
		Long: `Search the project catalogue. Semantic search ranks by meaning and is the
default; --semantic=false falls back to keyword matching. Kaggle sources
use keyword matching unless --semantic is given.

Every search prints a share link that reproduces it, and --link runs a
shared link.`,
		Example: `  recsys search "react dashboard" --difficulty beginner
  recsys search titanic --source kaggle_competition
  recsys search --link "http://localhost:3000/projects/search?q=nlp&semantic=true"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.App(cmd)
			if err != nil {
				return err
			}
			q, err := buildQuery(cmd, a, opts, args)
			if err != nil {
				return err
			}

			page, err := a.Search(cmd.Context(), q)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			return outputSearch(cmd, page, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Difficulty, "difficulty", "d", "", "Filter by difficulty (beginner, intermediate, advanced)")
	cmd.Flags().StringVarP(&opts.Source, "source", "s", "", "Filter by source (github, kaggle_competition, kaggle_dataset, curated)")
	cmd.Flags().BoolVar(&opts.Semantic, "semantic", true, "Use semantic search")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "Maximum results (1-100)")
	cmd.Flags().StringVar(&opts.Link, "link", "", "Run the search encoded in a share link")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&opts.Copy, "copy", false, "Copy the share link to the clipboard")

	return cmd
}

func buildQuery(cmd *cobra.Command, a *app.App, opts *SearchOptions, args []string) (core.SearchQuery, error) {
	q := a.DefaultQuery()

	if opts.Link != "" {
		linked, err := core.ParseSearchLink(opts.Link)
		if err != nil {
			return core.SearchQuery{}, err
		}
		linked.Limit = q.Limit
		q = linked
	}

	if len(args) > 0 {
		q.Text = strings.Join(args, " ")
	}
	if cmd.Flags().Changed("difficulty") {
		d, err := core.ParseDifficulty(opts.Difficulty)
		if err != nil {
			return core.SearchQuery{}, err
		}
		q.Difficulty = d
	}
	if cmd.Flags().Changed("source") {
		s, err := core.ParseSource(opts.Source)
		if err != nil {
			return core.SearchQuery{}, err
		}
		q.Source = s
		if s.IsKaggle() && opts.Link == "" {
			q.UseSemantic = false
		}
	}
	if cmd.Flags().Changed("semantic") {
		q.UseSemantic = opts.Semantic
	}
	if cmd.Flags().Changed("limit") {
		q.Limit = opts.Limit
	}
	if err := q.Validate(); err != nil {
		return core.SearchQuery{}, err
	}
	return q, nil
}

func outputSearch(cmd *cobra.Command, page app.SearchPage, opts *SearchOptions) error {
	if opts.Copy {
		if err := clipboard.WriteAll(page.ShareLink); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: copy failed: %v\n", err)
		}
	}
	if opts.JSON {
		return printJSON(cmd, map[string]any{
			"query":       page.Query,
			"search_type": page.Result.SearchType,
			"count":       page.Result.Count,
			"projects":    page.Result.Projects,
			"share_link":  page.ShareLink,
		})
	}

	out := cmd.OutOrStdout()
	if len(page.Result.Projects) == 0 {
		fmt.Fprintln(out, "No projects found")
	} else {
		t := newTable("ID", "Title", "Difficulty", "Source", "Match")
		for _, p := range page.Result.Projects {
			match := "-"
			if p.Similarity != nil {
				match = fmt.Sprintf("%.0f%%", *p.Similarity*100)
			}
			t.Row(strconv.FormatInt(p.ID, 10), truncate(p.Title, 50), orDash(p.Difficulty), p.Source.DisplayName(), match)
		}
		fmt.Fprintln(out, t.Render())
		fmt.Fprintf(out, "%d projects (%s search)\n", page.Result.Count, orDash(page.Result.SearchType))
	}
	fmt.Fprintf(out, "Share: %s\n", page.ShareLink)
	return nil
}

func newSearchesCommand(e *env) *cobra.Command {
	var (
		limit    int
		keep     int
		clearAll bool
		stats    bool
		rerun    string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "searches",
		Short: "List, re-run or forget recent searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.App(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			switch {
			case clearAll:
				if err := a.ClearSearches(ctx); err != nil {
					return err
				}
				fmt.Fprintln(out, "Search history cleared")
				return nil
			case keep > 0:
				n, err := a.PruneSearches(ctx, keep)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Removed %d searches\n", n)
				return nil
			case rerun != "":
				page, err := a.Rerun(ctx, rerun)
				if err != nil {
					return err
				}
				return outputSearch(cmd, page, &SearchOptions{JSON: asJSON})
			case stats:
				s, err := a.SearchStats(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd, s)
				}
				field(out, "Searches", s.TotalEntries)
				field(out, "Runs", s.TotalRuns)
				field(out, "Semantic", s.SemanticCount)
				field(out, "Newest", ago(s.NewestEntry))
				return nil
			}

			entries, err := a.RecentSearches(ctx, limit)
			if err != nil {
				return err
			}
			if asJSON {
				if entries == nil {
					entries = []history.Entry{}
				}
				return printJSON(cmd, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No recent searches")
				return nil
			}
			t := newTable("ID", "When", "Query", "Filters", "Results", "Runs")
			for _, entry := range entries {
				t.Row(entry.ID, ago(entry.Timestamp), orDash(entry.Query.Text),
					entry.Query.Filters(), strconv.Itoa(entry.ResultCount), strconv.Itoa(entry.Runs))
			}
			fmt.Fprintln(out, t.Render())
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of searches to list")
	cmd.Flags().IntVar(&keep, "keep", 0, "Keep only the newest N searches")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Forget all searches")
	cmd.Flags().BoolVar(&stats, "stats", false, "Summarise the search history")
	cmd.Flags().StringVar(&rerun, "run", "", "Re-run the search with this ID")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.MarkFlagsMutuallyExclusive("clear", "keep", "run", "stats")

	return cmd
}
