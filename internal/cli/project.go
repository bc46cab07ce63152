package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/app"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/tui/components"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/widget"
)

func parseProjectID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid project id %q", s)
	}
	return id, nil
}

func newProjectCommand(e *env) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "project ID",
		Short: "Show a project, how well it matches you and your interactions with it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			a, err := e.App(cmd)
			if err != nil {
				return err
			}

			page, err := a.LoadProject(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("load project: %w", err)
			}

			var state *widget.State
			if page.User != nil {
				w := a.NewWidget(id, nil)
				if err := w.Mount(cmd.Context()); err == nil {
					s := w.State()
					state = &s
				}
			}

			if asJSON {
				out := map[string]any{"project": page.Detail}
				if state != nil {
					out["interactions"] = stateJSON(*state)
				}
				return printJSON(cmd, out)
			}
			printProject(cmd.OutOrStdout(), page)
			if state != nil {
				fmt.Fprintln(cmd.OutOrStdout())
				printState(cmd.OutOrStdout(), *state)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func printProject(out io.Writer, page app.ProjectPage) {
	p := page.Detail
	fmt.Fprintln(out, headingStyle.Render(p.Title))
	field(out, "Source", p.Source.DisplayName())
	field(out, "Difficulty", orDash(p.Difficulty))
	if p.EstimatedHours != nil {
		field(out, "Estimated", fmt.Sprintf("%d hours", *p.EstimatedHours))
	}
	if p.Language != nil {
		field(out, "Language", *p.Language)
	}
	if p.Stars != nil {
		field(out, "Stars", *p.Stars)
	}
	if len(p.Topics) > 0 {
		field(out, "Topics", strings.Join(p.Topics, ", "))
	}
	if p.RepoURL != nil {
		field(out, "Link", *p.RepoURL)
	}
	if desc := components.PlainText(p.Description); desc != "" {
		fmt.Fprintf(out, "\n%s\n", desc)
	}

	if req := p.RequiredSkills(); len(req) > 0 {
		field(out, "\nRequired skills", skillNames(req))
	}
	if opt := p.OptionalSkills(); len(opt) > 0 {
		field(out, "Optional skills", skillNames(opt))
	}

	if m := p.MatchAnalysis; m != nil {
		fmt.Fprintln(out)
		fmt.Fprintln(out, headingStyle.Render(fmt.Sprintf("Match: %d%%", m.ScorePercent())))
		if len(m.MatchingSkills) > 0 {
			field(out, "You have", strings.Join(m.MatchingSkills, ", "))
		}
		if len(m.MissingSkills) > 0 {
			field(out, "To learn", strings.Join(m.MissingSkills, ", "))
		}
		if m.SemanticSimilarity != nil {
			field(out, "Similarity", fmt.Sprintf("%.0f%%", *m.SemanticSimilarity))
		}
		if m.Reason != "" {
			field(out, "Why", m.Reason)
		}
	} else if page.User == nil {
		fmt.Fprintln(out, labelStyle.Render("\nSign in to see how well this project matches your skills."))
	}
}

func skillNames(skills []core.ProjectSkill) string {
	names := make([]string, len(skills))
	for i, s := range skills {
		names[i] = s.Name
	}
	return strings.Join(names, ", ")
}

func printState(out io.Writer, s widget.State) {
	for _, k := range core.AllKinds() {
		f := s.Flag(k)
		mark := "[ ]"
		label := k.Label(false)
		if f.Active {
			mark = activeStyle.Render("[x]")
			label = k.Label(true)
		}
		fmt.Fprintf(out, "%s %s\n", mark, label)
	}
	fmt.Fprintf(out, "Rating: %s\n", stars(s.Rating.Value))
}

func stateJSON(s widget.State) map[string]any {
	flags := make(map[string]any, len(s.Flags))
	for _, k := range core.AllKinds() {
		f := s.Flag(k)
		flags[string(k)] = map[string]any{"active": f.Active, "id": f.RecordID}
	}
	return map[string]any{
		"flags":  flags,
		"rating": map[string]any{"value": s.Rating.Value, "id": s.Rating.RecordID},
	}
}

func newInteractCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interact",
		Short: "Mark projects as viewed, bookmarked, started or completed, and rate them",
	}

	var asJSON bool
	show := &cobra.Command{
		Use:   "show PROJECT",
		Short: "Show your interactions with a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := mountWidget(cmd, e, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, stateJSON(w.State()))
			}
			printState(cmd.OutOrStdout(), w.State())
			return nil
		},
	}
	show.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	toggle := &cobra.Command{
		Use:   "toggle PROJECT KIND",
		Short: "Turn an interaction (viewed, bookmarked, started, completed) on or off",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := core.ParseInteractionKind(args[1])
			if err != nil {
				return err
			}
			w, err := mountWidget(cmd, e, args[0])
			if err != nil {
				return err
			}
			if err := w.Toggle(cmd.Context(), kind); err != nil {
				return err
			}
			printState(cmd.OutOrStdout(), w.State())
			return nil
		},
	}

	rate := &cobra.Command{
		Use:   "rate PROJECT STARS",
		Short: "Rate a project from 1 to 5 stars; repeating the current rating clears it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			star, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid rating %q", args[1])
			}
			w, err := mountWidget(cmd, e, args[0])
			if err != nil {
				return err
			}
			if err := w.Rate(cmd.Context(), star); err != nil {
				return err
			}
			printState(cmd.OutOrStdout(), w.State())
			return nil
		},
	}

	cmd.AddCommand(show, toggle, rate)
	return cmd
}

// mountWidget loads the user's interactions with the project named by arg.
// Notices go to stderr so that stdout carries only the resulting state.
func mountWidget(cmd *cobra.Command, e *env, arg string) (*widget.Widget, error) {
	id, err := parseProjectID(arg)
	if err != nil {
		return nil, err
	}
	a, err := e.App(cmd)
	if err != nil {
		return nil, err
	}
	if _, err := a.RequireUser(cmd.Context()); err != nil {
		return nil, err
	}

	errOut := cmd.ErrOrStderr()
	w := a.NewWidget(id, func(n widget.Notice) {
		fmt.Fprintln(errOut, n.String())
	})
	if err := w.Mount(cmd.Context()); err != nil {
		return nil, err
	}
	return w, nil
}
