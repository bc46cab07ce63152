package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/app"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/tui/components"
)

func newProfileCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit your recommendation profile",
	}

	var asJSON bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Show your profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.App(cmd)
			if err != nil {
				return err
			}
			page, err := a.LoadProfile(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, map[string]any{"profile": page.Profile, "basic_profile": page.Basic})
			}
			printProfile(cmd.OutOrStdout(), page)
			return nil
		},
	}
	show.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	cmd.AddCommand(show, newProfileEditCommand(e), newBasicProfileCommand(e))
	return cmd
}

func printProfile(out io.Writer, page app.ProfilePage) {
	fmt.Fprintln(out, headingStyle.Render("Profile"))
	if b := page.Basic; b != nil {
		field(out, "Name", orDash(b.FullName))
		field(out, "Username", orDash(b.Username))
		field(out, "Organization", orDash(b.Organization))
		field(out, "Field of study", orDash(b.FieldOfStudy))
		field(out, "Phone", orDash(b.Phone))
	}
	field(out, "Email", page.User.Email)

	fmt.Fprintln(out)
	p := page.Profile
	if p == nil {
		fmt.Fprintln(out, "No recommendation profile yet. Run `recsys profile edit` to create one.")
		return
	}
	field(out, "Skill level", p.SkillLevel)
	field(out, "GitHub", orDash(p.GitHubUsername))
	field(out, "Interests", orDash(strings.Join(p.Interests, ", ")))
	field(out, "Project types", orDash(strings.Join(p.PreferredProjectTypes, ", ")))
	field(out, "Bio", orDash(p.Bio))
	if len(p.Skills) == 0 {
		return
	}
	t := newTable("Skill", "Category", "Proficiency")
	for _, s := range p.SortedSkills() {
		name, category := s.Name, ""
		if skill, ok := core.LookupSkill(s.SkillID); ok {
			name, category = skill.Name, skill.Category
		}
		t.Row(name, category, stars(s.Proficiency))
	}
	fmt.Fprintln(out, t.Render())
}

// ProfileOptions holds the profile edit flags.
type ProfileOptions struct {
	Level     string
	Bio       string
	GitHub    string
	Interests string
	Types     string
	Skills    []string
}

func newProfileEditCommand(e *env) *cobra.Command {
	opts := &ProfileOptions{}

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Create or update your recommendation profile",
		Long: `Create or update the profile used to compute project matches. Without
flags an interactive form is shown. Skills are given as NAME=PROFICIENCY
with proficiency from 1 to 5; --skill replaces the whole skill list.`,
		Example: `  recsys profile edit --level beginner --skill Python=4 --skill "Machine Learning=2"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.App(cmd)
			if err != nil {
				return err
			}
			page, err := a.LoadProfile(cmd.Context())
			if err != nil {
				return err
			}
			p := core.Profile{SkillLevel: core.LevelIntermediate}
			if page.Profile != nil {
				p = *page.Profile
			}

			if !anyChanged(cmd, "level", "bio", "github", "interests", "types", "skill") {
				if err := profileForm(&p); err != nil {
					return err
				}
			} else if err := applyProfileFlags(cmd, opts, &p); err != nil {
				return err
			}

			if err := a.SaveProfile(cmd.Context(), p); err != nil {
				return fmt.Errorf("save profile: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Profile saved")
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Level, "level", "", "Skill level (beginner, intermediate, advanced)")
	cmd.Flags().StringVar(&opts.Bio, "bio", "", "Short bio")
	cmd.Flags().StringVar(&opts.GitHub, "github", "", "GitHub username")
	cmd.Flags().StringVar(&opts.Interests, "interests", "", "Comma separated interests")
	cmd.Flags().StringVar(&opts.Types, "types", "", "Comma separated preferred project types")
	cmd.Flags().StringArrayVar(&opts.Skills, "skill", nil, "Skill as NAME=PROFICIENCY (repeatable)")

	return cmd
}

func applyProfileFlags(cmd *cobra.Command, opts *ProfileOptions, p *core.Profile) error {
	flags := cmd.Flags()
	if flags.Changed("level") {
		level, err := core.ParseSkillLevel(opts.Level)
		if err != nil {
			return err
		}
		p.SkillLevel = level
	}
	if flags.Changed("bio") {
		p.Bio = opts.Bio
	}
	if flags.Changed("github") {
		p.GitHubUsername = opts.GitHub
	}
	if flags.Changed("interests") {
		p.Interests = core.SplitList(opts.Interests)
	}
	if flags.Changed("types") {
		p.PreferredProjectTypes = core.SplitList(opts.Types)
	}
	if flags.Changed("skill") {
		skills, err := core.ParseProfileSkills(opts.Skills)
		if err != nil {
			return err
		}
		p.Skills = skills
	}
	return p.Validate()
}

func profileForm(p *core.Profile) error {
	form := components.NewProfileForm(p)
	if err := form.Run(); err != nil {
		return err
	}
	return form.Apply()
}

func newBasicProfileCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "basic",
		Short: "Show or edit your personal details",
	}

	var asJSON bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Show your personal details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.App(cmd)
			if err != nil {
				return err
			}
			page, err := a.LoadProfile(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, page.Basic)
			}
			if page.Basic == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No personal details yet. Run `recsys profile basic edit`.")
				return nil
			}
			out := cmd.OutOrStdout()
			b := page.Basic
			field(out, "Name", orDash(b.FullName))
			field(out, "Username", orDash(b.Username))
			field(out, "Organization", orDash(b.Organization))
			field(out, "Field of study", orDash(b.FieldOfStudy))
			field(out, "Phone", orDash(b.Phone))
			field(out, "Picture", orDash(b.ProfilePic))
			return nil
		},
	}
	show.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	var in core.BasicProfile
	edit := &cobra.Command{
		Use:   "edit",
		Short: "Update your personal details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.App(cmd)
			if err != nil {
				return err
			}
			page, err := a.LoadProfile(cmd.Context())
			if err != nil {
				return err
			}
			b := core.BasicProfile{}
			if page.Basic != nil {
				b = *page.Basic
			}

			if !anyChanged(cmd, "name", "username", "organization", "field", "phone", "picture") {
				if err := components.NewBasicProfileForm(&b).Run(); err != nil {
					return err
				}
			} else {
				for name, f := range map[string]struct{ dst, src *string }{
					"name":         {&b.FullName, &in.FullName},
					"username":     {&b.Username, &in.Username},
					"organization": {&b.Organization, &in.Organization},
					"field":        {&b.FieldOfStudy, &in.FieldOfStudy},
					"phone":        {&b.Phone, &in.Phone},
					"picture":      {&b.ProfilePic, &in.ProfilePic},
				} {
					if cmd.Flags().Changed(name) {
						*f.dst = *f.src
					}
				}
			}

			if err := a.SaveBasicProfile(cmd.Context(), b); err != nil {
				return fmt.Errorf("save personal details: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Personal details saved")
			return nil
		},
	}
	edit.Flags().StringVar(&in.FullName, "name", "", "Full name")
	edit.Flags().StringVar(&in.Username, "username", "", "Username")
	edit.Flags().StringVar(&in.Organization, "organization", "", "Organization")
	edit.Flags().StringVar(&in.FieldOfStudy, "field", "", "Field of study")
	edit.Flags().StringVar(&in.Phone, "phone", "", "Phone number")
	edit.Flags().StringVar(&in.ProfilePic, "picture", "", "Profile picture URL")

	cmd.AddCommand(show, edit)
	return cmd
}
