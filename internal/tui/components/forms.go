package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/app"
	"github.com/rabiazulfiqar1/Content-Based-RS/internal/core"
)

// MinPasswordLength is the shortest password the identity provider accepts.
const MinPasswordLength = 6

func newForm(fields ...huh.Field) *huh.Form {
	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(huh.ThemeDracula()).
		WithShowHelp(true)
}

// Required rejects blank input.
func Required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func password(s string) error {
	if len(s) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// NewLoginForm asks for email and password.
func NewLoginForm(email, pass *string) *huh.Form {
	return newForm(
		huh.NewInput().Title("Email").Value(email).Validate(Required("email")),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(pass).Validate(Required("password")),
	)
}

// NewSignUpForm collects the account details into in.
func NewSignUpForm(in *app.SignUpInput) *huh.Form {
	return newForm(
		huh.NewInput().Title("Full name").Value(&in.FullName).Validate(Required("full name")),
		huh.NewInput().Title("Username").Value(&in.Username).Validate(Required("username")),
		huh.NewInput().Title("Email").Value(&in.Email).Validate(Required("email")),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&in.Password).Validate(password),
		huh.NewInput().Title("Organization").Description("Optional").Value(&in.Organization),
		huh.NewInput().Title("Field of study").Description("Optional").Value(&in.FieldOfStudy),
		huh.NewInput().Title("Phone").Description("Optional").Value(&in.Phone),
	)
}

// NewBasicProfileForm edits b in place.
func NewBasicProfileForm(b *core.BasicProfile) *huh.Form {
	return newForm(
		huh.NewInput().Title("Full name").Value(&b.FullName).Validate(Required("full name")),
		huh.NewInput().Title("Username").Value(&b.Username).Validate(Required("username")),
		huh.NewInput().Title("Organization").Value(&b.Organization),
		huh.NewInput().Title("Field of study").Value(&b.FieldOfStudy),
		huh.NewInput().Title("Phone").Value(&b.Phone),
		huh.NewInput().Title("Profile picture URL").Value(&b.ProfilePic),
	)
}

// ProfileForm edits a recommendation profile. List fields are edited as
// comma separated text and only written back by Apply.
type ProfileForm struct {
	*huh.Form

	profile   *core.Profile
	level     core.SkillLevel
	interests string
	types     string
	skills    string
}

// NewProfileForm builds the form for p.
func NewProfileForm(p *core.Profile) *ProfileForm {
	f := &ProfileForm{
		profile:   p,
		level:     p.SkillLevel,
		interests: strings.Join(p.Interests, ", "),
		types:     strings.Join(p.PreferredProjectTypes, ", "),
		skills:    core.FormatProfileSkills(p.SortedSkills()),
	}
	if f.level == "" {
		f.level = core.LevelIntermediate
	}
	f.Form = newForm(
		huh.NewSelect[core.SkillLevel]().
			Title("Skill level").
			Options(
				huh.NewOption("Beginner", core.LevelBeginner),
				huh.NewOption("Intermediate", core.LevelIntermediate),
				huh.NewOption("Advanced", core.LevelAdvanced),
			).
			Value(&f.level),
		huh.NewText().Title("Bio").Value(&p.Bio),
		huh.NewInput().Title("GitHub username").Value(&p.GitHubUsername),
		huh.NewInput().Title("Interests").Description("Comma separated").Value(&f.interests),
		huh.NewInput().Title("Preferred project types").Description("Comma separated").Value(&f.types),
		huh.NewInput().
			Title("Skills").
			Description("NAME=PROFICIENCY (1-5), comma separated").
			Value(&f.skills).
			Validate(func(s string) error {
				_, err := core.ParseProfileSkills(core.SplitList(s))
				return err
			}),
	)
	return f
}

// Apply writes the edited list fields into the profile and validates it.
func (f *ProfileForm) Apply() error {
	skills, err := core.ParseProfileSkills(core.SplitList(f.skills))
	if err != nil {
		return err
	}
	f.profile.SkillLevel = f.level
	f.profile.Interests = core.SplitList(f.interests)
	f.profile.PreferredProjectTypes = core.SplitList(f.types)
	f.profile.Skills = skills
	return f.profile.Validate()
}
