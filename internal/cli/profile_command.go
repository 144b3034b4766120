package cli

import (
	"context"

	"github.com/spf13/cobra"

	"daylog/internal/domain"
	"daylog/internal/errors"
)

// ProfileCommand handles the profile subcommands
type ProfileCommand struct {
	app *App
}

// NewProfileCommand creates a new profile command handler
func NewProfileCommand(app *App) *ProfileCommand {
	return &ProfileCommand{app: app}
}

// List prints every profile
func (c *ProfileCommand) List(ctx context.Context) error {
	profiles, err := c.app.businessAPI.ListProfiles(ctx)
	if err != nil {
		return c.app.errorHandler.Handle("list profiles", err)
	}

	p := c.app.printer()
	if p.isJSON() {
		return p.json(profiles)
	}
	rows := make([][]string, 0, len(profiles))
	for _, pr := range profiles {
		rows = append(rows, []string{pr.ID, pr.Username, roleLabel(pr.Role), formatAge(pr.CreatedAt)})
	}
	return p.table([]string{"ID", "USERNAME", "ROLE", "CREATED"}, rows, "No profiles found")
}

// Show prints one profile
func (c *ProfileCommand) Show(ctx context.Context, id string) error {
	profile, err := c.app.businessAPI.GetProfile(ctx, id)
	if err != nil {
		return c.app.errorHandler.Handle("get profile", err)
	}
	return c.printOne("", profile)
}

// Create adds a profile
func (c *ProfileCommand) Create(ctx context.Context, username, role string) error {
	profile, err := c.app.businessAPI.CreateProfile(ctx, username, domain.Role(role))
	if err != nil {
		return c.app.errorHandler.Handle("create profile", err)
	}
	return c.printOne("Created ", profile)
}

// ChangeRole sets target's role on behalf of actor
func (c *ProfileCommand) ChangeRole(ctx context.Context, actorID, targetID, role string) error {
	if actorID == "" {
		return errors.NewInvalidInputError("as", "", "the acting admin's profile id is required")
	}
	profile, err := c.app.businessAPI.ChangeRole(ctx, actorID, targetID, domain.Role(role))
	if err != nil {
		return c.app.errorHandler.Handle("change role", err)
	}
	return c.printOne("Updated ", profile)
}

func (c *ProfileCommand) printOne(prefix string, profile *domain.Profile) error {
	p := c.app.printer()
	if p.isJSON() {
		return p.json(profile)
	}
	p.line("%s%s (%s) %s", prefix, profile.Username, roleLabel(profile.Role), faint(profile.ID))
	return nil
}

func roleLabel(r domain.Role) string {
	if r == domain.RoleAdmin {
		return yellow(string(r))
	}
	return string(r)
}

func (r *RootCommand) newProfileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage user profiles and roles",
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List profiles",
		Args:    cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewProfileCommand(app).List(ctx)
		}),
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a profile",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewProfileCommand(app).Show(ctx, args[0])
		}),
	}

	var role string
	create := &cobra.Command{
		Use:   "create <username>",
		Short: "Create a profile",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewProfileCommand(app).Create(ctx, args[0], role)
		}),
	}
	create.Flags().StringVar(&role, "role", string(domain.RoleUser), "user or admin")

	var actor string
	setRole := &cobra.Command{
		Use:   "role <id> <user|admin>",
		Short: "Change a profile's role",
		Long:  "Change a profile's role. Only admins may change roles, and never their own.",
		Args:  cobra.ExactArgs(2),
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewProfileCommand(app).ChangeRole(ctx, actor, args[0], args[1])
		}),
	}
	setRole.Flags().StringVar(&actor, "as", "", "Profile id of the admin making the change")

	cmd.AddCommand(list, show, create, setRole)
	return cmd
}
