package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"daylog/internal/domain"
	"daylog/internal/errors"
	"daylog/internal/services"
)

// ActivityCommand handles the activity subcommands
type ActivityCommand struct {
	app *App
}

// NewActivityCommand creates a new activity command handler
func NewActivityCommand(app *App) *ActivityCommand {
	return &ActivityCommand{app: app}
}

// Add logs an activity for user on date
func (c *ActivityCommand) Add(ctx context.Context, user, date string, input domain.ActivityInput) error {
	created, err := c.app.businessAPI.AddActivity(ctx, c.app.user(user), resolveDate(date), input)
	if err != nil {
		return c.app.errorHandler.Handle("add activity", err)
	}

	p := c.app.printer()
	if p.isJSON() {
		return p.json(created)
	}
	p.line("Logged %s of %s on %s: %s", formatMinutes(created.Duration), created.Category, created.Date, created.Title)
	p.line("%s", faint(created.ID))
	return nil
}

// List prints a day's activities in creation order
func (c *ActivityCommand) List(ctx context.Context, user, date string) error {
	activities, err := c.app.businessAPI.ListActivities(ctx, c.app.user(user), resolveDate(date))
	if err != nil {
		return c.app.errorHandler.Handle("list activities", err)
	}
	return c.printActivities(activities)
}

// Edit applies a partial update to an activity
func (c *ActivityCommand) Edit(ctx context.Context, id string, patch domain.ActivityPatch) error {
	if patch.IsEmpty() {
		return errors.NewInvalidInputError("flags", "", "set at least one of --title, --category or --minutes")
	}
	updated, err := c.app.businessAPI.EditActivity(ctx, id, patch)
	if err != nil {
		return c.app.errorHandler.Handle("edit activity", err)
	}

	p := c.app.printer()
	if p.isJSON() {
		return p.json(updated)
	}
	p.line("Updated %s: %s (%s, %s)", updated.ID, updated.Title, updated.Category, formatMinutes(updated.Duration))
	return nil
}

// Remove deletes an activity
func (c *ActivityCommand) Remove(ctx context.Context, id string) error {
	if err := c.app.businessAPI.DeleteActivity(ctx, id); err != nil {
		return c.app.errorHandler.Handle("delete activity", err)
	}
	c.app.printer().line("Deleted activity %s", id)
	return nil
}

// Stats prints the day summary, category breakdown and per-title bars
func (c *ActivityCommand) Stats(ctx context.Context, user, date string) error {
	report, err := c.app.businessAPI.DayStats(ctx, c.app.user(user), resolveDate(date))
	if err != nil {
		return c.app.errorHandler.Handle("compute day stats", err)
	}

	p := c.app.printer()
	if p.isJSON() {
		return p.json(report)
	}

	s := report.Stats
	p.line("%s: %s logged across %d activities, %s of the day (%s remaining)",
		s.Date, formatMinutes(s.TotalMinutes), s.TotalActivities, formatPercent(s.CoveragePercent), formatMinutes(s.RemainingMinutes))
	if !s.CanAnalyze {
		p.line("%s", yellow("Not enough data to analyze this day."))
		return nil
	}

	rows := make([][]string, 0, len(s.CategoryBreakdown))
	for _, share := range s.CategoryBreakdown {
		rows = append(rows, []string{string(share.Category), formatMinutes(share.Minutes), formatPercent(share.Percentage)})
	}
	if err := p.table([]string{"CATEGORY", "TIME", "SHARE"}, rows, ""); err != nil {
		return err
	}

	p.line("")
	bars := make([][]string, 0, len(report.TitleBars))
	for _, bar := range report.TitleBars {
		bars = append(bars, []string{bar.Label, strconv.FormatFloat(bar.Hours, 'f', 2, 64) + "h", string(bar.Category)})
	}
	return p.table([]string{"TITLE", "HOURS", "CATEGORY"}, bars, "")
}

// Range prints per-day totals and the category breakdown between two dates
func (c *ActivityCommand) Range(ctx context.Context, user string, args []string) error {
	from, to, err := rangeFromArgs(args)
	if err != nil {
		return c.app.errorHandler.Handle("read range", err)
	}
	report, err := c.app.businessAPI.ActivityRange(ctx, c.app.user(user), from, to)
	if err != nil {
		return c.app.errorHandler.Handle("read range", err)
	}
	return c.printRange(report)
}

func (c *ActivityCommand) printRange(report *services.RangeReport) error {
	p := c.app.printer()
	if p.isJSON() {
		return p.json(report)
	}

	p.line("%s to %s: %s across %d activities", report.From, report.To, formatMinutes(report.TotalMinutes), len(report.Activities))
	rows := make([][]string, 0, len(report.Days))
	for _, day := range report.Days {
		rows = append(rows, []string{day.Date, strconv.Itoa(day.Activities), formatMinutes(day.Minutes)})
	}
	if err := p.table([]string{"DATE", "ACTIVITIES", "TIME"}, rows, "No activities found"); err != nil {
		return err
	}
	if len(report.CategoryBreakdown) == 0 {
		return nil
	}

	p.line("")
	shares := make([][]string, 0, len(report.CategoryBreakdown))
	for _, share := range report.CategoryBreakdown {
		shares = append(shares, []string{string(share.Category), formatMinutes(share.Minutes), formatPercent(share.Percentage)})
	}
	return p.table([]string{"CATEGORY", "TIME", "SHARE"}, shares, "")
}

func (c *ActivityCommand) printActivities(activities []domain.Activity) error {
	p := c.app.printer()
	if p.isJSON() {
		return p.json(activities)
	}

	rows := make([][]string, 0, len(activities))
	for _, a := range activities {
		rows = append(rows, []string{a.ID, a.Title, string(a.Category), formatMinutes(a.Duration), formatAge(a.CreatedAt)})
	}
	return p.table([]string{"ID", "TITLE", "CATEGORY", "TIME", "ADDED"}, rows, "No activities found")
}

func parseCategoryFlag(s string) (domain.Category, error) {
	category, ok := domain.ParseCategory(s)
	if !ok {
		return "", errors.NewInvalidInputError("category", s, fmt.Sprintf("must be one of %v", domain.Categories()))
	}
	return category, nil
}

func (r *RootCommand) newActivityCommand() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:     "activity",
		Aliases: []string{"act"},
		Short:   "Log and review how a day was spent",
		Long: `Log activities against a day and review the day's totals.

A day holds at most 24 hours (1440 minutes) of activities.

Examples:
  daylog activity add "Deep work" --category work --minutes 90
  daylog activity list --date yesterday
  daylog activity stats
  daylog activity range 7d`,
	}
	cmd.PersistentFlags().StringVar(&date, "date", "", "Day as YYYY-MM-DD, today or yesterday (default today)")

	var category string
	var minutes int
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Log an activity",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			parsed, err := parseCategoryFlag(category)
			if err != nil {
				return err
			}
			input := domain.ActivityInput{Title: args[0], Category: parsed, Duration: minutes}
			return NewActivityCommand(app).Add(ctx, "", date, input)
		}),
	}
	add.Flags().StringVarP(&category, "category", "c", "", "Work, Study, Sleep, Entertainment or Exercise")
	add.Flags().IntVarP(&minutes, "minutes", "m", 0, "Duration in minutes")

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List a day's activities",
		Args:    cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewActivityCommand(app).List(ctx, "", date)
		}),
	}

	var newTitle, newCategory string
	var newMinutes int
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change an activity's title, category or duration",
		Args:  cobra.ExactArgs(1),
	}
	edit.Flags().StringVar(&newTitle, "title", "", "New title")
	edit.Flags().StringVarP(&newCategory, "category", "c", "", "New category")
	edit.Flags().IntVarP(&newMinutes, "minutes", "m", 0, "New duration in minutes")
	edit.RunE = r.run(func(ctx context.Context, app *App, args []string) error {
		var patch domain.ActivityPatch
		if edit.Flags().Changed("title") {
			patch.Title = &newTitle
		}
		if edit.Flags().Changed("category") {
			parsed, err := parseCategoryFlag(newCategory)
			if err != nil {
				return err
			}
			patch.Category = &parsed
		}
		if edit.Flags().Changed("minutes") {
			patch.Duration = &newMinutes
		}
		return NewActivityCommand(app).Edit(ctx, args[0], patch)
	})

	remove := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an activity",
		Args:    cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewActivityCommand(app).Remove(ctx, args[0])
		}),
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Summarise a day",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewActivityCommand(app).Stats(ctx, "", date)
		}),
	}

	rng := &cobra.Command{
		Use:   "range [period | from [to]]",
		Short: "Summarise several days",
		Long: `Summarise activities over an inclusive range of days.

Periods support: 7d, 2w, 3mo, 1y (ending today)

Examples:
  daylog activity range 7d
  daylog activity range 2024-03-01 2024-03-31`,
		Args: cobra.MaximumNArgs(2),
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewActivityCommand(app).Range(ctx, "", args)
		}),
	}

	cmd.AddCommand(add, list, edit, remove, stats, rng)
	return cmd
}
