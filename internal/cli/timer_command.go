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

// TimerCommand handles the timer subcommands
type TimerCommand struct {
	app *App
}

// NewTimerCommand creates a new timer command handler
func NewTimerCommand(app *App) *TimerCommand {
	return &TimerCommand{app: app}
}

// Add creates a paused timer
func (c *TimerCommand) Add(ctx context.Context, name string, seconds int, category string) error {
	cat, err := parseTimerCategory(category)
	if err != nil {
		return err
	}
	timer, err := c.app.businessAPI.AddTimer(ctx, name, seconds, cat)
	if err != nil {
		return c.app.errorHandler.Handle("add timer", err)
	}
	return c.printOne("Added", timer)
}

// AddFromTemplate creates a timer from a built-in template
func (c *TimerCommand) AddFromTemplate(ctx context.Context, template string) error {
	timer, err := c.app.businessAPI.AddTimerFromTemplate(ctx, template)
	if err != nil {
		return c.app.errorHandler.Handle("add timer", err)
	}
	return c.printOne("Added", timer)
}

// List prints timers, optionally narrowed to a category and sorted
func (c *TimerCommand) List(category, sort string) error {
	query := services.TimerQuery{}
	if category != "" && category != "all" {
		cat, err := parseTimerCategory(category)
		if err != nil {
			return err
		}
		query.Category = cat
	}
	switch s := domain.TimerSort(sort); s {
	case "", domain.SortTimersByName, domain.SortTimersByDuration, domain.SortTimersByRemaining:
		query.Sort = s
	default:
		return errors.NewInvalidInputError("sort", sort, "must be name, duration or remaining")
	}

	timers := c.app.businessAPI.ListTimers(query)
	p := c.app.printer()
	if p.isJSON() {
		return p.json(timers)
	}
	rows := make([][]string, 0, len(timers))
	for _, t := range timers {
		rows = append(rows, []string{
			t.ID, t.Name, string(t.Category),
			formatClock(t.Remaining) + " / " + formatClock(t.Duration),
			timerState(t), strconv.Itoa(t.Completions),
		})
	}
	return p.table([]string{"ID", "NAME", "CATEGORY", "REMAINING", "STATE", "DONE"}, rows, "No timers found")
}

// Toggle starts or pauses a timer
func (c *TimerCommand) Toggle(ctx context.Context, id string) error {
	timer, err := c.app.businessAPI.ToggleTimer(ctx, id)
	if err != nil {
		return c.app.errorHandler.Handle("toggle timer", err)
	}
	verb := "Paused"
	if timer.IsRunning {
		verb = "Started"
	}
	return c.printOne(verb, timer)
}

// Reset stops a timer and restores its full duration
func (c *TimerCommand) Reset(ctx context.Context, id string) error {
	timer, err := c.app.businessAPI.ResetTimer(ctx, id)
	if err != nil {
		return c.app.errorHandler.Handle("reset timer", err)
	}
	return c.printOne("Reset", timer)
}

// Edit replaces a timer's name, duration and category
func (c *TimerCommand) Edit(ctx context.Context, id, name string, seconds int, category string) error {
	cat, err := parseTimerCategory(category)
	if err != nil {
		return err
	}
	timer, err := c.app.businessAPI.EditTimer(ctx, id, name, seconds, cat)
	if err != nil {
		return c.app.errorHandler.Handle("edit timer", err)
	}
	return c.printOne("Updated", timer)
}

// Remove deletes a timer
func (c *TimerCommand) Remove(ctx context.Context, id string) error {
	if err := c.app.businessAPI.DeleteTimer(ctx, id); err != nil {
		return c.app.errorHandler.Handle("delete timer", err)
	}
	c.app.printer().line("Deleted timer %s", id)
	return nil
}

// Stats prints completion counts by category
func (c *TimerCommand) Stats() error {
	stats := c.app.businessAPI.TimerStats()
	p := c.app.printer()
	if p.isJSON() {
		return p.json(stats)
	}

	p.line("%d completions, %d today", stats.TotalCompletions, stats.TodayCompletions)
	rows := make([][]string, 0, len(stats.ByCategory))
	for _, cat := range stats.ByCategory {
		rows = append(rows, []string{string(cat.Category), strconv.Itoa(cat.Completions), formatPercent(cat.Percentage)})
	}
	return p.table([]string{"CATEGORY", "COMPLETIONS", "SHARE"}, rows, "No timers completed yet")
}

// Templates prints the built-in templates
func (c *TimerCommand) Templates() error {
	templates := c.app.businessAPI.TimerTemplates()
	p := c.app.printer()
	if p.isJSON() {
		return p.json(templates)
	}
	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		rows = append(rows, []string{t.Name, fmt.Sprintf("%d min", t.Minutes), string(t.Category)})
	}
	return p.table([]string{"TEMPLATE", "DURATION", "CATEGORY"}, rows, "")
}

func (c *TimerCommand) printOne(verb string, t *domain.Timer) error {
	p := c.app.printer()
	if p.isJSON() {
		return p.json(t)
	}
	p.line("%s %s (%s, %s left)", verb, t.Name, t.Category, formatClock(t.Remaining))
	p.line("%s", faint(t.ID))
	return nil
}

func timerState(t domain.Timer) string {
	switch {
	case t.IsRunning:
		return green("running")
	case t.Remaining == 0:
		return "finished"
	case t.Remaining < t.Duration:
		return yellow("paused")
	}
	return "ready"
}

func parseTimerCategory(s string) (domain.TimerCategory, error) {
	cat := domain.TimerCategory(s)
	if !cat.IsValid() {
		return "", errors.NewInvalidInputError("category", s, fmt.Sprintf("must be one of %v", domain.TimerCategories()))
	}
	return cat, nil
}

func (r *RootCommand) newTimerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Manage countdown timers",
		Long: `Manage countdown timers. Running timers count down while "daylog serve" is up.

Examples:
  daylog timer add --template Pomodoro
  daylog timer add Tea --minutes 3 --category other
  daylog timer start <id>
  daylog timer list --sort remaining`,
	}

	var template, category string
	var minutes, seconds int
	add := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a timer or instantiate a template",
		Args:  cobra.MaximumNArgs(1),
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			c := NewTimerCommand(app)
			if template != "" {
				return c.AddFromTemplate(ctx, template)
			}
			if len(args) == 0 {
				return errors.NewInvalidInputError("name", "", "a name or --template is required")
			}
			return c.Add(ctx, args[0], minutes*60+seconds, category)
		}),
	}
	add.Flags().StringVarP(&template, "template", "t", "", "Built-in template name")
	add.Flags().IntVarP(&minutes, "minutes", "m", 0, "Duration in minutes")
	add.Flags().IntVarP(&seconds, "seconds", "s", 0, "Additional seconds")
	add.Flags().StringVarP(&category, "category", "c", string(domain.TimerOther), "work, study, exercise, meditation or other")

	var listCategory, sort string
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List timers",
		Args:    cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewTimerCommand(app).List(listCategory, sort)
		}),
	}
	list.Flags().StringVarP(&listCategory, "category", "c", "all", "Category to show")
	list.Flags().StringVar(&sort, "sort", "", "name, duration or remaining")

	start := &cobra.Command{
		Use:     "start <id>",
		Aliases: []string{"toggle", "pause"},
		Short:   "Start or pause a timer",
		Args:    cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewTimerCommand(app).Toggle(ctx, args[0])
		}),
	}

	reset := &cobra.Command{
		Use:   "reset <id>",
		Short: "Stop a timer and restore its duration",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewTimerCommand(app).Reset(ctx, args[0])
		}),
	}

	var editName, editCategory string
	var editMinutes, editSeconds int
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace a timer's settings; remaining time restarts",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewTimerCommand(app).Edit(ctx, args[0], editName, editMinutes*60+editSeconds, editCategory)
		}),
	}
	edit.Flags().StringVar(&editName, "name", "", "Timer name")
	edit.Flags().IntVarP(&editMinutes, "minutes", "m", 0, "Duration in minutes")
	edit.Flags().IntVarP(&editSeconds, "seconds", "s", 0, "Additional seconds")
	edit.Flags().StringVarP(&editCategory, "category", "c", string(domain.TimerOther), "Timer category")

	remove := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a timer",
		Args:    cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewTimerCommand(app).Remove(ctx, args[0])
		}),
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show completions by category",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewTimerCommand(app).Stats()
		}),
	}

	templates := &cobra.Command{
		Use:   "templates",
		Short: "List built-in templates",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewTimerCommand(app).Templates()
		}),
	}

	cmd.AddCommand(add, list, start, reset, edit, remove, stats, templates)
	return cmd
}
