package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"daylog/internal/domain"
	"daylog/internal/errors"
)

// TodoCommand handles the todo subcommands
type TodoCommand struct {
	app *App
}

// NewTodoCommand creates a new todo command handler
func NewTodoCommand(app *App) *TodoCommand {
	return &TodoCommand{app: app}
}

// Add creates an open todo
func (c *TodoCommand) Add(ctx context.Context, user, title string) error {
	todo, err := c.app.businessAPI.AddTodo(ctx, c.app.user(user), title)
	if err != nil {
		return c.app.errorHandler.Handle("add todo", err)
	}
	return c.printOne("Added", todo)
}

// List prints todos matching filter in creation order
func (c *TodoCommand) List(ctx context.Context, user, filter string) error {
	f, ok := domain.ParseTodoFilter(filter)
	if !ok {
		return errors.NewInvalidInputError("filter", filter, "must be all, active or completed")
	}
	todos, err := c.app.businessAPI.ListTodos(ctx, c.app.user(user), f)
	if err != nil {
		return c.app.errorHandler.Handle("list todos", err)
	}

	p := c.app.printer()
	if p.isJSON() {
		return p.json(todos)
	}
	rows := make([][]string, 0, len(todos))
	for _, t := range todos {
		rows = append(rows, []string{t.ID, checkbox(t.Completed), t.Title, formatAge(t.CreatedAt)})
	}
	return p.table([]string{"ID", "DONE", "TITLE", "ADDED"}, rows, "No todos found")
}

// Toggle flips a todo between open and completed
func (c *TodoCommand) Toggle(ctx context.Context, id string) error {
	todo, err := c.app.businessAPI.ToggleTodo(ctx, id)
	if err != nil {
		return c.app.errorHandler.Handle("toggle todo", err)
	}
	verb := "Reopened"
	if todo.Completed {
		verb = "Completed"
	}
	return c.printOne(verb, todo)
}

// Rename changes a todo's title
func (c *TodoCommand) Rename(ctx context.Context, id, title string) error {
	todo, err := c.app.businessAPI.RenameTodo(ctx, id, title)
	if err != nil {
		return c.app.errorHandler.Handle("rename todo", err)
	}
	return c.printOne("Renamed", todo)
}

// Remove deletes a todo
func (c *TodoCommand) Remove(ctx context.Context, id string) error {
	if err := c.app.businessAPI.DeleteTodo(ctx, id); err != nil {
		return c.app.errorHandler.Handle("delete todo", err)
	}
	c.app.printer().line("Deleted todo %s", id)
	return nil
}

// Stats prints completion counts
func (c *TodoCommand) Stats(ctx context.Context, user string) error {
	stats, err := c.app.businessAPI.TodoStats(ctx, c.app.user(user))
	if err != nil {
		return c.app.errorHandler.Handle("compute todo stats", err)
	}

	p := c.app.printer()
	if p.isJSON() {
		return p.json(stats)
	}
	p.line("%d todos: %d completed, %d pending (%s done)",
		stats.Total, stats.Completed, stats.Pending, formatPercent(stats.CompletionRate))
	return nil
}

func (c *TodoCommand) printOne(verb string, todo *domain.Todo) error {
	p := c.app.printer()
	if p.isJSON() {
		return p.json(todo)
	}
	p.line("%s %s %s", verb, checkbox(todo.Completed), todo.Title)
	p.line("%s", faint(todo.ID))
	return nil
}

func checkbox(done bool) string {
	if done {
		return green("[x]")
	}
	return "[ ]"
}

func (r *RootCommand) newTodoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Manage a todo list",
		Long: `Manage a per-user todo list.

Examples:
  daylog todo add Buy milk
  daylog todo list --filter active
  daylog todo done <id>`,
	}

	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a todo",
		Args:  cobra.MinimumNArgs(1),
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewTodoCommand(app).Add(ctx, "", strings.Join(args, " "))
		}),
	}

	var filter string
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List todos",
		Args:    cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewTodoCommand(app).List(ctx, "", filter)
		}),
	}
	list.Flags().StringVarP(&filter, "filter", "f", "all", "all, active or completed")

	done := &cobra.Command{
		Use:     "done <id>",
		Aliases: []string{"toggle"},
		Short:   "Toggle a todo's completion",
		Args:    cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewTodoCommand(app).Toggle(ctx, args[0])
		}),
	}

	rename := &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Rename a todo",
		Args:  cobra.MinimumNArgs(2),
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewTodoCommand(app).Rename(ctx, args[0], strings.Join(args[1:], " "))
		}),
	}

	remove := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a todo",
		Args:    cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewTodoCommand(app).Remove(ctx, args[0])
		}),
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show completion statistics",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewTodoCommand(app).Stats(ctx, "")
		}),
	}

	cmd.AddCommand(add, list, done, rename, remove, stats)
	return cmd
}
