package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// BookCommand handles the book subcommands
type BookCommand struct {
	app *App
}

// NewBookCommand creates a new book command handler
func NewBookCommand(app *App) *BookCommand {
	return &BookCommand{app: app}
}

// Add stores a book
func (c *BookCommand) Add(ctx context.Context, title, author string, price float64, image string) error {
	book, err := c.app.businessAPI.AddBook(ctx, title, author, price, image)
	if err != nil {
		return c.app.errorHandler.Handle("add book", err)
	}

	p := c.app.printer()
	if p.isJSON() {
		return p.json(book)
	}
	p.line("Added %q by %s at %s", book.Title, book.Author, formatPrice(book.Price))
	p.line("%s", faint(book.ID))
	return nil
}

// List prints the catalog in insertion order
func (c *BookCommand) List() error {
	books := c.app.businessAPI.ListBooks()
	p := c.app.printer()
	if p.isJSON() {
		return p.json(books)
	}
	rows := make([][]string, 0, len(books))
	for _, b := range books {
		rows = append(rows, []string{b.ID, b.Title, b.Author, formatPrice(b.Price)})
	}
	return p.table([]string{"ID", "TITLE", "AUTHOR", "PRICE"}, rows, "No books found")
}

// Remove deletes a book
func (c *BookCommand) Remove(ctx context.Context, id string) error {
	if err := c.app.businessAPI.DeleteBook(ctx, id); err != nil {
		return c.app.errorHandler.Handle("delete book", err)
	}
	c.app.printer().line("Deleted book %s", id)
	return nil
}

// Stats prints count and price totals
func (c *BookCommand) Stats() error {
	stats := c.app.businessAPI.BookStats()
	p := c.app.printer()
	if p.isJSON() {
		return p.json(stats)
	}
	p.line("%d books, %s total, %s average", stats.Count, formatPrice(stats.TotalPrice), formatPrice(stats.AveragePrice))
	return nil
}

func (r *RootCommand) newBookCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Manage a book catalog",
	}

	var title, author, image string
	var price float64
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a book",
		Example: `  daylog book add --title Dune --author "Frank Herbert" --price 9.99 \
    --image https://example.com/dune.jpg`,
		Args: cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewBookCommand(app).Add(ctx, title, author, price, image)
		}),
	}
	add.Flags().StringVar(&title, "title", "", "Book title")
	add.Flags().StringVar(&author, "author", "", "Author")
	add.Flags().Float64Var(&price, "price", 0, "Price, greater than zero")
	add.Flags().StringVar(&image, "image", "", "Cover image URL")

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List books",
		Args:    cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewBookCommand(app).List()
		}),
	}

	remove := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a book",
		Args:    cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewBookCommand(app).Remove(ctx, args[0])
		}),
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog totals",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, app *App, args []string) error {
			return NewBookCommand(app).Stats()
		}),
	}

	cmd.AddCommand(add, list, remove, stats)
	return cmd
}
