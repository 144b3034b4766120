package domain

import (
	"strings"
	"time"
)

// Book is an entry in the book catalog.
type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Price     float64   `json:"price"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

// NewBook creates a catalog entry with trimmed text fields.
func NewBook(title, author string, price float64, image string, now time.Time) Book {
	return Book{
		ID:        NewID(),
		Title:     strings.TrimSpace(title),
		Author:    strings.TrimSpace(author),
		Price:     price,
		Image:     strings.TrimSpace(image),
		CreatedAt: now,
	}
}

// RecordID implements collection.Record.
func (b Book) RecordID() string { return b.ID }
