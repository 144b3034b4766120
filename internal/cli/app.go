package cli

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"daylog/internal/api"
	"daylog/internal/config"
	"daylog/internal/domain"
	"daylog/internal/errors"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// App carries the dependencies shared by every command handler
type App struct {
	businessAPI  api.BusinessAPI
	config       *config.Config
	out          io.Writer
	errorHandler *ErrorHandler
}

// NewApp creates an application writing to stdout with default configuration
func NewApp(businessAPI api.BusinessAPI) *App {
	return NewAppWithConfig(businessAPI, config.NewConfig(), os.Stdout)
}

// NewAppWithConfig creates an application with explicit configuration and output
func NewAppWithConfig(businessAPI api.BusinessAPI, cfg *config.Config, out io.Writer) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if out == nil {
		out = os.Stdout
	}
	return &App{
		businessAPI:  businessAPI,
		config:       cfg,
		out:          out,
		errorHandler: NewErrorHandler(),
	}
}

func (a *App) printer() *printer {
	return newPrinter(a.out, a.config.Display.Format)
}

// user returns the explicit user or the configured default.
func (a *App) user(explicit string) string {
	if u := strings.TrimSpace(explicit); u != "" {
		return u
	}
	return a.config.Application.User
}

// resolveDate accepts YYYY-MM-DD, "today" or "yesterday". Empty means today.
func resolveDate(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return domain.FormatDate(timeNow())
	case "yesterday":
		return domain.FormatDate(timeNow().AddDate(0, 0, -1))
	}
	return strings.TrimSpace(s)
}

var shorthandPattern = regexp.MustCompile(`^(\d+)(d|w|mo|y)$`)

// parseDayShorthand parses day-granularity shorthand like "7d", "2w", "3mo" or "1y".
func parseDayShorthand(shorthand string) (int, error) {
	matches := shorthandPattern.FindStringSubmatch(shorthand)
	if matches == nil {
		return 0, fmt.Errorf("invalid period format: %s", shorthand)
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid number in period format: %s", shorthand)
	}

	switch matches[2] {
	case "d":
		return value, nil
	case "w":
		return value * 7, nil
	case "mo":
		return value * 30, nil
	case "y":
		return value * 365, nil
	}
	return 0, fmt.Errorf("invalid period unit: %s", matches[2])
}

// rangeFromArgs turns "7d", "<from>" or "<from> <to>" into an inclusive date range.
func rangeFromArgs(args []string) (string, string, error) {
	today := domain.FormatDate(timeNow())
	switch len(args) {
	case 0:
		return today, today, nil
	case 1:
		if days, err := parseDayShorthand(args[0]); err == nil {
			if days < 1 {
				return "", "", errors.NewInvalidInputError("period", args[0], "must cover at least one day")
			}
			return domain.FormatDate(timeNow().AddDate(0, 0, -(days - 1))), today, nil
		}
		return resolveDate(args[0]), today, nil
	default:
		return resolveDate(args[0]), resolveDate(args[1]), nil
	}
}
