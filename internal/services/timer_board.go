package services

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"daylog/internal/aggregate"
	"daylog/internal/collection"
	"daylog/internal/domain"
	"daylog/internal/errors"
	"daylog/internal/logging"
	"daylog/internal/storage/local"
	"daylog/internal/validation"
)

// Local storage keys used by the timer board.
const (
	TimersKey     = "timers"
	TimerStatsKey = "timerStats"
)

// timerBoardImpl implements the TimerBoard interface
type timerBoardImpl struct {
	local     *local.Store
	validator *validation.TimerValidator
	opts      options
	timers    *collection.Store[domain.Timer]

	mu    sync.Mutex
	stats []domain.TimerStat
}

// NewTimerBoard loads timers and their completion stats from local storage
func NewTimerBoard(store *local.Store, v *validation.Validator, opts ...Option) (TimerBoard, error) {
	o := newOptions(opts)

	timers, err := local.LoadList[domain.Timer](store, TimersKey)
	if err != nil {
		return nil, err
	}
	stats, err := local.LoadList[domain.TimerStat](store, TimerStatsKey)
	if err != nil {
		return nil, err
	}

	b := &timerBoardImpl{
		local:     store,
		validator: validation.NewTimerValidator(v),
		opts:      o,
		timers:    collection.New[domain.Timer]("timers", storeOptions(o, local.Persister[domain.Timer](store, TimersKey))...),
		stats:     stats,
	}
	b.timers.Replace(timers)
	return b, nil
}

func (b *timerBoardImpl) update(ctx context.Context, id string, mutate func(domain.Timer) domain.Timer) (*domain.Timer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	updated, err := b.timers.Update(ctx, id, func(t domain.Timer) (domain.Timer, error) {
		return mutate(t), nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Add creates a paused timer
func (b *timerBoardImpl) Add(ctx context.Context, name string, seconds int, category domain.TimerCategory) (*domain.Timer, error) {
	if err := b.validator.ValidateTimer(name, seconds, category); err != nil {
		return nil, invalid("invalid timer", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	created, err := b.timers.Create(ctx, domain.NewTimer(name, seconds, category, b.opts.now().UTC()))
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// AddFromTemplate creates a timer from a built-in preset
func (b *timerBoardImpl) AddFromTemplate(ctx context.Context, template string) (*domain.Timer, error) {
	tpl, ok := domain.FindTimerTemplate(template)
	if !ok {
		return nil, errors.NewNotFoundError("timer template", strings.TrimSpace(template))
	}
	return b.Add(ctx, tpl.Name, tpl.Minutes*60, tpl.Category)
}

// Remove deletes a timer
func (b *timerBoardImpl) Remove(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.timers.Delete(ctx, id)
}

// Toggle starts or pauses a timer
func (b *timerBoardImpl) Toggle(ctx context.Context, id string) (*domain.Timer, error) {
	return b.update(ctx, id, domain.Timer.Toggle)
}

// Reset restores a timer's full countdown
func (b *timerBoardImpl) Reset(ctx context.Context, id string) (*domain.Timer, error) {
	return b.update(ctx, id, domain.Timer.Reset)
}

// Edit replaces a timer's name, length and category
func (b *timerBoardImpl) Edit(ctx context.Context, id, name string, seconds int, category domain.TimerCategory) (*domain.Timer, error) {
	if err := b.validator.ValidateTimer(name, seconds, category); err != nil {
		return nil, invalid("invalid timer", err)
	}
	return b.update(ctx, id, func(t domain.Timer) domain.Timer {
		return t.Edit(name, seconds, category)
	})
}

// Tick advances all running timers by one second
func (b *timerBoardImpl) Tick(ctx context.Context) ([]domain.Timer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	today := domain.FormatDate(b.opts.now())
	running := b.timers.List(func(t domain.Timer) bool { return t.IsRunning })
	finished := make([]domain.Timer, 0)
	for _, t := range running {
		// A finishing timer and its completion stat are written together:
		// the stat is saved inside the update, before the timer is persisted.
		var stats []domain.TimerStat
		updated, err := b.timers.Update(ctx, t.ID, func(t domain.Timer) (domain.Timer, error) {
			next, done := t.Tick()
			if !done {
				return next, nil
			}
			pending := domain.RecordStat(b.stats, today, next.Category)
			if err := local.SaveList(b.local, TimerStatsKey, pending); err != nil {
				return t, err
			}
			stats = pending
			return next, nil
		})
		if err != nil {
			if stats != nil {
				b.restoreStats()
			}
			return finished, err
		}
		if stats == nil {
			continue
		}

		finished = append(finished, updated)
		b.stats = stats
		logging.L().Info("timer finished",
			zap.String("id", updated.ID), zap.String("name", updated.Name), zap.Int("completions", updated.Completions))
	}
	return finished, nil
}

// restoreStats rewrites the last committed stats after a timer write failed.
func (b *timerBoardImpl) restoreStats() {
	if err := local.SaveList(b.local, TimerStatsKey, b.stats); err != nil {
		logging.L().Error("failed to restore timer stats", zap.Error(err))
	}
}

// List returns timers in the query's category and order
func (b *timerBoardImpl) List(query TimerQuery) []domain.Timer {
	timers := b.timers.List(func(t domain.Timer) bool {
		return query.Category == "" || t.Category == query.Category
	})
	if query.Sort != "" {
		domain.SortTimers(timers, query.Sort)
	}
	return timers
}

// Stats summarises recorded completions
func (b *timerBoardImpl) Stats() aggregate.TimerStatsSummary {
	b.mu.Lock()
	defer b.mu.Unlock()
	return aggregate.Timers(b.stats, domain.FormatDate(b.opts.now()))
}
