package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"daylog/internal/aggregate"
	"daylog/internal/collection"
	"daylog/internal/domain"
	"daylog/internal/errors"
	"daylog/internal/logging"
	"daylog/internal/repository"
	"daylog/internal/validation"
)

type dayKey struct {
	userID string
	date   string
}

// activityLogImpl implements the ActivityLog interface
type activityLogImpl struct {
	repo      repository.ActivityRepository
	validator *validation.ActivityValidator
	opts      options

	// mu serializes mutations so the day budget check and the write are atomic.
	mu   sync.Mutex
	days map[dayKey]*collection.Store[domain.Activity]
}

// NewActivityLog creates a new ActivityLog backed by repo
func NewActivityLog(repo repository.ActivityRepository, v *validation.Validator, opts ...Option) ActivityLog {
	return &activityLogImpl{
		repo:      repo,
		validator: validation.NewActivityValidator(v),
		opts:      newOptions(opts),
		days:      make(map[dayKey]*collection.Store[domain.Activity]),
	}
}

// dayLocked returns the cached collection for a day, loading it from the
// table store when refresh is set or it is not cached yet. Callers hold mu.
func (s *activityLogImpl) dayLocked(ctx context.Context, userID, date string, refresh bool) (*collection.Store[domain.Activity], error) {
	key := dayKey{userID: userID, date: date}
	store, ok := s.days[key]
	if ok && !refresh {
		return store, nil
	}

	rows, err := s.repo.ListActivities(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if !ok {
		store = collection.New[domain.Activity]("activities", storeOptions(s.opts, repoPersister(
			s.repo.CreateActivity, s.repo.UpdateActivity, s.repo.DeleteActivity))...)
		s.days[key] = store
	}
	store.Replace(valuesOf(rows))
	logging.L().Debug("loaded activities",
		zap.String("user", userID), zap.String("date", date), zap.Int("count", len(rows)))
	return store, nil
}

// locate finds the day collection holding the activity with the given id.
func (s *activityLogImpl) locate(ctx context.Context, id string) (*collection.Store[domain.Activity], domain.Activity, error) {
	if id == "" {
		return nil, domain.Activity{}, errors.NewInvalidInputError("id", id, "must not be empty")
	}
	stored, err := s.repo.GetActivity(ctx, id)
	if err != nil {
		return nil, domain.Activity{}, err
	}

	store, err := s.dayLocked(ctx, stored.UserID, stored.Date, false)
	if err != nil {
		return nil, domain.Activity{}, err
	}
	current, err := store.Get(id)
	if errors.IsNotFound(err) {
		// Cached list predates the record.
		if store, err = s.dayLocked(ctx, stored.UserID, stored.Date, true); err != nil {
			return nil, domain.Activity{}, err
		}
		current, err = store.Get(id)
	}
	return store, current, err
}

// Load refreshes and returns one day's activities
func (s *activityLogImpl) Load(ctx context.Context, userID, date string) ([]domain.Activity, error) {
	if err := s.validator.ValidateDay(userID, date); err != nil {
		return nil, invalid("invalid day", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.dayLocked(ctx, userID, date, true)
	if err != nil {
		return nil, err
	}
	return store.List(nil), nil
}

// Add logs a new activity if the day still has room for it
func (s *activityLogImpl) Add(ctx context.Context, userID, date string, input domain.ActivityInput) (*domain.Activity, error) {
	if err := s.validator.ValidateDay(userID, date); err != nil {
		return nil, invalid("invalid day", err)
	}
	if err := s.validator.ValidateInput(input); err != nil {
		return nil, invalid("invalid activity", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.dayLocked(ctx, userID, date, false)
	if err != nil {
		return nil, err
	}
	logged := aggregate.TotalMinutes(store.List(nil))
	if err := s.validator.ValidateDayBudget(logged, input.Duration); err != nil {
		return nil, invalid("day is full", err)
	}

	created, err := store.Create(ctx, domain.NewActivity(userID, date, input, s.opts.now().UTC()))
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Edit applies a partial update. A new duration is checked against the
// other activities of the same day.
func (s *activityLogImpl) Edit(ctx context.Context, id string, patch domain.ActivityPatch) (*domain.Activity, error) {
	if err := s.validator.ValidatePatch(patch); err != nil {
		return nil, invalid("invalid activity", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	store, current, err := s.locate(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Duration != nil {
		others := aggregate.TotalMinutes(store.List(nil)) - current.Duration
		if err := s.validator.ValidateDayBudget(others, *patch.Duration); err != nil {
			return nil, invalid("day is full", err)
		}
	}

	now := s.opts.now().UTC()
	updated, err := store.Update(ctx, id, func(a domain.Activity) (domain.Activity, error) {
		return a.Apply(patch, now), nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Remove deletes an activity
func (s *activityLogImpl) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, _, err := s.locate(ctx, id)
	if err != nil {
		return err
	}
	return store.Delete(ctx, id)
}

// Stats computes the day view aggregates
func (s *activityLogImpl) Stats(ctx context.Context, userID, date string) (*DayReport, error) {
	if err := s.validator.ValidateDay(userID, date); err != nil {
		return nil, invalid("invalid day", err)
	}

	s.mu.Lock()
	store, err := s.dayLocked(ctx, userID, date, false)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	activities := store.List(nil)
	return &DayReport{
		Stats:     aggregate.Day(date, activities),
		TitleBars: aggregate.TitleBars(activities),
	}, nil
}

// Range summarises activities between two dates inclusive
func (s *activityLogImpl) Range(ctx context.Context, userID, from, to string) (*RangeReport, error) {
	if err := s.validator.ValidateRange(userID, from, to); err != nil {
		return nil, invalid("invalid range", err)
	}

	rows, err := s.repo.ListActivitiesInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	activities := valuesOf(rows)

	start, _ := domain.ParseDate(from)
	end, _ := domain.ParseDate(to)
	return &RangeReport{
		From:              from,
		To:                to,
		Activities:        activities,
		Days:              aggregate.DailyTotals(activities, start, end),
		TotalMinutes:      aggregate.TotalMinutes(activities),
		CategoryBreakdown: aggregate.CategoryBreakdown(activities),
	}, nil
}
