package services

import (
	"context"
	"strings"
	"sync"

	"daylog/internal/aggregate"
	"daylog/internal/collection"
	"daylog/internal/domain"
	"daylog/internal/errors"
	"daylog/internal/repository"
	"daylog/internal/validation"
)

// todoListImpl implements the TodoList interface
type todoListImpl struct {
	repo      repository.TodoRepository
	validator *validation.TodoValidator
	opts      options

	mu    sync.Mutex
	users map[string]*collection.Store[domain.Todo]
}

// NewTodoList creates a new TodoList backed by repo
func NewTodoList(repo repository.TodoRepository, v *validation.Validator, opts ...Option) TodoList {
	return &todoListImpl{
		repo:      repo,
		validator: validation.NewTodoValidator(v),
		opts:      newOptions(opts),
		users:     make(map[string]*collection.Store[domain.Todo]),
	}
}

func (s *todoListImpl) userLocked(ctx context.Context, userID string, refresh bool) (*collection.Store[domain.Todo], error) {
	store, ok := s.users[userID]
	if ok && !refresh {
		return store, nil
	}

	rows, err := s.repo.ListTodos(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		store = collection.New[domain.Todo]("todos", storeOptions(s.opts, repoPersister(
			s.repo.CreateTodo, s.repo.UpdateTodo, s.repo.DeleteTodo))...)
		s.users[userID] = store
	}
	store.Replace(valuesOf(rows))
	return store, nil
}

func (s *todoListImpl) locate(ctx context.Context, id string) (*collection.Store[domain.Todo], error) {
	if id == "" {
		return nil, errors.NewInvalidInputError("id", id, "must not be empty")
	}
	stored, err := s.repo.GetTodo(ctx, id)
	if err != nil {
		return nil, err
	}
	store, err := s.userLocked(ctx, stored.UserID, false)
	if err != nil {
		return nil, err
	}
	if _, err := store.Get(id); errors.IsNotFound(err) {
		return s.userLocked(ctx, stored.UserID, true)
	}
	return store, nil
}

func (s *todoListImpl) update(ctx context.Context, id string, mutate func(domain.Todo) domain.Todo) (*domain.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.locate(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := store.Update(ctx, id, func(t domain.Todo) (domain.Todo, error) {
		return mutate(t), nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Add creates an open todo
func (s *todoListImpl) Add(ctx context.Context, userID, title string) (*domain.Todo, error) {
	if err := s.validator.ValidateOwner(userID); err != nil {
		return nil, invalid("invalid owner", err)
	}
	if err := s.validator.ValidateTitle(title); err != nil {
		return nil, invalid("invalid todo", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.userLocked(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	created, err := store.Create(ctx, domain.NewTodo(userID, title, s.opts.now().UTC()))
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Toggle flips a todo's completion flag
func (s *todoListImpl) Toggle(ctx context.Context, id string) (*domain.Todo, error) {
	return s.update(ctx, id, func(t domain.Todo) domain.Todo {
		t.Completed = !t.Completed
		return t
	})
}

// Rename changes a todo's title
func (s *todoListImpl) Rename(ctx context.Context, id, title string) (*domain.Todo, error) {
	if err := s.validator.ValidateTitle(title); err != nil {
		return nil, invalid("invalid todo", err)
	}
	trimmed := strings.TrimSpace(title)
	return s.update(ctx, id, func(t domain.Todo) domain.Todo {
		t.Title = trimmed
		return t
	})
}

// Update applies a rename and a toggle as one write
func (s *todoListImpl) Update(ctx context.Context, id string, patch domain.TodoPatch) (*domain.Todo, error) {
	if patch.IsEmpty() {
		return nil, errors.NewInvalidInputError("patch", patch, "title or toggle is required")
	}
	var title string
	if patch.Title != nil {
		if err := s.validator.ValidateTitle(*patch.Title); err != nil {
			return nil, invalid("invalid todo", err)
		}
		title = strings.TrimSpace(*patch.Title)
	}
	return s.update(ctx, id, func(t domain.Todo) domain.Todo {
		if patch.Title != nil {
			t.Title = title
		}
		if patch.Toggle {
			t.Completed = !t.Completed
		}
		return t
	})
}

// Remove deletes a todo
func (s *todoListImpl) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.locate(ctx, id)
	if err != nil {
		return err
	}
	return store.Delete(ctx, id)
}

// List refreshes the user's todos and returns those matching filter
func (s *todoListImpl) List(ctx context.Context, userID string, filter domain.TodoFilter) ([]domain.Todo, error) {
	if err := s.validator.ValidateOwner(userID); err != nil {
		return nil, invalid("invalid owner", err)
	}

	s.mu.Lock()
	store, err := s.userLocked(ctx, userID, true)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return store.List(filter.Matches), nil
}

// Stats counts the user's todos by state
func (s *todoListImpl) Stats(ctx context.Context, userID string) (*aggregate.TodoStats, error) {
	todos, err := s.List(ctx, userID, domain.TodoFilterAll)
	if err != nil {
		return nil, err
	}
	stats := aggregate.Todos(todos)
	return &stats, nil
}
