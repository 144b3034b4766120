package services

import (
	"context"
	"strings"

	"daylog/internal/domain"
	"daylog/internal/errors"
	"daylog/internal/repository"
	"daylog/internal/validation"
)

// profileServiceImpl implements the ProfileService interface
type profileServiceImpl struct {
	repo      repository.ProfileRepository
	validator *validation.ProfileValidator
	base      *validation.Validator
	opts      options
}

// NewProfileService creates a new ProfileService backed by repo
func NewProfileService(repo repository.ProfileRepository, v *validation.Validator, opts ...Option) ProfileService {
	if v == nil {
		v = validation.NewValidator()
	}
	return &profileServiceImpl{
		repo:      repo,
		validator: validation.NewProfileValidator(v),
		base:      v,
		opts:      newOptions(opts),
	}
}

// List returns all profiles, oldest first
func (s *profileServiceImpl) List(ctx context.Context) ([]domain.Profile, error) {
	rows, err := s.repo.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	return valuesOf(rows), nil
}

// Get returns one profile
func (s *profileServiceImpl) Get(ctx context.Context, id string) (*domain.Profile, error) {
	if !s.base.IsValidID(id) {
		return nil, errors.NewInvalidInputError("id", id, "must not be empty")
	}
	return s.repo.GetProfile(ctx, id)
}

// Create registers a profile
func (s *profileServiceImpl) Create(ctx context.Context, username string, role domain.Role) (*domain.Profile, error) {
	ve := validation.NewValidationError()
	username = strings.TrimSpace(username)
	if !s.base.IsNonEmptyString(username) {
		ve.AddRequiredError("username")
	}
	if role == "" {
		role = domain.RoleUser
	}
	if !role.IsValid() {
		ve.AddInvalidValueError("role", role, "must be user or admin")
	}
	if err := ve.Err(); err != nil {
		return nil, invalid("invalid profile", err)
	}

	p := &domain.Profile{ID: domain.NewID(), Username: username, Role: role, CreatedAt: s.opts.now().UTC()}
	if err := s.repo.CreateProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ChangeRole lets an admin set another profile's role
func (s *profileServiceImpl) ChangeRole(ctx context.Context, actorID, targetID string, role domain.Role) (*domain.Profile, error) {
	actor, err := s.Get(ctx, actorID)
	if err != nil {
		return nil, err
	}
	target, err := s.Get(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateRoleChange(*actor, *target, role); err != nil {
		if validation.IsValidationError(err) {
			return nil, invalid("invalid role", err)
		}
		return nil, err
	}

	if err := s.repo.UpdateProfileRole(ctx, targetID, role); err != nil {
		return nil, err
	}
	target.Role = role
	return target, nil
}
