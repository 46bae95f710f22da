package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mlazarev/taskman/internal/models"
	"github.com/mlazarev/taskman/internal/storage"
)

var emailRegexp = regexp.MustCompile(
	`^[a-zA-Z0-9_+&*-]+(\.[a-zA-Z0-9_+&*-]+)*@([a-zA-Z0-9-]+\.)+[a-zA-Z]{2,7}$`)

type userServiceImpl struct {
	logger zerolog.Logger
	users  storage.UserStore
	auth   AuthService
}

func NewUserService(
	logger zerolog.Logger,
	users storage.UserStore,
	auth AuthService,
) UserService {
	return &userServiceImpl{
		logger: logger,
		users:  users,
		auth:   auth,
	}
}

func (s *userServiceImpl) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(users)).
		Msg("listed users")
	return users, nil
}

func (s *userServiceImpl) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("user_id", id).
				Msg("user not found")
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userServiceImpl) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("email", email).
				Msg("user not found")
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userServiceImpl) FindByCredentials(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("email", email).
				Msg("no user matches the credentials")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	match, err := s.auth.VerifyPassword(password, user.Password)
	if err != nil {
		return nil, err
	}
	if !match {
		s.logger.Error().
			Str("email", email).
			Msg("no user matches the credentials")
		return nil, ErrInvalidCredentials
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("matched user by credentials")
	return user, nil
}

func (s *userServiceImpl) Register(ctx context.Context, params RegisterParams) (*models.User, error) {
	err := validateEmail(params.Email)
	if err != nil {
		return nil, err
	}
	err = validateName(params.Name)
	if err != nil {
		return nil, err
	}
	err = validatePassword(params.Password)
	if err != nil {
		return nil, err
	}

	userUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate user uuid")
		return nil, err
	}

	digest, err := s.auth.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:        userUUID.String(),
		Name:      params.Name,
		Email:     params.Email,
		Password:  digest,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.users.Insert(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			s.logger.Error().
				Str("email", user.Email).
				Msg("user with this email already exists")
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Msg("registered user")
	return user, nil
}

func (s *userServiceImpl) UpdateName(ctx context.Context, email, name string) (*models.User, error) {
	err := validateName(name)
	if err != nil {
		return nil, err
	}

	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.UpdatedAt = time.Now()

	err = s.users.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("updated user name")
	return user, nil
}

func (s *userServiceImpl) UpdateEmail(ctx context.Context, email, newEmail string) (*models.User, error) {
	err := validateEmail(newEmail)
	if err != nil {
		return nil, err
	}

	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	other, err := s.users.GetByEmail(ctx, newEmail)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	if other != nil && !other.Is(user) {
		s.logger.Error().
			Str("email", newEmail).
			Msg("email is taken by another user")
		return nil, ErrEmailTaken
	}

	user.Email = newEmail
	user.UpdatedAt = time.Now()

	err = s.users.Update(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("updated user email")
	return user, nil
}

func (s *userServiceImpl) UpdatePassword(ctx context.Context, email, password string) (*models.User, error) {
	err := validatePassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	digest, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user.Password = digest
	user.UpdatedAt = time.Now()

	err = s.users.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("updated user password")
	return user, nil
}

func validateEmail(email string) error {
	if !emailRegexp.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	return nil
}

func validatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return ErrInvalidPassword
	}
	return nil
}
