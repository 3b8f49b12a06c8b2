package auth

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"medmaint/internal/model"
	"medmaint/internal/repository"
	"medmaint/internal/util"
	"medmaint/pkg/rbac"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidRole        = errors.New("invalid role")
)

// PassTrigger fires an opportunistic scheduler pass. Login calls it after a
// successful authentication so overdue plans are picked up even when the
// worker is down.
type PassTrigger interface {
	Fire()
}

type Service struct {
	userRepo     *repository.UserRepository
	activityRepo *repository.ActivityRepository
	trigger      PassTrigger
	jwtSecret    string
	logger       *zap.Logger
}

func NewService(
	userRepo *repository.UserRepository,
	activityRepo *repository.ActivityRepository,
	trigger PassTrigger,
	jwtSecret string,
	logger *zap.Logger,
) *Service {
	return &Service{
		userRepo:     userRepo,
		activityRepo: activityRepo,
		trigger:      trigger,
		jwtSecret:    jwtSecret,
		logger:       logger,
	}
}

// Register creates a new user account.
func (s *Service) Register(ctx context.Context, username, password, fullName, role string) (*model.User, error) {
	if !rbac.IsValidRole(role) {
		return nil, ErrInvalidRole
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Username:     username,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         role,
	}

	id, err := s.userRepo.Insert(ctx, u)
	if err != nil {
		return nil, err
	}
	u.ID = id

	return u, nil
}

// Login checks credentials and returns a signed JWT. A successful login
// also fires a throttled background scheduler pass.
func (s *Service) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if !util.CheckPassword(password, u.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(u.ID, u.Role, s.jwtSecret, 24*time.Hour)
	if err != nil {
		return "", nil, err
	}

	userID := u.ID
	_ = s.activityRepo.Insert(ctx, &model.ActivityLog{
		UserID:     &userID,
		Action:     model.ActionLogin,
		EntityType: "user",
		EntityID:   &userID,
		Details:    username,
	})

	if s.trigger != nil {
		s.trigger.Fire()
	}

	return token, u, nil
}
