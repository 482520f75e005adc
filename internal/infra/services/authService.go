package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"emotional-analysis/internal/domain/entities"
	"emotional-analysis/internal/domain/interfaces/repository"
	"emotional-analysis/internal/infra/logger"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("incorrect password")
)

// AuthService manages dashboard accounts. Passwords are stored as bcrypt
// hashes only.
type AuthService struct {
	UserRepository repository.Repository[entities.User]
	Logger         *logger.Logger
}

func NewAuthService(userRepository repository.Repository[entities.User], logger *logger.Logger) *AuthService {
	return &AuthService{UserRepository: userRepository, Logger: logger}
}

func (as *AuthService) Register(ctx context.Context, username, password, role string) error {
	if username == "" || password == "" {
		return fmt.Errorf("username and password are required")
	}

	filter := map[string]any{"username": username, "role": role}
	if _, err := as.UserRepository.FindOne(ctx, repository.UserCollection, filter); err == nil {
		return ErrUserExists
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := entities.User{
		Username:  username,
		Password:  string(hash),
		Role:      role,
		CreatedAt: time.Now(),
	}
	if _, err := as.UserRepository.Create(ctx, repository.UserCollection, user); err != nil {
		return err
	}

	as.Logger.Info("registered user", logrus.Fields{"username": username, "role": role})
	return nil
}

func (as *AuthService) Login(ctx context.Context, username, password, role string) (entities.User, error) {
	filter := map[string]any{"username": username, "role": role}
	user, err := as.UserRepository.FindOne(ctx, repository.UserCollection, filter)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return entities.User{}, ErrUserNotFound
		}
		return entities.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return entities.User{}, ErrInvalidCredentials
	}

	return user, nil
}
