package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/isdelr/todolist/internal/auth"
	"github.com/isdelr/todolist/internal/database"
	"github.com/isdelr/todolist/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, username, password string) (models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

// UserService registers and authenticates users.
type UserService struct {
	db     *sql.DB
	issuer *auth.Issuer
	cost   int
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, issuer *auth.Issuer) *UserService {
	return &UserService{db: db, issuer: issuer, cost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost used for new passwords.
func (s *UserService) WithHashCost(cost int) *UserService {
	s.cost = cost
	return s
}

// Register creates a new user, hashing their password.
func (s *UserService) Register(ctx context.Context, username, password string) (models.User, error) {
	if username == "" {
		return models.User{}, newError(ErrValidation, "Username is required.")
	}
	if password == "" {
		return models.User{}, newError(ErrValidation, "Password is required.")
	}

	var existing int64
	err := s.db.QueryRowContext(ctx, "SELECT id FROM user WHERE username = ?", username).Scan(&existing)
	switch {
	case err == nil:
		return models.User{}, alreadyRegistered(username)
	case !errors.Is(err, sql.ErrNoRows):
		return models.User{}, fmt.Errorf("failed to look up user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	res, err := s.db.ExecContext(ctx, "INSERT INTO user (username, password) VALUES (?, ?)", username, string(hashedPassword))
	if err != nil {
		// Lost a race with a concurrent registration of the same name.
		if database.IsUniqueViolation(err) {
			return models.User{}, alreadyRegistered(username)
		}
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	return models.User{ID: id, Username: username}, nil
}

// Login verifies a user's credentials and issues a token bound to their id.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx, "SELECT id, username, password FROM user WHERE username = ?", username)
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", newError(ErrAuth, "Incorrect username.")
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", newError(ErrAuth, "Incorrect password.")
	}

	token, err := s.issuer.Generate(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

func alreadyRegistered(username string) *Error {
	return newError(ErrConflict, fmt.Sprintf("User %s is already registered.", username))
}
