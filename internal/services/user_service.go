package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Udhay-Adithya/form-builder-backend/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByEmail(email string) (models.User, error)
	CreateUser(email, password string, isActive, isSuperuser bool) (models.User, error)
	AuthenticateUser(email, password string) (models.User, error)
}

// UserService provides business logic for user accounts and credentials.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByEmail retrieves a single user by their email, including the
// password hash. The lookup is case-sensitive.
func (s *UserService) GetUserByEmail(email string) (models.User, error) {
	var user models.User
	var updatedAt sql.NullTime
	row := s.db.QueryRow(
		"SELECT id, email, hashed_password, is_active, is_superuser, created_at, updated_at FROM users WHERE email = ?",
		email,
	)
	err := row.Scan(&user.ID, &user.Email, &user.HashedPassword, &user.IsActive, &user.IsSuperuser, &user.CreatedAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	if updatedAt.Valid {
		user.UpdatedAt = &updatedAt.Time
	}
	return user, nil
}

// CreateUser registers a new user, hashing their password. Fails with
// ErrEmailTaken when the email is already registered.
func (s *UserService) CreateUser(email, password string, isActive, isSuperuser bool) (models.User, error) {
	if _, err := s.GetUserByEmail(email); err == nil {
		return models.User{}, ErrEmailTaken
	} else if err != ErrUserNotFound {
		return models.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:             uuid.New().String(),
		Email:          email,
		HashedPassword: string(hashedPassword),
		IsActive:       isActive,
		IsSuperuser:    isSuperuser,
		CreatedAt:      time.Now().UTC(),
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, email, hashed_password, is_active, is_superuser, created_at) VALUES(?, ?, ?, ?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(user.ID, user.Email, user.HashedPassword, user.IsActive, user.IsSuperuser, user.CreatedAt)
	if err != nil {
		return models.User{}, err
	}

	// Return user without password hash
	user.HashedPassword = ""
	return user, nil
}

// AuthenticateUser verifies a user's credentials. Unknown emails and wrong
// passwords both fail with ErrInvalidCredentials; disabled accounts with
// ErrInactiveUser.
func (s *UserService) AuthenticateUser(email, password string) (models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		if err == ErrUserNotFound {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	if !user.IsActive {
		return models.User{}, ErrInactiveUser
	}

	// Don't send the password hash to the client
	user.HashedPassword = ""
	return user, nil
}
