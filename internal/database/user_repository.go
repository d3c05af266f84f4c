package database

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/example/smartreview/pkg/models"
)

// UserRepository handles database operations for users
type UserRepository struct{}

// NewUserRepository creates a new repository instance
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// Create inserts a new user. Generates an ID when none is set.
func (r *UserRepository) Create(u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	query := DB.Rebind(`
		INSERT INTO users (id, email, name, created_at, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`)
	if _, err := DB.Exec(query, u.ID, u.Email, u.Name); err != nil {
		return errors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetByID returns a user by ID
func (r *UserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	query := DB.Rebind("SELECT * FROM users WHERE id = ?")
	if err := DB.Get(&user, query, id); err != nil {
		return nil, errors.Wrapf(err, "failed to get user %s", id)
	}
	return &user, nil
}

// GetAll returns all users
func (r *UserRepository) GetAll() ([]models.User, error) {
	var users []models.User
	if err := DB.Select(&users, "SELECT * FROM users ORDER BY created_at ASC"); err != nil {
		return nil, errors.Wrap(err, "failed to select users")
	}
	return users, nil
}
