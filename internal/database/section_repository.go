package database

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/smartreview/pkg/models"
)

// SectionRepository handles database operations for sections
type SectionRepository struct{}

// NewSectionRepository creates a new repository instance
func NewSectionRepository() *SectionRepository {
	return &SectionRepository{}
}

// Create inserts a new section. Generates an ID when none is set.
func (r *SectionRepository) Create(s *models.Section) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	query := DB.Rebind(`
		INSERT INTO sections (id, user_id, name, description, color, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`)
	if _, err := DB.Exec(query, s.ID, s.UserID, s.Name, s.Description, s.Color, true); err != nil {
		return errors.Wrap(err, "failed to create section")
	}
	s.IsActive = true
	return nil
}

// GetByID returns a section owned by the given user
func (r *SectionRepository) GetByID(userID, sectionID string) (*models.Section, error) {
	var section models.Section
	query := DB.Rebind("SELECT * FROM sections WHERE id = ? AND user_id = ?")
	if err := DB.Get(&section, query, sectionID, userID); err != nil {
		return nil, errors.Wrapf(err, "failed to get section %s", sectionID)
	}
	return &section, nil
}

// GetByUser returns all sections owned by a user
func (r *SectionRepository) GetByUser(userID string) ([]models.Section, error) {
	var sections []models.Section
	query := DB.Rebind("SELECT * FROM sections WHERE user_id = ? ORDER BY name ASC")
	if err := DB.Select(&sections, query, userID); err != nil {
		return nil, errors.Wrap(err, "failed to select sections")
	}
	return sections, nil
}

// CountOwned returns how many of the given section IDs belong to the user.
// Callers compare against the requested count to verify ownership without
// revealing which IDs exist.
func (r *SectionRepository) CountOwned(userID string, sectionIDs []string) (int, error) {
	if len(sectionIDs) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`
		SELECT COUNT(*) FROM sections WHERE user_id = ? AND id IN (?)
	`, userID, sectionIDs)
	if err != nil {
		return 0, errors.Wrap(err, "failed to build ownership query")
	}
	var count int
	if err := DB.Get(&count, DB.Rebind(query), args...); err != nil {
		return 0, errors.Wrap(err, "failed to count owned sections")
	}
	return count, nil
}
