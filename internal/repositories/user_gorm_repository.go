package repositories

import (
	"context"
	"errors"
	"fmt"

	"meddata/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Register creates the user, its reference links and its empty profile.
// A taken email surfaces as ErrDuplicateEmail.
func (r *GORMUserRepository) Register(ctx context.Context, user *models.User, links models.ReferenceLinks) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		allergies, err := r.resolveAllergies(tx, links)
		if err != nil {
			return err
		}
		diseases, err := r.resolveDiseases(tx, links)
		if err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			if isDuplicateKeyError(err) {
				return fmt.Errorf("email %s: %w", user.Email, ErrDuplicateEmail)
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		if len(allergies) > 0 {
			if err := tx.Model(user).Association("Allergies").Append(allergies); err != nil {
				return fmt.Errorf("failed to link allergies: %w", err)
			}
		}
		if len(diseases) > 0 {
			if err := tx.Model(user).Association("ChronicDiseases").Append(diseases); err != nil {
				return fmt.Errorf("failed to link chronic diseases: %w", err)
			}
		}

		profile, err := upsertProfile(tx, user.ID, models.ProfilePatch{})
		if err != nil {
			return err
		}
		user.Profile = profile
		user.Allergies = allergies
		user.ChronicDiseases = diseases
		return nil
	})
}

func (r *GORMUserRepository) resolveAllergies(tx *gorm.DB, links models.ReferenceLinks) ([]models.Allergy, error) {
	allergies := make([]models.Allergy, 0)
	if ids := uniqueIDs(links.AllergyIDs); len(ids) > 0 {
		if err := tx.Where("id IN ?", ids).Order("id").Find(&allergies).Error; err != nil {
			return nil, fmt.Errorf("failed to load allergies: %w", err)
		}
	}
	if links.CustomAllergy != "" {
		custom, err := findOrCreateByName[models.Allergy](tx, links.CustomAllergy)
		if err != nil {
			return nil, err
		}
		allergies = appendIfMissing(allergies, *custom, func(a models.Allergy) uint { return a.ID })
	}
	return allergies, nil
}

func (r *GORMUserRepository) resolveDiseases(tx *gorm.DB, links models.ReferenceLinks) ([]models.ChronicDisease, error) {
	diseases := make([]models.ChronicDisease, 0)
	if ids := uniqueIDs(links.ChronicDiseaseIDs); len(ids) > 0 {
		if err := tx.Where("id IN ?", ids).Order("id").Find(&diseases).Error; err != nil {
			return nil, fmt.Errorf("failed to load chronic diseases: %w", err)
		}
	}
	if links.CustomDisease != "" {
		custom, err := findOrCreateByName[models.ChronicDisease](tx, links.CustomDisease)
		if err != nil {
			return nil, err
		}
		diseases = appendIfMissing(diseases, *custom, func(d models.ChronicDisease) uint { return d.ID })
	}
	return diseases, nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %d: %w", id, err)
	}
	return &user, nil
}

// GetWithReferences loads a user with its allergies and chronic diseases.
func (r *GORMUserRepository) GetWithReferences(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Allergies", func(db *gorm.DB) *gorm.DB { return db.Order("allergies.id") }).
		Preload("ChronicDiseases", func(db *gorm.DB) *gorm.DB { return db.Order("chronic_diseases.id") }).
		First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user %d with references: %w", id, err)
	}
	return &user, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func appendIfMissing[T any](rows []T, row T, id func(T) uint) []T {
	for _, existing := range rows {
		if id(existing) == id(row) {
			return rows
		}
	}
	return append(rows, row)
}
