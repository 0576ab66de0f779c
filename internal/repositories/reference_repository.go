package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"meddata/internal/models"

	"gorm.io/gorm"
)

// DefaultSearchLimit caps substring searches over reference data.
const DefaultSearchLimit = 10

// ReferenceRepository defines access to the shared allergy and chronic
// disease dictionaries.
type ReferenceRepository interface {
	ListAllergies(ctx context.Context) ([]models.Allergy, error)
	ListChronicDiseases(ctx context.Context) ([]models.ChronicDisease, error)
	FindOrCreateAllergy(ctx context.Context, name string) (*models.Allergy, bool, error)
	FindOrCreateChronicDisease(ctx context.Context, name string) (*models.ChronicDisease, bool, error)
	SetICD10Code(ctx context.Context, diseaseID uint, code string) error
	SearchChronicDiseases(ctx context.Context, query string, limit int) ([]models.ChronicDisease, error)
}

// GORMReferenceRepository is a GORM implementation of ReferenceRepository.
type GORMReferenceRepository struct {
	db *gorm.DB
}

// NewGORMReferenceRepository creates a new GORMReferenceRepository.
func NewGORMReferenceRepository(db *gorm.DB) *GORMReferenceRepository {
	return &GORMReferenceRepository{db: db}
}

// ListAllergies returns every allergy ordered by name.
func (r *GORMReferenceRepository) ListAllergies(ctx context.Context) ([]models.Allergy, error) {
	allergies := make([]models.Allergy, 0)
	if err := r.db.WithContext(ctx).Order("name").Find(&allergies).Error; err != nil {
		return nil, fmt.Errorf("failed to list allergies: %w", err)
	}
	return allergies, nil
}

// ListChronicDiseases returns every chronic disease ordered by name.
func (r *GORMReferenceRepository) ListChronicDiseases(ctx context.Context) ([]models.ChronicDisease, error) {
	diseases := make([]models.ChronicDisease, 0)
	if err := r.db.WithContext(ctx).Order("name").Find(&diseases).Error; err != nil {
		return nil, fmt.Errorf("failed to list chronic diseases: %w", err)
	}
	return diseases, nil
}

// FindOrCreateAllergy returns the allergy named name, inserting it when
// absent. The bool reports whether a row was inserted.
func (r *GORMReferenceRepository) FindOrCreateAllergy(ctx context.Context, name string) (*models.Allergy, bool, error) {
	return findOrCreateReportingByName[models.Allergy](r.db.WithContext(ctx), name)
}

// FindOrCreateChronicDisease is FindOrCreateAllergy for chronic diseases.
func (r *GORMReferenceRepository) FindOrCreateChronicDisease(ctx context.Context, name string) (*models.ChronicDisease, bool, error) {
	return findOrCreateReportingByName[models.ChronicDisease](r.db.WithContext(ctx), name)
}

// SetICD10Code fills in a disease's code if it has none yet.
func (r *GORMReferenceRepository) SetICD10Code(ctx context.Context, diseaseID uint, code string) error {
	err := r.db.WithContext(ctx).Model(&models.ChronicDisease{}).
		Where("id = ? AND icd10_code IS NULL", diseaseID).
		Update("icd10_code", code).Error
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("icd10 code %s: %w", code, ErrDuplicate)
		}
		return fmt.Errorf("failed to set icd10 code for disease %d: %w", diseaseID, err)
	}
	return nil
}

// SearchChronicDiseases matches query case-insensitively against disease
// names and ICD-10 codes. An empty query matches nothing.
func (r *GORMReferenceRepository) SearchChronicDiseases(ctx context.Context, query string, limit int) ([]models.ChronicDisease, error) {
	diseases := make([]models.ChronicDisease, 0)
	query = strings.TrimSpace(query)
	if query == "" {
		return diseases, nil
	}
	if limit <= 0 || limit > DefaultSearchLimit {
		limit = DefaultSearchLimit
	}
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	err := r.db.WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(icd10_code) LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("name").
		Limit(limit).
		Find(&diseases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search chronic diseases: %w", err)
	}
	return diseases, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type named[T any] interface {
	*T
	SetName(name string)
}

func findOrCreateByName[T any, P named[T]](db *gorm.DB, name string) (*T, error) {
	row, _, err := findOrCreateReportingByName[T, P](db, name)
	return row, err
}

// findOrCreateReportingByName looks name up and inserts it when absent. The
// insert runs in its own (nested) transaction so that losing a concurrent
// insert race leaves the caller's transaction usable; the loser re-reads the
// winner's row once. A conflict that survives the re-read is ErrDuplicate.
func findOrCreateReportingByName[T any, P named[T]](db *gorm.DB, name string) (*T, bool, error) {
	existing := new(T)
	err := db.Where("name = ?", name).First(existing).Error
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to look up %q: %w", name, err)
	}

	created := new(T)
	P(created).SetName(name)
	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(created).Error
	})
	if err == nil {
		return created, true, nil
	}
	if !isDuplicateKeyError(err) {
		return nil, false, fmt.Errorf("failed to create %q: %w", name, err)
	}

	winner := new(T)
	if err := db.Where("name = ?", name).First(winner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, fmt.Errorf("%q: %w", name, ErrDuplicate)
		}
		return nil, false, fmt.Errorf("failed to re-read %q: %w", name, err)
	}
	return winner, false, nil
}
