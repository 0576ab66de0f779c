package repositories

import (
	"context"
	"errors"
	"fmt"

	"meddata/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OwnedStore is the data access contract shared by every entity that belongs
// to a single user. Single-row operations match on id and owner together, so
// another owner's row looks exactly like a missing one.
type OwnedStore[T any] interface {
	Create(ctx context.Context, ownerID uint, row *T) error
	ListByOwner(ctx context.Context, ownerID uint) ([]T, error)
	GetOne(ctx context.Context, id, ownerID uint) (*T, error)
	Update(ctx context.Context, id, ownerID uint, patch models.Patch[T]) (*T, error)
	Delete(ctx context.Context, id, ownerID uint) (*T, error)
}

// Owned is satisfied by pointers to entities carrying an owner_id column.
type Owned[T any] interface {
	*T
	SetOwnerID(id uint)
}

// GORMOwnedRepository implements OwnedStore for any owned entity.
type GORMOwnedRepository[T any, P Owned[T]] struct {
	db       *gorm.DB
	name     string
	order    string
	preloads []string
}

// NewGORMOwnedRepository creates an owner-scoped repository. order is the
// ORDER BY clause used by ListByOwner; preloads name associations loaded by
// ListByOwner and GetOne.
func NewGORMOwnedRepository[T any, P Owned[T]](db *gorm.DB, name, order string, preloads ...string) *GORMOwnedRepository[T, P] {
	return &GORMOwnedRepository[T, P]{
		db:       db,
		name:     name,
		order:    order,
		preloads: preloads,
	}
}

func (r *GORMOwnedRepository[T, P]) withPreloads(db *gorm.DB) *gorm.DB {
	for _, p := range r.preloads {
		db = db.Preload(p)
	}
	return db
}

// Create stores row with its owner forced to ownerID.
func (r *GORMOwnedRepository[T, P]) Create(ctx context.Context, ownerID uint, row *T) error {
	P(row).SetOwnerID(ownerID)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error; err != nil {
		return fmt.Errorf("failed to create %s: %w", r.name, err)
	}
	return nil
}

// ListByOwner returns all of ownerID's rows in the repository's order.
func (r *GORMOwnedRepository[T, P]) ListByOwner(ctx context.Context, ownerID uint) ([]T, error) {
	rows := make([]T, 0)
	err := r.withPreloads(r.db.WithContext(ctx)).
		Where("owner_id = ?", ownerID).
		Order(r.order).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s for owner %d: %w", r.name, ownerID, err)
	}
	return rows, nil
}

// GetOne returns the row with the given id if ownerID owns it.
func (r *GORMOwnedRepository[T, P]) GetOne(ctx context.Context, id, ownerID uint) (*T, error) {
	return r.find(r.withPreloads(r.db.WithContext(ctx)), id, ownerID)
}

// Update applies patch to the owned row and persists it.
func (r *GORMOwnedRepository[T, P]) Update(ctx context.Context, id, ownerID uint, patch models.Patch[T]) (*T, error) {
	db := r.db.WithContext(ctx)
	row, err := r.find(db, id, ownerID)
	if err != nil {
		return nil, err
	}
	patch.Apply(row)
	if err := db.Omit(clause.Associations).Save(row).Error; err != nil {
		return nil, fmt.Errorf("failed to update %s %d: %w", r.name, id, err)
	}
	return row, nil
}

// Delete removes the owned row and returns its state before removal.
func (r *GORMOwnedRepository[T, P]) Delete(ctx context.Context, id, ownerID uint) (*T, error) {
	db := r.db.WithContext(ctx)
	row, err := r.find(db, id, ownerID)
	if err != nil {
		return nil, err
	}
	res := db.Where("id = ? AND owner_id = ?", id, ownerID).Delete(new(T))
	if res.Error != nil {
		return nil, fmt.Errorf("failed to delete %s %d: %w", r.name, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return row, nil
}

func (r *GORMOwnedRepository[T, P]) find(db *gorm.DB, id, ownerID uint) (*T, error) {
	row := new(T)
	err := db.Where("id = ? AND owner_id = ?", id, ownerID).First(row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s %d: %w", r.name, id, err)
	}
	return row, nil
}
