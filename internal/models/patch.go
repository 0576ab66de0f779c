package models

// Patch is a partial update: only the fields it carries are written onto the
// stored row.
type Patch[T any] interface {
	Apply(row *T)
}
