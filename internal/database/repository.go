package database

import "database/sql"

// Repository aggregates the per-entity repositories behind the DataStore
// interface.
type Repository struct {
	*BoardRepo
	*ColumnRepo
	*CardRepo
}

// NewRepository creates a Repository over the given database handle.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		BoardRepo:  &BoardRepo{db: db},
		ColumnRepo: &ColumnRepo{db: db},
		CardRepo:   &CardRepo{db: db},
	}
}

// Compile-time verification that *Repository implements DataStore.
var _ DataStore = (*Repository)(nil)
