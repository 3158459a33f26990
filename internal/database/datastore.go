package database

// DataStore is the unified interface over all repositories. Services can
// depend on the narrower per-entity interfaces instead when that keeps
// their dependencies clearer.
type DataStore interface {
	BoardRepository
	ColumnRepository
	CardRepository
}
