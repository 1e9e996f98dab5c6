package specification

import "gorm.io/gorm"

// Specification narrows a repository query. Gorm implementations call
// Apply; the memory implementations type-switch on the concrete structs.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
