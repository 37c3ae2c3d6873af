// Package company provides per-company scoping helpers for GORM queries.
//
// Repositories apply these scopes to every multi-row read so one tenant can
// never see another tenant's records:
//
//	db.Scopes(company.Scope(companyID)).Find(&clients)
package company

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope filters a query to rows belonging to the given company
func Scope(companyID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}

// ScopeString filters by a company id already in string form, e.g. taken
// from JWT claims
func ScopeString(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}
