package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/identity"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
)

// CompanyModel is the persistence model for the Company aggregate.
type CompanyModel struct {
	AggregateModel
	Name      string                 `gorm:"type:varchar(200);not null"`
	Subdomain string                 `gorm:"type:varchar(63);not null;uniqueIndex"`
	Status    identity.CompanyStatus `gorm:"type:varchar(20);not null;default:'active'"`

	Address           valueobject.Address `gorm:"type:jsonb"`
	GSTIN             string              `gorm:"type:varchar(15)"`
	PAN               string              `gorm:"type:varchar(10)"`
	ContactEmail      string              `gorm:"type:varchar(254)"`
	ContactPhone      string              `gorm:"type:varchar(50)"`
	BankAccountName   string              `gorm:"type:varchar(200)"`
	BankAccountNumber string              `gorm:"type:varchar(50)"`
	BankIFSC          string              `gorm:"column:bank_ifsc;type:varchar(20)"`

	LogoURL      string `gorm:"type:varchar(500)"`
	SignatureURL string `gorm:"type:varchar(500)"`
	BannerURL    string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the persistence model to a domain Company entity.
func (m *CompanyModel) ToDomain() *identity.Company {
	company := &identity.Company{
		Name:              m.Name,
		Subdomain:         m.Subdomain,
		Status:            m.Status,
		Address:           m.Address,
		GSTIN:             m.GSTIN,
		PAN:               m.PAN,
		ContactEmail:      m.ContactEmail,
		ContactPhone:      m.ContactPhone,
		BankAccountName:   m.BankAccountName,
		BankAccountNumber: m.BankAccountNumber,
		BankIFSC:          m.BankIFSC,
		LogoURL:           m.LogoURL,
		SignatureURL:      m.SignatureURL,
		BannerURL:         m.BannerURL,
	}
	m.PopulateAggregateRoot(&company.BaseAggregateRoot)
	return company
}

// FromDomain populates the persistence model from a domain Company entity.
func (m *CompanyModel) FromDomain(c *identity.Company) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Subdomain = c.Subdomain
	m.Status = c.Status
	m.Address = c.Address
	m.GSTIN = c.GSTIN
	m.PAN = c.PAN
	m.ContactEmail = c.ContactEmail
	m.ContactPhone = c.ContactPhone
	m.BankAccountName = c.BankAccountName
	m.BankAccountNumber = c.BankAccountNumber
	m.BankIFSC = c.BankIFSC
	m.LogoURL = c.LogoURL
	m.SignatureURL = c.SignatureURL
	m.BannerURL = c.BannerURL
}

// CompanyModelFromDomain creates a new persistence model from a domain Company entity.
func CompanyModelFromDomain(c *identity.Company) *CompanyModel {
	m := &CompanyModel{}
	m.FromDomain(c)
	return m
}

// UserModel is the persistence model for the User aggregate.
// Superusers carry a NULL company_id.
type UserModel struct {
	AggregateModel
	Email        string     `gorm:"type:varchar(254);not null;uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	FullName     string     `gorm:"type:varchar(200);not null"`
	Active       bool       `gorm:"not null;default:true"`
	Superuser    bool       `gorm:"not null;default:false"`
	CompanyID    *uuid.UUID `gorm:"type:uuid;index"`
	LastLoginAt  *time.Time `gorm:"index"`

	FailedLoginAttempts int `gorm:"not null;default:0"`
	LockedUntil         *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
// Note: RoleIDs must be loaded separately by the repository.
func (m *UserModel) ToDomain() *identity.User {
	user := &identity.User{
		Email:               m.Email,
		PasswordHash:        m.PasswordHash,
		FullName:            m.FullName,
		Active:              m.Active,
		Superuser:           m.Superuser,
		CompanyID:           m.CompanyID,
		RoleIDs:             make([]uuid.UUID, 0), // Loaded separately
		LastLoginAt:         m.LastLoginAt,
		FailedLoginAttempts: m.FailedLoginAttempts,
		LockedUntil:         m.LockedUntil,
	}
	m.PopulateAggregateRoot(&user.BaseAggregateRoot)
	return user
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.FullName = u.FullName
	m.Active = u.Active
	m.Superuser = u.Superuser
	m.CompanyID = u.CompanyID
	m.LastLoginAt = u.LastLoginAt
	m.FailedLoginAttempts = u.FailedLoginAttempts
	m.LockedUntil = u.LockedUntil
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// UserRoleModel is the persistence model for user role assignments.
type UserRoleModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoleID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserRoleModel) TableName() string {
	return "user_roles"
}

// RoleModel is the persistence model for the Role aggregate.
// Roles with a NULL company_id are global system roles.
type RoleModel struct {
	AggregateModel
	Name        string     `gorm:"type:varchar(100);not null"`
	Description string     `gorm:"type:text"`
	CompanyID   *uuid.UUID `gorm:"type:uuid;index"`
	Permissions string     `gorm:"type:jsonb;default:'[]'"`
	System      bool       `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (RoleModel) TableName() string {
	return "roles"
}

// ToDomain converts the persistence model to a domain Role entity.
// Note: Permissions JSON parsing must be handled by the repository.
func (m *RoleModel) ToDomain() *identity.Role {
	role := &identity.Role{
		Name:        m.Name,
		Description: m.Description,
		CompanyID:   m.CompanyID,
		Permissions: make([]identity.Permission, 0), // Parsed from JSON by repository
		System:      m.System,
	}
	m.PopulateAggregateRoot(&role.BaseAggregateRoot)
	return role
}

// FromDomain populates the persistence model from a domain Role entity.
// Note: Permissions must be JSON-encoded by the repository.
func (m *RoleModel) FromDomain(r *identity.Role, permissionsJSON string) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.Name = r.Name
	m.Description = r.Description
	m.CompanyID = r.CompanyID
	m.Permissions = permissionsJSON
	m.System = r.System
}

// RoleModelFromDomain creates a new persistence model from a domain Role entity.
func RoleModelFromDomain(r *identity.Role, permissionsJSON string) *RoleModel {
	m := &RoleModel{}
	m.FromDomain(r, permissionsJSON)
	return m
}
