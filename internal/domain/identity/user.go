package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost = 12

	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt input limit
)

// User is an account that can authenticate against the system. Regular users
// belong to exactly one company; superusers have no company and bypass
// tenant scoping.
type User struct {
	shared.BaseAggregateRoot
	Email        string
	PasswordHash string
	FullName     string
	Active       bool
	Superuser    bool
	CompanyID    *uuid.UUID
	RoleIDs      []uuid.UUID
	LastLoginAt  *time.Time

	FailedLoginAttempts int
	LockedUntil         *time.Time
}

// NewUser creates a new active user belonging to a company
func NewUser(email, password, fullName string, companyID uuid.UUID) (*User, error) {
	user, err := newUser(email, password, fullName)
	if err != nil {
		return nil, err
	}
	user.CompanyID = &companyID
	user.AddDomainEvent(NewUserCreatedEvent(user))
	return user, nil
}

// NewSuperuser creates a platform superuser with no company binding
func NewSuperuser(email, password, fullName string) (*User, error) {
	user, err := newUser(email, password, fullName)
	if err != nil {
		return nil, err
	}
	user.Superuser = true
	user.AddDomainEvent(NewUserCreatedEvent(user))
	return user, nil
}

func newUser(email, password, fullName string) (*User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, shared.NewDomainError("INVALID_FULL_NAME", "Full name cannot be empty")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		FullName:          fullName,
		Active:            true,
		RoleIDs:           make([]uuid.UUID, 0),
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	return user, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	return email, nil
}

// SetEmail updates the user's email after validation
func (u *User) SetEmail(email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	u.Email = normalized
	u.IncrementVersion()
	return nil
}

// SetFullName updates the display name
func (u *User) SetFullName(fullName string) error {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return shared.NewDomainError("INVALID_FULL_NAME", "Full name cannot be empty")
	}
	u.FullName = fullName
	u.IncrementVersion()
	return nil
}

// UpdateProfile updates email and full name together
func (u *User) UpdateProfile(email, fullName string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return shared.NewDomainError("INVALID_FULL_NAME", "Full name cannot be empty")
	}
	u.Email = normalized
	u.FullName = fullName
	u.IncrementVersion()
	return nil
}

// SetPassword hashes and stores a new password
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_FAILED", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	u.IncrementVersion()
	return nil
}

// ChangePassword verifies the old password before setting a new one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Current password is incorrect")
	}
	if err := u.SetPassword(newPassword); err != nil {
		return err
	}
	u.AddDomainEvent(NewUserPasswordChangedEvent(u))
	return nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return shared.NewDomainError("WEAK_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > maxPasswordLength {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

// AssignRole adds a role to the user if not already assigned
func (u *User) AssignRole(roleID uuid.UUID) {
	for _, id := range u.RoleIDs {
		if id == roleID {
			return
		}
	}
	u.RoleIDs = append(u.RoleIDs, roleID)
	u.IncrementVersion()
}

// RemoveRole removes a role from the user
func (u *User) RemoveRole(roleID uuid.UUID) {
	for i, id := range u.RoleIDs {
		if id == roleID {
			u.RoleIDs = append(u.RoleIDs[:i], u.RoleIDs[i+1:]...)
			u.IncrementVersion()
			return
		}
	}
}

// SetRoles replaces the user's role assignments
func (u *User) SetRoles(roleIDs []uuid.UUID) {
	u.RoleIDs = roleIDs
	u.IncrementVersion()
}

// HasRole reports whether the user holds the given role
func (u *User) HasRole(roleID uuid.UUID) bool {
	for _, id := range u.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// Activate enables the account
func (u *User) Activate() {
	if u.Active {
		return
	}
	u.Active = true
	u.IncrementVersion()
}

// Deactivate disables the account; inactive users cannot log in or refresh tokens
func (u *User) Deactivate() {
	if !u.Active {
		return
	}
	u.Active = false
	u.IncrementVersion()
}

// IsLocked reports whether the account is temporarily locked out
func (u *User) IsLocked() bool {
	return u.LockedUntil != nil && time.Now().Before(*u.LockedUntil)
}

// CanLogin reports whether the account may authenticate right now
func (u *User) CanLogin() bool {
	return u.Active && !u.IsLocked()
}

// RecordLoginSuccess resets the failure counter and stamps the login time
func (u *User) RecordLoginSuccess() {
	now := time.Now()
	u.LastLoginAt = &now
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	u.IncrementVersion()
}

// RecordLoginFailure increments the failure counter and locks the account
// once maxAttempts consecutive failures are reached
func (u *User) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts {
		until := time.Now().Add(lockDuration)
		u.LockedUntil = &until
		u.AddDomainEvent(NewUserLockedEvent(u))
	}
	u.IncrementVersion()
}

// Unlock clears a lockout manually
func (u *User) Unlock() {
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	u.IncrementVersion()
}

// BelongsTo reports whether the user is scoped to the given company
func (u *User) BelongsTo(companyID uuid.UUID) bool {
	return u.CompanyID != nil && *u.CompanyID == companyID
}
