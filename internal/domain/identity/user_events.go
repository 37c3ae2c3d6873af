package identity

import (
	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
)

// User event types
const (
	EventUserCreated         = "identity.user.created"
	EventUserPasswordChanged = "identity.user.password_changed"
	EventUserLocked          = "identity.user.locked"
)

func userCompanyID(user *User) uuid.UUID {
	if user.CompanyID != nil {
		return *user.CompanyID
	}
	return uuid.Nil
}

// UserCreatedEvent is published when a user account is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Email     string `json:"email"`
	Superuser bool   `json:"superuser"`
}

// NewUserCreatedEvent creates a new user created event
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventUserCreated, "User", user.ID, userCompanyID(user)),
		Email:           user.Email,
		Superuser:       user.Superuser,
	}
}

// UserPasswordChangedEvent is published after a successful password change.
// Subscribers invalidate the user's outstanding tokens.
type UserPasswordChangedEvent struct {
	shared.BaseDomainEvent
}

// NewUserPasswordChangedEvent creates a new password changed event
func NewUserPasswordChangedEvent(user *User) *UserPasswordChangedEvent {
	return &UserPasswordChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventUserPasswordChanged, "User", user.ID, userCompanyID(user)),
	}
}

// UserLockedEvent is published when repeated login failures lock an account
type UserLockedEvent struct {
	shared.BaseDomainEvent
	FailedAttempts int `json:"failed_attempts"`
}

// NewUserLockedEvent creates a new user locked event
func NewUserLockedEvent(user *User) *UserLockedEvent {
	return &UserLockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventUserLocked, "User", user.ID, userCompanyID(user)),
		FailedAttempts:  user.FailedLoginAttempts,
	}
}
