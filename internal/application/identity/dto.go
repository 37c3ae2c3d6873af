package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/identity"
)

// LoginInput contains input for the login operation
type LoginInput struct {
	Email    string
	Password string
}

// UserInfo is the authenticated user's profile returned with tokens
type UserInfo struct {
	ID        uuid.UUID   `json:"id"`
	CompanyID *uuid.UUID  `json:"company_id,omitempty"`
	Email     string      `json:"email"`
	FullName  string      `json:"full_name"`
	Superuser bool        `json:"superuser"`
	RoleIDs   []uuid.UUID `json:"role_ids"`
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// RefreshTokenInput contains input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the refreshed token pair
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LogoutInput contains input for logout. The access token's JTI is
// blacklisted for its remaining lifetime; the refresh token, when supplied,
// is revoked the same way.
type LogoutInput struct {
	UserID         uuid.UUID
	AccessTokenID  string
	AccessTokenTTL time.Duration
	RefreshToken   string
}

// GetCurrentUserInput contains input for fetching the current user
type GetCurrentUserInput struct {
	UserID uuid.UUID
}

// CurrentUserResult contains the current user's profile
type CurrentUserResult struct {
	User UserInfo `json:"user"`
}

// ChangePasswordInput contains input for a password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

func userInfoFromDomain(user *identity.User) UserInfo {
	return UserInfo{
		ID:        user.ID,
		CompanyID: user.CompanyID,
		Email:     user.Email,
		FullName:  user.FullName,
		Superuser: user.Superuser,
		RoleIDs:   user.RoleIDs,
	}
}
