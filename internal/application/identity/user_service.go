package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/identity"
	"github.com/hrms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService handles user management operations
type UserService struct {
	userRepo identity.UserRepository
	roleRepo identity.RoleRepository
	eventBus shared.EventPublisher
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// CreateUserInput contains input for creating a company user
type CreateUserInput struct {
	CompanyID uuid.UUID
	Email     string
	Password  string
	FullName  string
	RoleIDs   []uuid.UUID
}

// CreateSuperuserInput contains input for creating a platform superuser
type CreateSuperuserInput struct {
	Email    string
	Password string
	FullName string
}

// GetUserInput identifies a user within an optional company scope.
// A nil CompanyID means the caller is a superuser and sees all users.
type GetUserInput struct {
	CompanyID *uuid.UUID
	UserID    uuid.UUID
}

// ListUsersInput contains input for listing users
type ListUsersInput struct {
	CompanyID *uuid.UUID
	Active    *bool
	Filter    shared.Filter
}

// UpdateUserInput contains input for updating a user's profile
type UpdateUserInput struct {
	CompanyID *uuid.UUID
	UserID    uuid.UUID
	Email     string
	FullName  string
}

// AssignRolesInput replaces a user's role assignments
type AssignRolesInput struct {
	CompanyID *uuid.UUID
	UserID    uuid.UUID
	RoleIDs   []uuid.UUID
}

// SetUserStatusInput activates or deactivates a user
type SetUserStatusInput struct {
	CompanyID *uuid.UUID
	UserID    uuid.UUID
	Active    bool
}

// DeleteUserInput contains input for deleting a user
type DeleteUserInput struct {
	CompanyID *uuid.UUID
	UserID    uuid.UUID
}

// UserDTO represents user data returned to callers
type UserDTO struct {
	ID          uuid.UUID   `json:"id"`
	CompanyID   *uuid.UUID  `json:"company_id,omitempty"`
	Email       string      `json:"email"`
	FullName    string      `json:"full_name"`
	Active      bool        `json:"active"`
	Superuser   bool        `json:"superuser"`
	RoleIDs     []uuid.UUID `json:"role_ids"`
	LastLoginAt *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func userToDTO(user *identity.User) UserDTO {
	roleIDs := user.RoleIDs
	if roleIDs == nil {
		roleIDs = []uuid.UUID{}
	}
	return UserDTO{
		ID:          user.ID,
		CompanyID:   user.CompanyID,
		Email:       user.Email,
		FullName:    user.FullName,
		Active:      user.Active,
		Superuser:   user.Superuser,
		RoleIDs:     roleIDs,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

// CreateUser creates a new user inside a company
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Error("Failed to check email uniqueness", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to verify email")
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "Email is already in use")
	}

	if err := s.validateRoles(ctx, input.CompanyID, input.RoleIDs); err != nil {
		return nil, err
	}

	user, err := identity.NewUser(input.Email, input.Password, input.FullName, input.CompanyID)
	if err != nil {
		return nil, err
	}
	if len(input.RoleIDs) > 0 {
		user.SetRoles(input.RoleIDs)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create user")
	}

	if err := s.eventBus.Publish(ctx, user.GetDomainEvents()...); err != nil {
		s.logger.Error("Failed to publish user events", zap.Error(err))
	}
	user.ClearDomainEvents()

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("company_id", input.CompanyID.String()),
		zap.String("email", user.Email))

	dto := userToDTO(user)
	return &dto, nil
}

// CreateSuperuser creates a platform superuser with no company binding.
// Used by the seed command and by existing superusers.
func (s *UserService) CreateSuperuser(ctx context.Context, input CreateSuperuserInput) (*UserDTO, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Error("Failed to check email uniqueness", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to verify email")
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "Email is already in use")
	}

	user, err := identity.NewSuperuser(input.Email, input.Password, input.FullName)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create superuser", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create user")
	}

	s.logger.Info("Superuser created", zap.String("email", user.Email))

	dto := userToDTO(user)
	return &dto, nil
}

// GetUser retrieves a user, enforcing company scope for non-superuser callers
func (s *UserService) GetUser(ctx context.Context, input GetUserInput) (*UserDTO, error) {
	user, err := s.findScopedUser(ctx, input.CompanyID, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.LoadUserRoles(ctx, user); err != nil {
		s.logger.Error("Failed to load user roles", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user roles")
	}

	dto := userToDTO(user)
	return &dto, nil
}

// ListUsers lists users matching the filter. Role assignments are not
// loaded for list results.
func (s *UserService) ListUsers(ctx context.Context, input ListUsersInput) (*shared.Paginated[UserDTO], error) {
	filter := identity.UserFilter{
		Filter:    input.Filter.Normalize(),
		CompanyID: input.CompanyID,
		Active:    input.Active,
	}

	users, total, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list users")
	}

	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = userToDTO(user)
	}

	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateUser updates a user's email and full name
func (s *UserService) UpdateUser(ctx context.Context, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.findScopedUser(ctx, input.CompanyID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
		if err != nil {
			s.logger.Error("Failed to check email uniqueness", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to verify email")
		}
		if exists {
			return nil, shared.NewDomainError("EMAIL_TAKEN", "Email is already in use")
		}
	}

	if err := user.UpdateProfile(input.Email, input.FullName); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if err == shared.ErrConcurrencyConflict {
			return nil, shared.NewDomainError("CONCURRENCY_CONFLICT", "User was modified concurrently")
		}
		s.logger.Error("Failed to update user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update user")
	}

	dto := userToDTO(user)
	return &dto, nil
}

// AssignRoles replaces a user's role assignments. Every role must belong
// to the user's company or be a global system role.
func (s *UserService) AssignRoles(ctx context.Context, input AssignRolesInput) (*UserDTO, error) {
	user, err := s.findScopedUser(ctx, input.CompanyID, input.UserID)
	if err != nil {
		return nil, err
	}
	if user.CompanyID == nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Superusers do not hold roles")
	}

	if err := s.validateRoles(ctx, *user.CompanyID, input.RoleIDs); err != nil {
		return nil, err
	}

	user.SetRoles(input.RoleIDs)

	if err := s.userRepo.Update(ctx, user); err != nil {
		if err == shared.ErrConcurrencyConflict {
			return nil, shared.NewDomainError("CONCURRENCY_CONFLICT", "User was modified concurrently")
		}
		s.logger.Error("Failed to update user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update user")
	}

	if err := s.userRepo.SaveUserRoles(ctx, user); err != nil {
		s.logger.Error("Failed to save user roles", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save user roles")
	}

	s.logger.Info("User roles updated",
		zap.String("user_id", user.ID.String()),
		zap.Int("role_count", len(input.RoleIDs)))

	dto := userToDTO(user)
	return &dto, nil
}

// SetUserStatus activates or deactivates a user. Deactivated users cannot
// log in or refresh tokens.
func (s *UserService) SetUserStatus(ctx context.Context, input SetUserStatusInput) (*UserDTO, error) {
	user, err := s.findScopedUser(ctx, input.CompanyID, input.UserID)
	if err != nil {
		return nil, err
	}

	// No state change, nothing to persist
	if input.Active == user.Active {
		dto := userToDTO(user)
		return &dto, nil
	}

	if input.Active {
		user.Activate()
	} else {
		user.Deactivate()
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if err == shared.ErrConcurrencyConflict {
			return nil, shared.NewDomainError("CONCURRENCY_CONFLICT", "User was modified concurrently")
		}
		s.logger.Error("Failed to update user status", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update user")
	}

	dto := userToDTO(user)
	return &dto, nil
}

// DeleteUser removes a user and its role assignments
func (s *UserService) DeleteUser(ctx context.Context, input DeleteUserInput) error {
	user, err := s.findScopedUser(ctx, input.CompanyID, input.UserID)
	if err != nil {
		return err
	}
	if user.Superuser {
		return shared.NewDomainError("FORBIDDEN", "Superusers cannot be deleted")
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		if err == shared.ErrNotFound {
			return shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		s.logger.Error("Failed to delete user", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete user")
	}

	s.logger.Info("User deleted", zap.String("user_id", user.ID.String()))
	return nil
}

// findScopedUser loads a user and hides users outside the caller's company
func (s *UserService) findScopedUser(ctx context.Context, companyID *uuid.UUID, userID uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		return nil, err
	}
	if companyID != nil && !user.BelongsTo(*companyID) {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	return user, nil
}

// validateRoles checks that every role exists and is usable by the company
func (s *UserService) validateRoles(ctx context.Context, companyID uuid.UUID, roleIDs []uuid.UUID) error {
	if len(roleIDs) == 0 {
		return nil
	}

	roles, err := s.roleRepo.FindByIDs(ctx, roleIDs)
	if err != nil {
		s.logger.Error("Failed to load roles", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to load roles")
	}

	found := make(map[uuid.UUID]*identity.Role, len(roles))
	for _, role := range roles {
		found[role.ID] = role
	}
	for _, id := range roleIDs {
		role, ok := found[id]
		if !ok {
			return shared.NewDomainError("ROLE_NOT_FOUND", "Role not found: "+id.String())
		}
		if !role.IsGlobal() && *role.CompanyID != companyID {
			return shared.NewDomainError("ROLE_NOT_FOUND", "Role not found: "+id.String())
		}
	}
	return nil
}
