package identity

import (
	"context"

	"github.com/hrms/backend/internal/domain/identity"
	"github.com/hrms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RoleSeeder seeds the default roles for a newly created company.
// It subscribes to the company-created event so every tenant starts with
// a company_admin and an employee role.
type RoleSeeder struct {
	roleRepo identity.RoleRepository
	logger   *zap.Logger
}

// NewRoleSeeder creates a new role seeder
func NewRoleSeeder(roleRepo identity.RoleRepository, logger *zap.Logger) *RoleSeeder {
	return &RoleSeeder{
		roleRepo: roleRepo,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *RoleSeeder) EventTypes() []string {
	return []string{identity.EventCompanyCreated}
}

// Handle seeds the default roles for the created company. Seeding is
// idempotent: roles that already exist are left untouched.
func (h *RoleSeeder) Handle(ctx context.Context, event shared.DomainEvent) error {
	if event.EventType() != identity.EventCompanyCreated {
		return nil
	}

	companyID := event.AggregateID()

	for _, role := range identity.DefaultCompanyRoles(companyID) {
		exists, err := h.roleRepo.ExistsByName(ctx, companyID, role.Name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := h.roleRepo.Create(ctx, role); err != nil {
			return err
		}
		h.logger.Info("Seeded default role",
			zap.String("company_id", companyID.String()),
			zap.String("role", role.Name))
	}

	return nil
}

// Ensure RoleSeeder implements EventHandler
var _ shared.EventHandler = (*RoleSeeder)(nil)
