package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	billingapp "github.com/hrms/backend/internal/application/billing"
	identityapp "github.com/hrms/backend/internal/application/identity"
	staffingapp "github.com/hrms/backend/internal/application/staffing"
	"github.com/hrms/backend/internal/infrastructure/auth"
	"github.com/hrms/backend/internal/infrastructure/config"
	"github.com/hrms/backend/internal/infrastructure/event"
	"github.com/hrms/backend/internal/infrastructure/persistence"
	"github.com/hrms/backend/internal/infrastructure/storage"
)

// staticPDFRenderer stands in for the Chrome-backed renderer; integration
// tests exercise the invoice lifecycle, not PDF fidelity.
type staticPDFRenderer struct{}

func (r *staticPDFRenderer) Render(_ context.Context, _ string) ([]byte, error) {
	return []byte("%PDF-1.4 test document"), nil
}

func (r *staticPDFRenderer) Close() error { return nil }

// testEnv wires real repositories and services against a containerized
// PostgreSQL instance.
type testEnv struct {
	db *TestDB

	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist

	authService      *identityapp.AuthService
	companyService   *identityapp.CompanyService
	userService      *identityapp.UserService
	roleService      *identityapp.RoleService
	clientService    *staffingapp.ClientService
	columnService    *staffingapp.ColumnConfigService
	candidateService *staffingapp.CandidateService
	invoiceService   *billingapp.InvoiceService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tdb := NewTestDB(t)
	log := zap.NewNop()

	companyRepo := persistence.NewGormCompanyRepository(tdb.DB)
	userRepo := persistence.NewGormUserRepository(tdb.DB)
	roleRepo := persistence.NewGormRoleRepository(tdb.DB)
	clientRepo := persistence.NewGormClientRepository(tdb.DB)
	columnRepo := persistence.NewGormColumnConfigRepository(tdb.DB)
	candidateRepo := persistence.NewGormCandidateRepository(tdb.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(tdb.DB)

	fileStorage, err := storage.NewLocalFileStorage(config.LocalStorageConfig{
		Dir:     t.TempDir(),
		BaseURL: "/uploads",
	})
	require.NoError(t, err)

	eventBus := event.NewInMemoryEventBus(log)
	roleSeeder := identityapp.NewRoleSeeder(roleRepo, log)
	eventBus.Subscribe(roleSeeder, roleSeeder.EventTypes()...)
	require.NoError(t, eventBus.Start(context.Background()))
	t.Cleanup(func() {
		_ = eventBus.Stop(context.Background())
	})

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "integration-test-secret-0123456789abcdef",
		AccessTokenExpiration:  30 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "hrms-test",
		MaxRefreshCount:        10,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	return &testEnv{
		db:             tdb,
		jwtService:     jwtService,
		blacklist:      blacklist,
		authService:    identityapp.NewAuthService(userRepo, companyRepo, jwtService, blacklist, identityapp.DefaultAuthServiceConfig(), log),
		companyService: identityapp.NewCompanyService(companyRepo, fileStorage, eventBus, log),
		userService:    identityapp.NewUserService(userRepo, roleRepo, eventBus, log),
		roleService:    identityapp.NewRoleService(roleRepo, log),
		clientService:  staffingapp.NewClientService(clientRepo, columnRepo, eventBus, log),
		columnService:  staffingapp.NewColumnConfigService(columnRepo, clientRepo, log),
		candidateService: staffingapp.NewCandidateService(
			candidateRepo, clientRepo, columnRepo, log,
		),
		invoiceService: billingapp.NewInvoiceService(
			invoiceRepo, clientRepo, candidateRepo, columnRepo, companyRepo,
			&staticPDFRenderer{}, fileStorage, eventBus, log,
		),
	}
}

// waitForSeededRoles waits for the asynchronous role seeding triggered by
// company creation.
func (env *testEnv) waitForSeededRoles(t *testing.T, companyID interface{ String() string }) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		var count int64
		err := env.db.DB.Raw(
			"SELECT COUNT(*) FROM roles WHERE company_id = ?", companyID.String(),
		).Scan(&count).Error
		require.NoError(t, err)
		if count >= 2 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("default roles were not seeded in time")
}
