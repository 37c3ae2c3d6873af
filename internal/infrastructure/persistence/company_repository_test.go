package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/identity"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockCompanyRepository creates a GormCompanyRepository with a mocked SQL connection
func newMockCompanyRepository(t *testing.T) (*GormCompanyRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormCompanyRepository(gormDB), mock, mockDB
}

func TestNewGormCompanyRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		repo, _, mockDB := newMockCompanyRepository(t)
		defer mockDB.Close()

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormCompanyRepository_FindByID(t *testing.T) {
	t.Run("finds existing company", func(t *testing.T) {
		repo, mock, mockDB := newMockCompanyRepository(t)
		defer mockDB.Close()

		companyID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "name", "subdomain", "status", "version"}).
			AddRow(companyID, "Acme Staffing", "acme", "active", 1)

		mock.ExpectQuery(`SELECT \* FROM "companies" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(companyID, 1).
			WillReturnRows(rows)

		company, err := repo.FindByID(context.Background(), companyID)

		assert.NoError(t, err)
		assert.NotNil(t, company)
		assert.Equal(t, companyID, company.ID)
		assert.Equal(t, "Acme Staffing", company.Name)
		assert.Equal(t, identity.CompanyStatusActive, company.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent company", func(t *testing.T) {
		repo, mock, mockDB := newMockCompanyRepository(t)
		defer mockDB.Close()

		companyID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "companies" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(companyID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		company, err := repo.FindByID(context.Background(), companyID)

		assert.Error(t, err)
		assert.Nil(t, company)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCompanyRepository_FindBySubdomain(t *testing.T) {
	t.Run("finds company by subdomain", func(t *testing.T) {
		repo, mock, mockDB := newMockCompanyRepository(t)
		defer mockDB.Close()

		companyID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "name", "subdomain", "status", "version"}).
			AddRow(companyID, "Acme Staffing", "acme", "active", 1)

		mock.ExpectQuery(`SELECT \* FROM "companies" WHERE subdomain = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("acme", 1).
			WillReturnRows(rows)

		company, err := repo.FindBySubdomain(context.Background(), "ACME") // mixed case to test lowercasing

		assert.NoError(t, err)
		assert.NotNil(t, company)
		assert.Equal(t, "acme", company.Subdomain)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for unknown subdomain", func(t *testing.T) {
		repo, mock, mockDB := newMockCompanyRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "companies" WHERE subdomain = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("nobody", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		company, err := repo.FindBySubdomain(context.Background(), "nobody")

		assert.Nil(t, company)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCompanyRepository_ExistsBySubdomain(t *testing.T) {
	t.Run("returns true when subdomain is taken", func(t *testing.T) {
		repo, mock, mockDB := newMockCompanyRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "companies" WHERE subdomain = \$1`).
			WithArgs("acme").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsBySubdomain(context.Background(), "Acme")

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns false when subdomain is free", func(t *testing.T) {
		repo, mock, mockDB := newMockCompanyRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "companies" WHERE subdomain = \$1`).
			WithArgs("fresh").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsBySubdomain(context.Background(), "fresh")

		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCompanyRepository_Update(t *testing.T) {
	t.Run("returns concurrency conflict when version moved on", func(t *testing.T) {
		repo, mock, mockDB := newMockCompanyRepository(t)
		defer mockDB.Close()

		company, err := identity.NewCompany("Acme Staffing", "acme")
		require.NoError(t, err)
		require.NoError(t, company.Rename("Acme Talent"))

		mock.ExpectExec(`UPDATE "companies" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.Update(context.Background(), company)

		assert.Equal(t, shared.ErrConcurrencyConflict, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("succeeds when version matches", func(t *testing.T) {
		repo, mock, mockDB := newMockCompanyRepository(t)
		defer mockDB.Close()

		company, err := identity.NewCompany("Acme Staffing", "acme")
		require.NoError(t, err)
		require.NoError(t, company.Rename("Acme Talent"))

		mock.ExpectExec(`UPDATE "companies" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Update(context.Background(), company)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
