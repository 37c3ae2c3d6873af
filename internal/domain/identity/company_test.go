package identity

import (
	"testing"

	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompany(t *testing.T) {
	t.Run("creates active company with normalized subdomain", func(t *testing.T) {
		company, err := NewCompany("Acme Corp", "  ACME  ")
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", company.Name)
		assert.Equal(t, "acme", company.Subdomain)
		assert.Equal(t, CompanyStatusActive, company.Status)
		assert.True(t, company.IsActive())
	})

	t.Run("publishes created event", func(t *testing.T) {
		company, err := NewCompany("Acme Corp", "acme")
		require.NoError(t, err)
		events := company.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventCompanyCreated, events[0].EventType())
		assert.Equal(t, company.ID, events[0].CompanyID())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewCompany("", "acme")
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_COMPANY_NAME", domainErr.Code)
	})

	t.Run("rejects invalid subdomains", func(t *testing.T) {
		for _, subdomain := range []string{"ab", "-acme", "acme-", "acme corp", "UPPER CASE!", "a_b_c"} {
			_, err := NewCompany("Acme", subdomain)
			assert.Error(t, err, "subdomain %q should be rejected", subdomain)
		}
	})

	t.Run("accepts hyphenated subdomains", func(t *testing.T) {
		company, err := NewCompany("Acme", "acme-staffing-2")
		require.NoError(t, err)
		assert.Equal(t, "acme-staffing-2", company.Subdomain)
	})
}

func completeProfileInput() CompanyProfileInput {
	return CompanyProfileInput{
		Address:           valueobject.MustNewAddress("12 MG Road", "Bengaluru", "Karnataka", "560001"),
		GSTIN:             "29ABCDE1234F1Z5",
		PAN:               "ABCDE1234F",
		ContactEmail:      "ops@acme.example",
		ContactPhone:      "+91-9999999999",
		BankAccountName:   "Acme Corp",
		BankAccountNumber: "000111222333",
		BankIFSC:          "HDFC0001234",
	}
}

func TestCompanyUpdateProfile(t *testing.T) {
	t.Run("stores normalized fields", func(t *testing.T) {
		company, _ := NewCompany("Acme", "acme")
		input := completeProfileInput()
		input.GSTIN = "29abcde1234f1z5"
		input.ContactEmail = "OPS@Acme.Example"
		require.NoError(t, company.UpdateProfile(input))
		assert.Equal(t, "29ABCDE1234F1Z5", company.GSTIN)
		assert.Equal(t, "ops@acme.example", company.ContactEmail)
	})

	t.Run("rejects malformed GSTIN", func(t *testing.T) {
		company, _ := NewCompany("Acme", "acme")
		input := completeProfileInput()
		input.GSTIN = "TOO-SHORT"
		assert.Error(t, company.UpdateProfile(input))
	})

	t.Run("rejects malformed PAN", func(t *testing.T) {
		company, _ := NewCompany("Acme", "acme")
		input := completeProfileInput()
		input.PAN = "1234567890"
		assert.Error(t, company.UpdateProfile(input))
	})
}

func TestCompanyProfileComplete(t *testing.T) {
	t.Run("false for fresh company", func(t *testing.T) {
		company, _ := NewCompany("Acme", "acme")
		assert.False(t, company.ProfileComplete())
	})

	t.Run("true only when every required field is set", func(t *testing.T) {
		company, _ := NewCompany("Acme", "acme")
		require.NoError(t, company.UpdateProfile(completeProfileInput()))
		// Logo still missing
		assert.False(t, company.ProfileComplete())

		require.NoError(t, company.SetBrandingAsset(BrandingAssetLogo, "/uploads/companies/x/logo.png"))
		assert.True(t, company.ProfileComplete())
	})

	t.Run("false again when a required field is cleared", func(t *testing.T) {
		company, _ := NewCompany("Acme", "acme")
		require.NoError(t, company.UpdateProfile(completeProfileInput()))
		require.NoError(t, company.SetBrandingAsset(BrandingAssetLogo, "/uploads/companies/x/logo.png"))
		require.True(t, company.ProfileComplete())

		input := completeProfileInput()
		input.BankIFSC = ""
		require.NoError(t, company.UpdateProfile(input))
		assert.False(t, company.ProfileComplete())
	})
}

func TestCompanyBrandingAssets(t *testing.T) {
	company, _ := NewCompany("Acme", "acme")
	require.NoError(t, company.SetBrandingAsset(BrandingAssetSignature, "/uploads/companies/x/signature.png"))
	assert.Equal(t, "/uploads/companies/x/signature.png", company.SignatureURL)

	err := company.SetBrandingAsset(BrandingAssetKind("watermark"), "/x.png")
	assert.Error(t, err)
}

func TestCompanyStatusTransitions(t *testing.T) {
	company, _ := NewCompany("Acme", "acme")
	company.ClearDomainEvents()

	company.Deactivate()
	assert.False(t, company.IsActive())
	require.Len(t, company.GetDomainEvents(), 1)

	// Idempotent
	company.Deactivate()
	assert.Len(t, company.GetDomainEvents(), 1)

	company.Activate()
	assert.True(t, company.IsActive())
}
