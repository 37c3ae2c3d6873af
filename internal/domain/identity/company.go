package identity

import (
	"regexp"
	"strings"

	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
)

// CompanyStatus represents the lifecycle state of a company
type CompanyStatus string

const (
	CompanyStatusActive   CompanyStatus = "active"
	CompanyStatusInactive CompanyStatus = "inactive"
)

// BrandingAssetKind identifies an uploadable company branding asset
type BrandingAssetKind string

const (
	BrandingAssetLogo      BrandingAssetKind = "logo"
	BrandingAssetSignature BrandingAssetKind = "signature"
	BrandingAssetBanner    BrandingAssetKind = "banner"
)

// ValidBrandingAssetKind reports whether kind names a known branding asset
func ValidBrandingAssetKind(kind string) bool {
	switch BrandingAssetKind(kind) {
	case BrandingAssetLogo, BrandingAssetSignature, BrandingAssetBanner:
		return true
	}
	return false
}

var (
	subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)
	gstinPattern     = regexp.MustCompile(`^[0-9A-Z]{15}$`)
	panPattern       = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	emailPattern     = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// Company is the tenant aggregate. Every user, client, candidate and invoice
// in the system belongs to exactly one company.
type Company struct {
	shared.BaseAggregateRoot
	Name      string
	Subdomain string
	Status    CompanyStatus

	// Profile fields, all required for ProfileComplete
	Address           valueobject.Address
	GSTIN             string
	PAN               string
	ContactEmail      string
	ContactPhone      string
	BankAccountName   string
	BankAccountNumber string
	BankIFSC          string

	// Branding asset URLs, populated via file uploads
	LogoURL      string
	SignatureURL string
	BannerURL    string
}

// NewCompany creates a new active company with a validated subdomain
func NewCompany(name, subdomain string) (*Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot exceed 200 characters")
	}

	subdomain, err := NormalizeSubdomain(subdomain)
	if err != nil {
		return nil, err
	}

	company := &Company{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Subdomain:         subdomain,
		Status:            CompanyStatusActive,
	}

	company.AddDomainEvent(NewCompanyCreatedEvent(company))
	return company, nil
}

// NormalizeSubdomain lowercases and validates a tenant subdomain
func NormalizeSubdomain(subdomain string) (string, error) {
	subdomain = strings.ToLower(strings.TrimSpace(subdomain))
	if len(subdomain) < 3 || len(subdomain) > 63 {
		return "", shared.NewDomainError("INVALID_SUBDOMAIN", "Subdomain must be between 3 and 63 characters")
	}
	if !subdomainPattern.MatchString(subdomain) {
		return "", shared.NewDomainError("INVALID_SUBDOMAIN", "Subdomain may only contain lowercase letters, digits and hyphens, and cannot start or end with a hyphen")
	}
	return subdomain, nil
}

// Rename changes the display name
func (c *Company) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot be empty")
	}
	c.Name = name
	c.IncrementVersion()
	return nil
}

// CompanyProfileInput carries the updatable profile fields
type CompanyProfileInput struct {
	Address           valueobject.Address
	GSTIN             string
	PAN               string
	ContactEmail      string
	ContactPhone      string
	BankAccountName   string
	BankAccountNumber string
	BankIFSC          string
}

// UpdateProfile replaces the company profile fields after validation
func (c *Company) UpdateProfile(input CompanyProfileInput) error {
	gstin := strings.ToUpper(strings.TrimSpace(input.GSTIN))
	if gstin != "" && !gstinPattern.MatchString(gstin) {
		return shared.NewDomainError("INVALID_GSTIN", "GSTIN must be a 15 character alphanumeric code")
	}
	pan := strings.ToUpper(strings.TrimSpace(input.PAN))
	if pan != "" && !panPattern.MatchString(pan) {
		return shared.NewDomainError("INVALID_PAN", "PAN must be a 10 character code")
	}
	email := strings.ToLower(strings.TrimSpace(input.ContactEmail))
	if email != "" && !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Contact email format is invalid")
	}

	c.Address = input.Address
	c.GSTIN = gstin
	c.PAN = pan
	c.ContactEmail = email
	c.ContactPhone = strings.TrimSpace(input.ContactPhone)
	c.BankAccountName = strings.TrimSpace(input.BankAccountName)
	c.BankAccountNumber = strings.TrimSpace(input.BankAccountNumber)
	c.BankIFSC = strings.ToUpper(strings.TrimSpace(input.BankIFSC))

	c.IncrementVersion()
	c.AddDomainEvent(NewCompanyProfileUpdatedEvent(c))
	return nil
}

// SetBrandingAsset records the stored URL for one of the branding assets
func (c *Company) SetBrandingAsset(kind BrandingAssetKind, url string) error {
	switch kind {
	case BrandingAssetLogo:
		c.LogoURL = url
	case BrandingAssetSignature:
		c.SignatureURL = url
	case BrandingAssetBanner:
		c.BannerURL = url
	default:
		return shared.NewDomainError("INVALID_ASSET_KIND", "Unknown branding asset kind")
	}
	c.IncrementVersion()
	return nil
}

// ProfileComplete reports whether every required profile field is filled in.
// The flag gates invoice generation: an incomplete profile cannot produce a
// well-formed invoice document.
func (c *Company) ProfileComplete() bool {
	return c.Address.IsComplete() &&
		c.GSTIN != "" &&
		c.PAN != "" &&
		c.ContactEmail != "" &&
		c.BankAccountName != "" &&
		c.BankAccountNumber != "" &&
		c.BankIFSC != "" &&
		c.LogoURL != ""
}

// Activate marks the company active
func (c *Company) Activate() {
	if c.Status == CompanyStatusActive {
		return
	}
	c.Status = CompanyStatusActive
	c.IncrementVersion()
	c.AddDomainEvent(NewCompanyStatusChangedEvent(c))
}

// Deactivate marks the company inactive; users of an inactive company cannot log in
func (c *Company) Deactivate() {
	if c.Status == CompanyStatusInactive {
		return
	}
	c.Status = CompanyStatusInactive
	c.IncrementVersion()
	c.AddDomainEvent(NewCompanyStatusChangedEvent(c))
}

// IsActive reports whether the company is active
func (c *Company) IsActive() bool {
	return c.Status == CompanyStatusActive
}
