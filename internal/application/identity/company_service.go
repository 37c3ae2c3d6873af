package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/identity"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/hrms/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// MaxBrandingAssetSize is the upload size cap for branding images
const MaxBrandingAssetSize = 2 << 20 // 2 MiB

// CompanyService handles company (tenant) management operations
type CompanyService struct {
	companyRepo identity.CompanyRepository
	fileStorage storage.FileStorage
	eventBus    shared.EventPublisher
	logger      *zap.Logger
}

// NewCompanyService creates a new company service
func NewCompanyService(
	companyRepo identity.CompanyRepository,
	fileStorage storage.FileStorage,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		fileStorage: fileStorage,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// CreateCompanyInput contains input for creating a company
type CreateCompanyInput struct {
	Name      string
	Subdomain string
}

// AddressInput carries a postal address in its transport shape
type AddressInput struct {
	Line    string `json:"line"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// UpdateCompanyInput contains input for updating a company profile
type UpdateCompanyInput struct {
	ID                uuid.UUID
	Address           *AddressInput
	GSTIN             string
	PAN               string
	ContactEmail      string
	ContactPhone      string
	BankAccountName   string
	BankAccountNumber string
	BankIFSC          string
}

// UploadBrandingAssetInput contains input for a branding asset upload
type UploadBrandingAssetInput struct {
	CompanyID uuid.UUID
	Kind      string // logo, signature, banner
	Filename  string
	Data      []byte
}

// CompanyDTO represents company data returned to callers
type CompanyDTO struct {
	ID              uuid.UUID    `json:"id"`
	Name            string       `json:"name"`
	Subdomain       string       `json:"subdomain"`
	Status          string       `json:"status"`
	Address         AddressInput `json:"address"`
	GSTIN           string       `json:"gstin,omitempty"`
	PAN             string       `json:"pan,omitempty"`
	ContactEmail    string       `json:"contact_email,omitempty"`
	ContactPhone    string       `json:"contact_phone,omitempty"`
	BankAccountName string       `json:"bank_account_name,omitempty"`
	BankAccountNo   string       `json:"bank_account_number,omitempty"`
	BankIFSC        string       `json:"bank_ifsc,omitempty"`
	LogoURL         string       `json:"logo_url,omitempty"`
	SignatureURL    string       `json:"signature_url,omitempty"`
	BannerURL       string       `json:"banner_url,omitempty"`
	ProfileComplete bool         `json:"profile_complete"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

func companyToDTO(company *identity.Company) CompanyDTO {
	return CompanyDTO{
		ID:        company.ID,
		Name:      company.Name,
		Subdomain: company.Subdomain,
		Status:    string(company.Status),
		Address: AddressInput{
			Line:    company.Address.Line(),
			City:    company.Address.City(),
			State:   company.Address.State(),
			Pincode: company.Address.Pincode(),
		},
		GSTIN:           company.GSTIN,
		PAN:             company.PAN,
		ContactEmail:    company.ContactEmail,
		ContactPhone:    company.ContactPhone,
		BankAccountName: company.BankAccountName,
		BankAccountNo:   company.BankAccountNumber,
		BankIFSC:        company.BankIFSC,
		LogoURL:         company.LogoURL,
		SignatureURL:    company.SignatureURL,
		BannerURL:       company.BannerURL,
		ProfileComplete: company.ProfileComplete(),
		CreatedAt:       company.CreatedAt,
		UpdatedAt:       company.UpdatedAt,
	}
}

// CreateCompany registers a new tenant. Subdomains are unique across the
// platform; a taken subdomain is a conflict, not a validation error.
func (s *CompanyService) CreateCompany(ctx context.Context, input CreateCompanyInput) (*CompanyDTO, error) {
	subdomain, err := identity.NormalizeSubdomain(input.Subdomain)
	if err != nil {
		return nil, err
	}

	exists, err := s.companyRepo.ExistsBySubdomain(ctx, subdomain)
	if err != nil {
		s.logger.Error("Failed to check subdomain uniqueness", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to verify subdomain")
	}
	if exists {
		return nil, shared.NewDomainError("SUBDOMAIN_TAKEN", "Subdomain is already in use")
	}

	company, err := identity.NewCompany(input.Name, subdomain)
	if err != nil {
		return nil, err
	}

	if err := s.companyRepo.Save(ctx, company); err != nil {
		s.logger.Error("Failed to save company", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create company")
	}

	// Default roles are seeded by the company-created handler
	if err := s.eventBus.Publish(ctx, company.GetDomainEvents()...); err != nil {
		s.logger.Error("Failed to publish company events", zap.Error(err))
	}
	company.ClearDomainEvents()

	s.logger.Info("Company created",
		zap.String("company_id", company.ID.String()),
		zap.String("subdomain", company.Subdomain))

	dto := companyToDTO(company)
	return &dto, nil
}

// GetCompany retrieves a company by ID
func (s *CompanyService) GetCompany(ctx context.Context, id uuid.UUID) (*CompanyDTO, error) {
	company, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("COMPANY_NOT_FOUND", "Company not found")
		}
		return nil, err
	}
	dto := companyToDTO(company)
	return &dto, nil
}

// ListCompanies lists companies matching the filter. Superuser only; regular
// users see their own company through GetCompany.
func (s *CompanyService) ListCompanies(ctx context.Context, filter shared.Filter) (*shared.Paginated[CompanyDTO], error) {
	normalized := filter.Normalize()

	companies, err := s.companyRepo.FindAll(ctx, normalized)
	if err != nil {
		return nil, err
	}
	total, err := s.companyRepo.Count(ctx, normalized)
	if err != nil {
		return nil, err
	}

	dtos := make([]CompanyDTO, len(companies))
	for i := range companies {
		dtos[i] = companyToDTO(&companies[i])
	}

	result := shared.NewPaginated(dtos, total, normalized.Page, normalized.PageSize)
	return &result, nil
}

// UpdateCompany updates a company's profile fields
func (s *CompanyService) UpdateCompany(ctx context.Context, input UpdateCompanyInput) (*CompanyDTO, error) {
	company, err := s.companyRepo.FindByID(ctx, input.ID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("COMPANY_NOT_FOUND", "Company not found")
		}
		return nil, err
	}

	address := company.Address
	if input.Address != nil {
		address, err = valueobject.NewAddress(input.Address.Line, input.Address.City, input.Address.State, input.Address.Pincode)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
		}
	}

	if err := company.UpdateProfile(identity.CompanyProfileInput{
		Address:           address,
		GSTIN:             input.GSTIN,
		PAN:               input.PAN,
		ContactEmail:      input.ContactEmail,
		ContactPhone:      input.ContactPhone,
		BankAccountName:   input.BankAccountName,
		BankAccountNumber: input.BankAccountNumber,
		BankIFSC:          input.BankIFSC,
	}); err != nil {
		return nil, err
	}

	if err := s.companyRepo.Update(ctx, company); err != nil {
		if err == shared.ErrConcurrencyConflict {
			return nil, shared.NewDomainError("CONCURRENCY_CONFLICT", "Company was modified concurrently")
		}
		s.logger.Error("Failed to update company", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update company")
	}

	if err := s.eventBus.Publish(ctx, company.GetDomainEvents()...); err != nil {
		s.logger.Error("Failed to publish company events", zap.Error(err))
	}
	company.ClearDomainEvents()

	dto := companyToDTO(company)
	return &dto, nil
}

// UploadBrandingAsset stores a branding image for a company and records its
// URL. A company holds at most one file per asset kind: uploading a .png
// logo removes an earlier .jpg logo.
func (s *CompanyService) UploadBrandingAsset(ctx context.Context, input UploadBrandingAssetInput) (*CompanyDTO, error) {
	if !identity.ValidBrandingAssetKind(input.Kind) {
		return nil, shared.NewDomainError("INVALID_ASSET_KIND", "Asset kind must be logo, signature or banner")
	}
	if len(input.Data) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Uploaded file is empty")
	}
	if len(input.Data) > MaxBrandingAssetSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE", "Uploaded file exceeds the 2 MiB limit")
	}

	ext, err := storage.ImageExtension(input.Filename)
	if err != nil {
		return nil, shared.NewDomainError("UNSUPPORTED_FILE_TYPE", "Only png, jpg and jpeg files are accepted")
	}

	company, err := s.companyRepo.FindByID(ctx, input.CompanyID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("COMPANY_NOT_FOUND", "Company not found")
		}
		return nil, err
	}

	key := storage.BrandingKey(company.ID, input.Kind, ext)
	url, err := s.fileStorage.Save(ctx, key, input.Data, storage.ImageContentType(ext))
	if err != nil {
		s.logger.Error("Failed to store branding asset", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to store file")
	}

	// Remove stale variants with other extensions
	for _, variant := range storage.ImageExtensionVariants(ext) {
		variantKey := storage.BrandingKey(company.ID, input.Kind, variant)
		if err := s.fileStorage.Delete(ctx, variantKey); err != nil {
			s.logger.Warn("Failed to delete stale branding variant",
				zap.String("key", variantKey), zap.Error(err))
		}
	}

	if err := company.SetBrandingAsset(identity.BrandingAssetKind(input.Kind), url); err != nil {
		return nil, err
	}

	if err := s.companyRepo.Update(ctx, company); err != nil {
		if err == shared.ErrConcurrencyConflict {
			return nil, shared.NewDomainError("CONCURRENCY_CONFLICT", "Company was modified concurrently")
		}
		s.logger.Error("Failed to update company after upload", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update company")
	}

	s.logger.Info("Branding asset uploaded",
		zap.String("company_id", company.ID.String()),
		zap.String("kind", input.Kind),
		zap.String("key", key))

	dto := companyToDTO(company)
	return &dto, nil
}

// SetCompanyStatus activates or deactivates a company
func (s *CompanyService) SetCompanyStatus(ctx context.Context, id uuid.UUID, active bool) (*CompanyDTO, error) {
	company, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("COMPANY_NOT_FOUND", "Company not found")
		}
		return nil, err
	}

	// No state change, nothing to persist
	if active == company.IsActive() {
		dto := companyToDTO(company)
		return &dto, nil
	}

	if active {
		company.Activate()
	} else {
		company.Deactivate()
	}

	if err := s.companyRepo.Update(ctx, company); err != nil {
		if err == shared.ErrConcurrencyConflict {
			return nil, shared.NewDomainError("CONCURRENCY_CONFLICT", "Company was modified concurrently")
		}
		return nil, err
	}

	if err := s.eventBus.Publish(ctx, company.GetDomainEvents()...); err != nil {
		s.logger.Error("Failed to publish company events", zap.Error(err))
	}
	company.ClearDomainEvents()

	dto := companyToDTO(company)
	return &dto, nil
}
