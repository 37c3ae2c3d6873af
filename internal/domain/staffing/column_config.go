package staffing

import (
	"strings"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
)

// ColumnType enumerates the supported candidate data column types
type ColumnType string

const (
	ColumnTypeText   ColumnType = "text"
	ColumnTypeNumber ColumnType = "number"
	ColumnTypeDate   ColumnType = "date"
	ColumnTypeEmail  ColumnType = "email"
	ColumnTypePhone  ColumnType = "phone"
)

// ColumnDefinition describes one column of a client's candidate sheet
type ColumnDefinition struct {
	Key      string     `json:"key"`
	Label    string     `json:"label"`
	Type     ColumnType `json:"type"`
	Required bool       `json:"required"`
}

// Reserved column keys every configuration must carry
const (
	ColumnCandidateName = "candidate_name"
	ColumnAmount        = "amount"
)

// DefaultColumnDefinitions returns the columns used when a client has no
// custom configuration
func DefaultColumnDefinitions() []ColumnDefinition {
	return []ColumnDefinition{
		{Key: ColumnCandidateName, Label: "Candidate Name", Type: ColumnTypeText, Required: true},
		{Key: "designation", Label: "Designation", Type: ColumnTypeText, Required: false},
		{Key: "joining_date", Label: "Joining Date", Type: ColumnTypeDate, Required: false},
		{Key: ColumnAmount, Label: "Amount", Type: ColumnTypeNumber, Required: true},
	}
}

// ColumnConfig holds the per-client candidate sheet layout. At most one
// configuration exists per client.
type ColumnConfig struct {
	shared.CompanyAggregateRoot
	ClientID uuid.UUID
	Columns  []ColumnDefinition
}

// NewColumnConfig creates a column configuration for a client
func NewColumnConfig(companyID, clientID uuid.UUID, columns []ColumnDefinition) (*ColumnConfig, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Column config must reference a client")
	}
	cfg := &ColumnConfig{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		ClientID:             clientID,
	}
	if err := cfg.SetColumns(columns); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetColumns validates and replaces the column definitions. The reserved
// candidate_name and amount columns are always present and required.
func (c *ColumnConfig) SetColumns(columns []ColumnDefinition) error {
	seen := make(map[string]bool, len(columns))
	cleaned := make([]ColumnDefinition, 0, len(columns))

	for _, col := range columns {
		key := strings.TrimSpace(strings.ToLower(col.Key))
		if key == "" {
			return shared.NewDomainError("INVALID_COLUMN", "Column key cannot be empty")
		}
		if seen[key] {
			return shared.NewDomainError("DUPLICATE_COLUMN", "Duplicate column key: "+key)
		}
		switch col.Type {
		case ColumnTypeText, ColumnTypeNumber, ColumnTypeDate, ColumnTypeEmail, ColumnTypePhone:
		default:
			return shared.NewDomainError("INVALID_COLUMN", "Unknown column type for "+key)
		}
		label := strings.TrimSpace(col.Label)
		if label == "" {
			label = key
		}
		seen[key] = true
		cleaned = append(cleaned, ColumnDefinition{Key: key, Label: label, Type: col.Type, Required: col.Required})
	}

	// Reserved columns cannot be dropped or made optional
	if !seen[ColumnCandidateName] {
		cleaned = append([]ColumnDefinition{{Key: ColumnCandidateName, Label: "Candidate Name", Type: ColumnTypeText, Required: true}}, cleaned...)
	}
	if !seen[ColumnAmount] {
		cleaned = append(cleaned, ColumnDefinition{Key: ColumnAmount, Label: "Amount", Type: ColumnTypeNumber, Required: true})
	}
	for i := range cleaned {
		if cleaned[i].Key == ColumnCandidateName || cleaned[i].Key == ColumnAmount {
			cleaned[i].Required = true
		}
	}

	c.Columns = cleaned
	c.IncrementVersion()
	return nil
}

// RequiredKeys returns the keys of all required columns
func (c *ColumnConfig) RequiredKeys() []string {
	keys := make([]string, 0, len(c.Columns))
	for _, col := range c.Columns {
		if col.Required {
			keys = append(keys, col.Key)
		}
	}
	return keys
}
