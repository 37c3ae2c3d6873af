package staffing

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CandidateData is the schemaless candidate record keyed by column key
type CandidateData map[string]any

// Candidate is a placement record attached to a client. Its payload is a
// JSON document whose shape is driven by the client's column configuration;
// only candidate_name and amount are structurally guaranteed.
type Candidate struct {
	shared.CompanyAggregateRoot
	ClientID uuid.UUID
	Data     CandidateData
	Active   bool
}

// NewCandidate creates a candidate after validating its data against the
// client's column definitions
func NewCandidate(companyID, clientID uuid.UUID, data CandidateData, columns []ColumnDefinition) (*Candidate, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Candidate must belong to a client")
	}
	if err := ValidateCandidateData(data, columns); err != nil {
		return nil, err
	}
	return &Candidate{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		ClientID:             clientID,
		Data:                 data,
		Active:               true,
	}, nil
}

// UpdateData replaces the candidate payload after validation
func (c *Candidate) UpdateData(data CandidateData, columns []ColumnDefinition) error {
	if err := ValidateCandidateData(data, columns); err != nil {
		return err
	}
	c.Data = data
	c.IncrementVersion()
	return nil
}

// Name returns the candidate display name from the payload
func (c *Candidate) Name() string {
	if v, ok := c.Data[ColumnCandidateName].(string); ok {
		return v
	}
	return ""
}

// Amount returns the candidate placement amount from the payload
func (c *Candidate) Amount() (decimal.Decimal, error) {
	return parseAmount(c.Data[ColumnAmount])
}

// Activate enables the candidate record
func (c *Candidate) Activate() {
	if c.Active {
		return
	}
	c.Active = true
	c.IncrementVersion()
}

// Deactivate disables the candidate record
func (c *Candidate) Deactivate() {
	if !c.Active {
		return
	}
	c.Active = false
	c.IncrementVersion()
}

// ValidateCandidateData checks a payload against column definitions: every
// required column must be present and non-empty, number columns must hold
// parseable numeric values, and the amount must not be negative.
func ValidateCandidateData(data CandidateData, columns []ColumnDefinition) error {
	if data == nil {
		return shared.NewDomainError("INVALID_CANDIDATE_DATA", "Candidate data cannot be empty")
	}

	name, _ := data[ColumnCandidateName].(string)
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_CANDIDATE_DATA", "candidate_name is required")
	}
	amount, err := parseAmount(data[ColumnAmount])
	if err != nil {
		return shared.NewDomainError("INVALID_CANDIDATE_DATA", "amount must be a numeric value")
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_CANDIDATE_DATA", "amount cannot be negative")
	}

	for _, col := range columns {
		value, present := data[col.Key]
		if col.Required && (!present || isEmptyValue(value)) {
			return shared.NewDomainError("INVALID_CANDIDATE_DATA", fmt.Sprintf("required column %q is missing", col.Key))
		}
		if present && col.Type == ColumnTypeNumber && !isEmptyValue(value) {
			if _, err := parseAmount(value); err != nil {
				return shared.NewDomainError("INVALID_CANDIDATE_DATA", fmt.Sprintf("column %q must be numeric", col.Key))
			}
		}
	}
	return nil
}

func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}

func parseAmount(v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case float64:
		return decimal.NewFromFloat(t), nil
	case int:
		return decimal.NewFromInt(int64(t)), nil
	case int64:
		return decimal.NewFromInt(t), nil
	case json.Number:
		return decimal.NewFromString(t.String())
	case string:
		return decimal.NewFromString(strings.TrimSpace(t))
	case decimal.Decimal:
		return t, nil
	default:
		return decimal.Zero, fmt.Errorf("unsupported amount type %T", v)
	}
}
