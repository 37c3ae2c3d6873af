package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Address is a value object representing a postal address.
// It is immutable - all operations return new Address instances.
type Address struct {
	line    string
	city    string
	state   string
	pincode string
}

var pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// NewAddress creates a new Address. Line, city and state are required;
// pincode is optional but validated when present.
func NewAddress(line, city, state, pincode string) (Address, error) {
	line = strings.TrimSpace(line)
	city = strings.TrimSpace(city)
	state = strings.TrimSpace(state)
	pincode = strings.TrimSpace(pincode)

	if line == "" {
		return Address{}, fmt.Errorf("address line cannot be empty")
	}
	if len(line) > 500 {
		return Address{}, fmt.Errorf("address line cannot exceed 500 characters")
	}
	if city == "" {
		return Address{}, fmt.Errorf("city cannot be empty")
	}
	if len(city) > 100 {
		return Address{}, fmt.Errorf("city cannot exceed 100 characters")
	}
	if state == "" {
		return Address{}, fmt.Errorf("state cannot be empty")
	}
	if len(state) > 100 {
		return Address{}, fmt.Errorf("state cannot exceed 100 characters")
	}
	if pincode != "" && !pincodePattern.MatchString(pincode) {
		return Address{}, fmt.Errorf("pincode must be a 6 digit postal code")
	}

	return Address{line: line, city: city, state: state, pincode: pincode}, nil
}

// MustNewAddress creates a new Address, panics on error
func MustNewAddress(line, city, state, pincode string) Address {
	addr, err := NewAddress(line, city, state, pincode)
	if err != nil {
		panic(err)
	}
	return addr
}

// EmptyAddress returns an empty address (for optional address fields)
func EmptyAddress() Address {
	return Address{}
}

// Line returns the street address line
func (a Address) Line() string {
	return a.line
}

// City returns the city
func (a Address) City() string {
	return a.city
}

// State returns the state
func (a Address) State() string {
	return a.state
}

// Pincode returns the postal code
func (a Address) Pincode() string {
	return a.pincode
}

// IsEmpty returns true if all fields are blank
func (a Address) IsEmpty() bool {
	return a.line == "" && a.city == "" && a.state == "" && a.pincode == ""
}

// IsComplete returns true if every field including pincode is set
func (a Address) IsComplete() bool {
	return a.line != "" && a.city != "" && a.state != "" && a.pincode != ""
}

// String returns the formatted single-line address
func (a Address) String() string {
	if a.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, 4)
	for _, p := range []string{a.line, a.city, a.state, a.pincode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Equals returns true if both addresses are equal
func (a Address) Equals(other Address) bool {
	return a.line == other.line &&
		a.city == other.city &&
		a.state == other.state &&
		a.pincode == other.pincode
}

type addressJSON struct {
	Line    string `json:"line"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		Line:    a.line,
		City:    a.city,
		State:   a.state,
		Pincode: a.pincode,
	})
}

// UnmarshalJSON implements json.Unmarshaler. Empty addresses are allowed so
// that optional address columns round-trip cleanly.
func (a *Address) UnmarshalJSON(data []byte) error {
	var v addressJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Line == "" && v.City == "" && v.State == "" && v.Pincode == "" {
		*a = EmptyAddress()
		return nil
	}
	addr, err := NewAddress(v.Line, v.City, v.State, v.Pincode)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// Value implements driver.Valuer for database storage as a JSON column
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner for database retrieval
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = EmptyAddress()
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}

	if len(data) == 0 || string(data) == "null" {
		*a = EmptyAddress()
		return nil
	}

	return json.Unmarshal(data, a)
}
