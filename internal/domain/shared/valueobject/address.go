package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Address is a value object representing a postal address.
// It is immutable: all operations return new Address instances.
// Only the country takes part in method resolution.
type Address struct {
	name       string
	street     string
	city       string
	region     string
	postalCode string
	country    string
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithName sets the recipient name
func WithName(name string) AddressOption {
	return func(a *Address) {
		a.name = strings.TrimSpace(name)
	}
}

// WithStreet sets the street line
func WithStreet(street string) AddressOption {
	return func(a *Address) {
		a.street = strings.TrimSpace(street)
	}
}

// WithCity sets the city
func WithCity(city string) AddressOption {
	return func(a *Address) {
		a.city = strings.TrimSpace(city)
	}
}

// WithRegion sets the region or state
func WithRegion(region string) AddressOption {
	return func(a *Address) {
		a.region = strings.TrimSpace(region)
	}
}

// WithPostalCode sets the postal code for the address
func WithPostalCode(postalCode string) AddressOption {
	return func(a *Address) {
		a.postalCode = strings.TrimSpace(postalCode)
	}
}

// NewAddress creates a new Address in the given country.
// The country must be an ISO 3166-1 alpha-2 code.
func NewAddress(country string, opts ...AddressOption) (Address, error) {
	code, err := NormalizeCountry(country)
	if err != nil {
		return Address{}, err
	}

	addr := Address{country: code}
	for _, opt := range opts {
		opt(&addr)
	}

	if len(addr.name) > 255 {
		return Address{}, fmt.Errorf("name cannot exceed 255 characters")
	}
	if len(addr.postalCode) > 64 {
		return Address{}, fmt.Errorf("postal code cannot exceed 64 characters")
	}

	return addr, nil
}

// MustNewAddress creates a new Address, panics on error
func MustNewAddress(country string, opts ...AddressOption) Address {
	addr, err := NewAddress(country, opts...)
	if err != nil {
		panic(err)
	}
	return addr
}

// NormalizeCountry upper-cases and validates an ISO 3166-1 alpha-2 code
func NormalizeCountry(country string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(country))
	if code == "" {
		return "", fmt.Errorf("country cannot be empty")
	}
	if len(code) != 2 {
		return "", fmt.Errorf("country must be a two letter code, got %q", country)
	}
	region, err := language.ParseRegion(code)
	if err != nil || !region.IsCountry() {
		return "", fmt.Errorf("unknown country code %q", country)
	}
	return code, nil
}

// Name returns the recipient name
func (a Address) Name() string {
	return a.name
}

// Street returns the street line
func (a Address) Street() string {
	return a.street
}

// City returns the city
func (a Address) City() string {
	return a.city
}

// Region returns the region or state
func (a Address) Region() string {
	return a.region
}

// PostalCode returns the postal code
func (a Address) PostalCode() string {
	return a.postalCode
}

// Country returns the ISO 3166-1 alpha-2 country code
func (a Address) Country() string {
	return a.country
}

// IsEmpty returns true if the address carries no country
func (a Address) IsEmpty() bool {
	return a.country == ""
}

// InCountry reports whether the address is in one of the given countries
func (a Address) InCountry(countries ...string) bool {
	for _, c := range countries {
		if strings.EqualFold(a.country, c) {
			return true
		}
	}
	return false
}

// String returns a single line representation
func (a Address) String() string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.name, a.street, a.postalCode, a.city, a.region, a.country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Equals returns true if both addresses are equal
func (a Address) Equals(other Address) bool {
	return a == other
}

// AddressDTO is the serialized form of Address
type AddressDTO struct {
	Name       string `json:"name,omitempty"`
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country"`
}

// ToDTO converts the address to its DTO form
func (a Address) ToDTO() AddressDTO {
	return AddressDTO{
		Name:       a.name,
		Street:     a.street,
		City:       a.city,
		Region:     a.region,
		PostalCode: a.postalCode,
		Country:    a.country,
	}
}

// ToAddress validates the DTO and builds an Address
func (dto AddressDTO) ToAddress() (Address, error) {
	return NewAddress(dto.Country,
		WithName(dto.Name),
		WithStreet(dto.Street),
		WithCity(dto.City),
		WithRegion(dto.Region),
		WithPostalCode(dto.PostalCode),
	)
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.ToDTO())
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Address) UnmarshalJSON(data []byte) error {
	var dto AddressDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return err
	}
	if dto.Country == "" {
		*a = Address{}
		return nil
	}
	addr, err := dto.ToAddress()
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// Value implements driver.Valuer, storing the address as JSON
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = Address{}
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
	return a.UnmarshalJSON(data)
}
