package entities

import "strings"

const defaultCountry = "India"

type Address struct {
	Street  string
	City    string
	State   string
	Pincode string
	Country string
}

type addressKind int

const (
	addressNone addressKind = iota
	addressFreeText
	addressStructured
)

// AddressInput is the tagged input form of a shipping address: callers submit
// either a single free-text line or an already structured record.
type AddressInput struct {
	kind       addressKind
	text       string
	structured Address
}

func FreeTextAddress(text string) AddressInput {
	return AddressInput{kind: addressFreeText, text: text}
}

func StructuredAddress(addr Address) AddressInput {
	return AddressInput{kind: addressStructured, structured: addr}
}

// Normalize resolves the input into the canonical structured form.
//
// Free-text input is split on commas and mapped positionally to
// street, city, state, pincode; missing segments stay empty and the country
// is always India. Structured input is taken as-is with the country
// defaulted when absent. A zero AddressInput fails with ErrInvalidAddress.
func (in AddressInput) Normalize() (Address, error) {
	switch in.kind {
	case addressFreeText:
		parts := strings.Split(in.text, ",")
		addr := Address{Country: defaultCountry}
		fields := []*string{&addr.Street, &addr.City, &addr.State, &addr.Pincode}
		for i, dst := range fields {
			if i < len(parts) {
				*dst = strings.TrimSpace(parts[i])
			}
		}
		return addr, nil

	case addressStructured:
		addr := in.structured
		if addr.Country == "" {
			addr.Country = defaultCountry
		}
		return addr, nil

	default:
		return Address{}, ErrInvalidAddress
	}
}
