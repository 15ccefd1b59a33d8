package domain

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Structured address accepted at creation time.
type Address struct {
	Street string `mapstructure:"street"`
	City   string `mapstructure:"city"`
	State  string `mapstructure:"state"`
	Zip    string `mapstructure:"zip"`
}

// String renders "street, city, state zip", skipping empty parts.
func (a Address) String() string {
	region := strings.TrimSpace(strings.TrimSpace(a.State) + " " + strings.TrimSpace(a.Zip))

	parts := make([]string, 0, 3)
	for _, p := range []string{a.Street, a.City, region} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// FlattenAddress turns either a pre-formatted string or a structured address
// object into a single line. Input is not validated: values that are neither
// are rendered as-is.
func FlattenAddress(v any) string {
	switch a := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(a)
	case Address:
		return a.String()
	case map[string]any:
		addr, err := decodeAddress(a)
		if err != nil {
			return fmt.Sprint(v)
		}
		return addr.String()
	default:
		return fmt.Sprint(v)
	}
}

func decodeAddress(m map[string]any) (Address, error) {
	var addr Address
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &addr,
	})
	if err != nil {
		return Address{}, fmt.Errorf("decode address: %w", err)
	}
	if err := dec.Decode(m); err != nil {
		return Address{}, fmt.Errorf("decode address: %w", err)
	}
	return addr, nil
}
