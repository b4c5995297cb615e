package enums

import "fmt"

// ItemType is the closed variant tag on invoice line items. Only PRODUCT
// exists today; service-charge or custom lines become new constants here
// rather than an ad-hoc schema change.
type ItemType string

const (
	ItemTypeProduct ItemType = "PRODUCT"
)

var validItemTypes = []ItemType{
	ItemTypeProduct,
}

// String implements fmt.Stringer.
func (i ItemType) String() string {
	return string(i)
}

// IsValid reports whether the value is a known ItemType.
func (i ItemType) IsValid() bool {
	for _, candidate := range validItemTypes {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseItemType converts raw input into an ItemType.
func ParseItemType(value string) (ItemType, error) {
	for _, candidate := range validItemTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item type %q", value)
}
