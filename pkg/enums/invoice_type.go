package enums

// InvoiceType tags the kind of invoice submitted to the backend.
// Only sales exist today; the enum keeps the wire tag closed.
type InvoiceType string

const (
	InvoiceTypeSale InvoiceType = "SALE"
)

// String implements fmt.Stringer.
func (i InvoiceType) String() string {
	return string(i)
}

// IsValid reports whether the value is a known InvoiceType.
func (i InvoiceType) IsValid() bool {
	return i == InvoiceTypeSale
}
