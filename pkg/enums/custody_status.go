package enums

// CustodyStatus tracks which staff role is physically accountable for
// settled funds, independent of whether the invoice is monetarily paid.
type CustodyStatus string

const (
	CustodyStatusNone             CustodyStatus = "NONE"
	CustodyStatusWaiterHeld       CustodyStatus = "WAITER_HELD"
	CustodyStatusCounterConfirmed CustodyStatus = "COUNTER_CONFIRMED"
)

// String implements fmt.Stringer.
func (c CustodyStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CustodyStatus.
func (c CustodyStatus) IsValid() bool {
	switch c {
	case CustodyStatusNone, CustodyStatusWaiterHeld, CustodyStatusCounterConfirmed:
		return true
	}
	return false
}
