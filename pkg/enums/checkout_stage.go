package enums

// CheckoutStage is a step in the checkout dialog state machine.
type CheckoutStage string

const (
	CheckoutStageAwaitingTiming CheckoutStage = "awaiting_timing"
	CheckoutStageAwaitingMethod CheckoutStage = "awaiting_method"
	CheckoutStageAwaitingTender CheckoutStage = "awaiting_tender"
	CheckoutStageSubmitting     CheckoutStage = "submitting"
	CheckoutStageSettled        CheckoutStage = "settled"
)

// String implements fmt.Stringer.
func (c CheckoutStage) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutStage.
func (c CheckoutStage) IsValid() bool {
	switch c {
	case CheckoutStageAwaitingTiming,
		CheckoutStageAwaitingMethod,
		CheckoutStageAwaitingTender,
		CheckoutStageSubmitting,
		CheckoutStageSettled:
		return true
	}
	return false
}
