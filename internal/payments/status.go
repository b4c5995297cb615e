package payments

import (
	"github.com/shopspring/decimal"

	"github.com/khajaghar/pos-terminal/pkg/enums"
	"github.com/khajaghar/pos-terminal/pkg/posapi"
)

// MonetaryStatusOf derives the payment status from amounts rather than
// trusting the stored status string, so the two can never drift apart.
func MonetaryStatusOf(invoice *posapi.Invoice) enums.PaymentStatus {
	switch {
	case invoice.PaidAmount.IsZero() || invoice.PaidAmount.IsNegative():
		return enums.PaymentStatusUnpaid
	case invoice.PaidAmount.GreaterThanOrEqual(invoice.TotalAmount):
		return enums.PaymentStatusPaid
	default:
		return enums.PaymentStatusPartial
	}
}

// CustodyStatusOf derives who is physically accountable for the settled
// money from the two received-by fields.
func CustodyStatusOf(invoice *posapi.Invoice) enums.CustodyStatus {
	switch {
	case invoice.ReceivedByWaiter != nil && invoice.ReceivedByCounter != nil:
		return enums.CustodyStatusCounterConfirmed
	case invoice.ReceivedByWaiter != nil:
		return enums.CustodyStatusWaiterHeld
	default:
		return enums.CustodyStatusNone
	}
}

// DueAmountOf recomputes total minus paid; the due amount is never read back
// from storage independently of this formula.
func DueAmountOf(invoice *posapi.Invoice) decimal.Decimal {
	due := invoice.TotalAmount.Sub(invoice.PaidAmount)
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}

// Reconciled reports the terminal condition: the invoice is fully paid and
// either the counter confirmed custody or the money never passed through a
// waiter's hands.
func Reconciled(invoice *posapi.Invoice) bool {
	if MonetaryStatusOf(invoice) != enums.PaymentStatusPaid {
		return false
	}
	switch CustodyStatusOf(invoice) {
	case enums.CustodyStatusCounterConfirmed, enums.CustodyStatusNone:
		return true
	default:
		return false
	}
}

// Action is what a payment-list row should offer for a given invoice.
type Action string

const (
	ActionCollectPayment Action = "collect_payment"
	ActionConfirmCustody Action = "confirm_custody"
	ActionNone           Action = "none"
)

// NextAction decides which affordance an invoice row gets: take more money
// while anything is due, let the counter acknowledge waiter-held cash once
// it is paid, otherwise nothing.
func NextAction(invoice *posapi.Invoice, role enums.ActorRole) Action {
	if DueAmountOf(invoice).IsPositive() {
		return ActionCollectPayment
	}
	if role == enums.ActorRoleCounter && CustodyStatusOf(invoice) == enums.CustodyStatusWaiterHeld {
		return ActionConfirmCustody
	}
	return ActionNone
}
