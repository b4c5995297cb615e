package checkout

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/khajaghar/pos-terminal/pkg/enums"
	pkgerrors "github.com/khajaghar/pos-terminal/pkg/errors"
)

// Flow is the checkout dialog state machine. Every stage change goes through
// one transition path, so combinations like "pay later with a cash tender"
// cannot be represented at all.
type Flow struct {
	stage    enums.CheckoutStage
	payLater bool
	method   enums.PaymentMethod
	tender   Tender
}

// NewFlow starts a checkout at the payment-timing question.
func NewFlow() *Flow {
	return &Flow{stage: enums.CheckoutStageAwaitingTiming}
}

// Stage reports the current dialog stage.
func (f *Flow) Stage() enums.CheckoutStage {
	return f.stage
}

// PayLater reports whether the guest deferred payment.
func (f *Flow) PayLater() bool {
	return f.payLater
}

// Method returns the chosen payment method; empty when paying later.
func (f *Flow) Method() enums.PaymentMethod {
	return f.method
}

// CashTender returns the validated tender for cash sales.
func (f *Flow) CashTender() Tender {
	return f.tender
}

// ChoosePayLater defers payment and moves straight to submission.
func (f *Flow) ChoosePayLater() error {
	if err := f.require(enums.CheckoutStageAwaitingTiming, "choose pay later"); err != nil {
		return err
	}
	f.payLater = true
	f.stage = enums.CheckoutStageSubmitting
	return nil
}

// ChoosePayNow moves on to picking a payment method.
func (f *Flow) ChoosePayNow() error {
	if err := f.require(enums.CheckoutStageAwaitingTiming, "choose pay now"); err != nil {
		return err
	}
	f.stage = enums.CheckoutStageAwaitingMethod
	return nil
}

// ChooseMethod records the payment method. Cash needs a tender entry; QR and
// online payments are confirmed out of band and go straight to submission.
func (f *Flow) ChooseMethod(method enums.PaymentMethod) error {
	if err := f.require(enums.CheckoutStageAwaitingMethod, "choose method"); err != nil {
		return err
	}
	if !method.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown payment method %q", method))
	}
	f.method = method
	if method == enums.PaymentMethodCash {
		f.stage = enums.CheckoutStageAwaitingTender
	} else {
		f.stage = enums.CheckoutStageSubmitting
	}
	return nil
}

// EnterTender validates the cash received. On rejection the flow stays at
// the tender prompt so the amount can be corrected.
func (f *Flow) EnterTender(total, amountReceived decimal.Decimal) (Tender, error) {
	if err := f.require(enums.CheckoutStageAwaitingTender, "enter tender"); err != nil {
		return Tender{}, err
	}
	tender, err := ValidateCashTender(total, amountReceived)
	if err != nil {
		return Tender{}, err
	}
	f.tender = tender
	f.stage = enums.CheckoutStageSubmitting
	return tender, nil
}

// MarkSettled completes the flow after a confirmed invoice creation.
func (f *Flow) MarkSettled() error {
	if err := f.require(enums.CheckoutStageSubmitting, "settle"); err != nil {
		return err
	}
	f.stage = enums.CheckoutStageSettled
	return nil
}

// Reset abandons the dialog and returns to the timing question. Used when a
// submission fails or the staff member cancels before sending.
func (f *Flow) Reset() {
	*f = Flow{stage: enums.CheckoutStageAwaitingTiming}
}

func (f *Flow) require(stage enums.CheckoutStage, action string) error {
	if f.stage != stage {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot %s while %s", action, f.stage))
	}
	return nil
}
