package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/khajaghar/pos-terminal/pkg/enums"
	pkgerrors "github.com/khajaghar/pos-terminal/pkg/errors"
	"github.com/khajaghar/pos-terminal/pkg/logger"
	"github.com/khajaghar/pos-terminal/pkg/metrics"
	"github.com/khajaghar/pos-terminal/pkg/posapi"
)

// BackendClient is the slice of the invoice backend this service needs.
type BackendClient interface {
	GetInvoice(ctx context.Context, invoiceID string) (*posapi.Invoice, error)
	AddPayment(ctx context.Context, invoiceID string, req posapi.AddPaymentRequest, idempotencyKey string) (*posapi.Invoice, error)
	ListInvoices(ctx context.Context) ([]posapi.Invoice, error)
}

// Service reconciles invoice settlement: new money and custody handoffs go
// through the same AddPayment primitive, so there is a single audit trail.
type Service interface {
	AddPayment(ctx context.Context, input AddPaymentInput) (*posapi.Invoice, error)
	ConfirmCustody(ctx context.Context, invoiceID string, notes string) (*posapi.Invoice, error)
	ListOpen(ctx context.Context) ([]posapi.Invoice, error)
}

// AddPaymentInput is one payment event. Amount zero is the custody
// acknowledgment: it moves no money but records that the counter now holds
// what the waiter collected.
type AddPaymentInput struct {
	InvoiceID string
	Amount    decimal.Decimal
	Method    enums.PaymentMethod
	Notes     string
	ActorRole enums.ActorRole
}

type service struct {
	backend BackendClient
	logg    *logger.Logger
	metrics *metrics.TerminalMetrics
	newKey  func() string
}

// NewService wires a payment reconciliation service.
func NewService(backend BackendClient, logg *logger.Logger, m *metrics.TerminalMetrics) (Service, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend client required")
	}
	return &service{
		backend: backend,
		logg:    logg,
		metrics: m,
		newKey:  uuid.NewString,
	}, nil
}

// AddPayment applies one payment event. The invoice is re-fetched first so
// the overpayment invariant is checked against the freshest known state
// before any money-moving call leaves the terminal.
func (s *service) AddPayment(ctx context.Context, input AddPaymentInput) (*posapi.Invoice, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	invoice, err := s.fetch(ctx, input.InvoiceID)
	if err != nil {
		return nil, err
	}

	if err := checkEvent(invoice, input); err != nil {
		s.metrics.IncPaymentApplied("rejected")
		return nil, err
	}

	updated, err := s.backend.AddPayment(ctx, input.InvoiceID, posapi.AddPaymentRequest{
		Amount:        input.Amount.Round(2),
		PaymentMethod: input.Method,
		Notes:         input.Notes,
	}, s.newKey())
	if err != nil {
		s.metrics.IncPaymentApplied("failed")
		if pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
			// the backend may have applied the payment even though the
			// response was lost; a blind retry can double-count
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err,
				"payment outcome unknown, re-check the invoice due amount before retrying")
		}
		return nil, err
	}

	s.metrics.IncPaymentApplied("ok")
	if s.logg != nil {
		logCtx := s.logg.WithInvoiceID(ctx, updated.ID)
		logCtx = s.logg.WithActorRole(logCtx, input.ActorRole.String())
		logCtx = s.logg.WithFields(logCtx, map[string]any{
			"amount":  input.Amount.Round(2),
			"due":     DueAmountOf(updated),
			"custody": CustodyStatusOf(updated),
		})
		s.logg.Info(logCtx, "payment applied")
	}
	return updated, nil
}

// ConfirmCustody is the counter acknowledging physical receipt of money a
// waiter already collected. It is sugar over the zero-amount payment event.
func (s *service) ConfirmCustody(ctx context.Context, invoiceID string, notes string) (*posapi.Invoice, error) {
	return s.AddPayment(ctx, AddPaymentInput{
		InvoiceID: invoiceID,
		Amount:    decimal.Zero,
		Method:    enums.PaymentMethodCash,
		Notes:     notes,
		ActorRole: enums.ActorRoleCounter,
	})
}

// ListOpen returns invoices that still need attention: money due, or paid
// but with settled cash still in a waiter's pocket.
func (s *service) ListOpen(ctx context.Context) ([]posapi.Invoice, error) {
	invoices, err := s.backend.ListInvoices(ctx)
	if err != nil {
		return nil, err
	}

	open := make([]posapi.Invoice, 0, len(invoices))
	for i := range invoices {
		if !Reconciled(&invoices[i]) {
			open = append(open, invoices[i])
		}
	}
	return open, nil
}

func (s *service) fetch(ctx context.Context, invoiceID string) (*posapi.Invoice, error) {
	invoice, err := s.backend.GetInvoice(ctx, invoiceID)
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err,
				fmt.Sprintf("invoice %s not found", invoiceID))
		}
		return nil, err
	}
	return invoice, nil
}

func validateInput(input AddPaymentInput) error {
	if strings.TrimSpace(input.InvoiceID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "invoice id is required")
	}
	if input.Amount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment amount cannot be negative")
	}
	if !input.ActorRole.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown actor role %q", input.ActorRole))
	}
	if input.Amount.IsPositive() && !input.Method.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown payment method %q", input.Method))
	}
	return nil
}

func checkEvent(invoice *posapi.Invoice, input AddPaymentInput) error {
	if input.Amount.IsPositive() {
		if invoice.PaidAmount.Add(input.Amount).GreaterThan(invoice.TotalAmount) {
			return pkgerrors.New(pkgerrors.CodeOverpayment,
				fmt.Sprintf("paying %s would exceed the remaining due of %s",
					input.Amount.Round(2), DueAmountOf(invoice).Round(2))).
				WithDetails(map[string]any{
					"total": invoice.TotalAmount.Round(2),
					"paid":  invoice.PaidAmount.Round(2),
					"due":   DueAmountOf(invoice).Round(2),
				})
		}
		return nil
	}

	// zero amount: custody acknowledgment only
	if input.ActorRole != enums.ActorRoleCounter {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			"only the counter can acknowledge custody with a zero-amount event")
	}
	if CustodyStatusOf(invoice) != enums.CustodyStatusWaiterHeld {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("nothing to acknowledge, invoice custody is %s", CustodyStatusOf(invoice)))
	}
	return nil
}
