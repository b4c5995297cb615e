package invoices

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/khajaghar/pos-terminal/internal/drafts"
	"github.com/khajaghar/pos-terminal/pkg/db/models"
	"github.com/khajaghar/pos-terminal/pkg/enums"
	pkgerrors "github.com/khajaghar/pos-terminal/pkg/errors"
	"github.com/khajaghar/pos-terminal/pkg/logger"
	"github.com/khajaghar/pos-terminal/pkg/metrics"
	"github.com/khajaghar/pos-terminal/pkg/posapi"
)

// Service turns a finished cart into a persisted invoice on the backend.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*posapi.Invoice, error)
}

// SubmitInput carries a cart plus the checkout choices made for it. Tax and
// discount amounts come from the checkout calculator; unit prices are the
// ones captured at add-to-cart time.
type SubmitInput struct {
	SessionKey     drafts.SessionKey
	Lines          []models.CartLine
	BranchID       string
	CustomerID     *string
	Notes          string
	Description    string
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	PaidAmount     decimal.Decimal
	PaymentMethod  *enums.PaymentMethod
}

type service struct {
	backend BackendClient
	store   DraftClearer
	logg    *logger.Logger
	metrics *metrics.TerminalMetrics
}

// NewService wires an invoice submission service.
func NewService(backend BackendClient, store DraftClearer, logg *logger.Logger, m *metrics.TerminalMetrics) (Service, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend client required")
	}
	if store == nil {
		return nil, fmt.Errorf("draft store required")
	}
	return &service{backend: backend, store: store, logg: logg, metrics: m}, nil
}

// Submit validates the cart, creates the invoice and, only after the backend
// confirms creation, clears the cart's draft. Any failure leaves the draft in
// place so the submission can be retried without retaking the order.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*posapi.Invoice, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	req := buildRequest(input)

	invoice, err := s.backend.CreateInvoice(ctx, req)
	if err != nil {
		s.metrics.IncInvoiceSubmitted("failed")
		return nil, err
	}

	s.metrics.IncInvoiceSubmitted("ok")
	s.store.Clear(ctx, input.SessionKey)

	if s.logg != nil {
		logCtx := s.logg.WithInvoiceID(ctx, invoice.ID)
		logCtx = s.logg.WithTable(logCtx, input.SessionKey.TableNumber)
		s.logg.Info(logCtx, "invoice created")
	}
	return invoice, nil
}

func (s *service) validate(input SubmitInput) error {
	if len(input.Lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeEmptyCart, "cannot submit an invoice for an empty cart")
	}
	if strings.TrimSpace(input.BranchID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "branch is required")
	}
	if input.TaxAmount.IsNegative() || input.DiscountAmount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "tax and discount amounts cannot be negative")
	}
	if input.PaidAmount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "paid amount cannot be negative")
	}

	if input.PaidAmount.IsPositive() {
		if input.PaymentMethod == nil || !input.PaymentMethod.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "paying now requires a payment method")
		}
		// pay-now settles the whole invoice; partial settlement happens
		// through payment events afterwards
		if !input.PaidAmount.Equal(totalOf(input)) {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("paid amount %s does not match the invoice total %s",
					input.PaidAmount.Round(2), totalOf(input).Round(2)))
		}
	}
	return nil
}

func totalOf(input SubmitInput) decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range input.Lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return subtotal.Add(input.TaxAmount).Sub(input.DiscountAmount)
}

func buildRequest(input SubmitInput) posapi.CreateInvoiceRequest {
	items := make([]posapi.InvoiceItemRequest, 0, len(input.Lines))
	for _, line := range input.Lines {
		items = append(items, posapi.InvoiceItemRequest{
			ItemType:       enums.ItemTypeProduct,
			Product:        line.ProductID,
			Quantity:       line.Quantity,
			UnitPrice:      line.UnitPrice.Round(2),
			DiscountAmount: decimal.Zero,
		})
	}

	return posapi.CreateInvoiceRequest{
		Branch:             input.BranchID,
		Customer:           input.CustomerID,
		InvoiceType:        enums.InvoiceTypeSale,
		Notes:              input.Notes,
		InvoiceDescription: input.Description,
		TaxAmount:          input.TaxAmount.Round(2),
		Discount:           input.DiscountAmount.Round(2),
		PaidAmount:         input.PaidAmount.Round(2),
		PaymentMethod:      input.PaymentMethod,
		Items:              items,
	}
}
