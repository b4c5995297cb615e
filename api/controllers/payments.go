package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/khajaghar/pos-terminal/api/responses"
	"github.com/khajaghar/pos-terminal/api/validators"
	paymentsvc "github.com/khajaghar/pos-terminal/internal/payments"
	"github.com/khajaghar/pos-terminal/pkg/enums"
	pkgerrors "github.com/khajaghar/pos-terminal/pkg/errors"
	"github.com/khajaghar/pos-terminal/pkg/logger"
	"github.com/khajaghar/pos-terminal/pkg/posapi"
)

type addPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Notes     string          `json:"notes"`
	ActorRole string          `json:"actor_role" validate:"required"`
}

type confirmCustodyRequest struct {
	Notes string `json:"notes"`
}

type invoiceStatusResponse struct {
	Invoice    *posapi.Invoice   `json:"invoice"`
	Status     string            `json:"status"`
	Custody    string            `json:"custody"`
	DueAmount  decimal.Decimal   `json:"due_amount"`
	NextAction paymentsvc.Action `json:"next_action"`
}

func newInvoiceStatusResponse(invoice *posapi.Invoice, role enums.ActorRole) invoiceStatusResponse {
	return invoiceStatusResponse{
		Invoice:    invoice,
		Status:     paymentsvc.MonetaryStatusOf(invoice).String(),
		Custody:    paymentsvc.CustodyStatusOf(invoice).String(),
		DueAmount:  paymentsvc.DueAmountOf(invoice).Round(2),
		NextAction: paymentsvc.NextAction(invoice, role),
	}
}

// PaymentAdd applies one payment event to an existing invoice.
func PaymentAdd(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		var payload addPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := enums.ParseActorRole(payload.ActorRole)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid actor role"))
			return
		}

		input := paymentsvc.AddPaymentInput{
			InvoiceID: chi.URLParam(r, "id"),
			Amount:    payload.Amount,
			Notes:     payload.Notes,
			ActorRole: role,
		}
		if payload.Method != "" {
			method, err := enums.ParsePaymentMethod(payload.Method)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
				return
			}
			input.Method = method
		}

		invoice, err := svc.AddPayment(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newInvoiceStatusResponse(invoice, role))
	}
}

// CustodyConfirm records the counter taking over money a waiter collected.
func CustodyConfirm(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		var payload confirmCustodyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoice, err := svc.ConfirmCustody(r.Context(), chi.URLParam(r, "id"), payload.Notes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newInvoiceStatusResponse(invoice, enums.ActorRoleCounter))
	}
}

// InvoicesOpen lists invoices that still need collection or a custody
// confirmation, annotated with the next action for the requesting role.
func InvoicesOpen(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		role := enums.ActorRoleWaiter
		if raw := validators.QueryString(r, "role"); raw != "" {
			parsed, err := enums.ParseActorRole(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid actor role"))
				return
			}
			role = parsed
		}

		open, err := svc.ListOpen(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]invoiceStatusResponse, len(open))
		for i := range open {
			out[i] = newInvoiceStatusResponse(&open[i], role)
		}
		responses.WriteSuccess(w, out)
	}
}
