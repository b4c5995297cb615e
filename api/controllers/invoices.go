package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/khajaghar/pos-terminal/api/responses"
	"github.com/khajaghar/pos-terminal/api/validators"
	checkoutsvc "github.com/khajaghar/pos-terminal/internal/checkout"
	draftsvc "github.com/khajaghar/pos-terminal/internal/drafts"
	invoicesvc "github.com/khajaghar/pos-terminal/internal/invoices"
	"github.com/khajaghar/pos-terminal/pkg/config"
	"github.com/khajaghar/pos-terminal/pkg/enums"
	pkgerrors "github.com/khajaghar/pos-terminal/pkg/errors"
	"github.com/khajaghar/pos-terminal/pkg/logger"
	"github.com/khajaghar/pos-terminal/pkg/posapi"
)

type submitInvoiceRequest struct {
	TableNumber     string          `json:"table_number" validate:"required"`
	GroupName       string          `json:"group_name"`
	Customer        *string         `json:"customer"`
	Notes           string          `json:"notes"`
	Description     string          `json:"description"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	PayNow          *payNowRequest  `json:"pay_now"`
}

type payNowRequest struct {
	Method   string           `json:"method" validate:"required"`
	Tendered *decimal.Decimal `json:"tendered"`
}

type submitInvoiceResponse struct {
	Invoice *posapi.Invoice  `json:"invoice"`
	Totals  totalsResponse   `json:"totals"`
	Change  *decimal.Decimal `json:"change,omitempty"`
}

type totalsResponse struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
}

// InvoiceSubmit turns a table's draft into a backend invoice. Totals are
// computed from the draft lines and branch tax settings at submission time;
// pay-now settles the full total in one step, cash requiring sufficient
// tender.
func InvoiceSubmit(cfg *config.Config, drafts draftsvc.Service, invoices invoicesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if drafts == nil || invoices == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable"))
			return
		}

		var payload submitInvoiceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		key := draftsvc.SessionKey{TableNumber: payload.TableNumber, GroupName: payload.GroupName}
		draft, ok := drafts.Load(r.Context(), key)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeEmptyCart,
				"no draft to submit for this table"))
			return
		}

		taxRate, err := cfg.Sales.TaxRate()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		totals, err := checkoutsvc.ComputeTotals(draft.Lines, checkoutsvc.Options{
			TaxEnabled:      cfg.Sales.TaxEnabled,
			TaxRatePercent:  taxRate,
			DiscountPercent: payload.DiscountPercent,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := invoicesvc.SubmitInput{
			SessionKey:     key,
			Lines:          draft.Lines,
			BranchID:       cfg.Terminal.BranchID,
			CustomerID:     payload.Customer,
			Notes:          payload.Notes,
			Description:    payload.Description,
			TaxAmount:      totals.TaxAmount,
			DiscountAmount: totals.DiscountAmount,
		}

		var change *decimal.Decimal
		if payload.PayNow != nil {
			method, err := enums.ParsePaymentMethod(payload.PayNow.Method)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
				return
			}
			if method == enums.PaymentMethodCash {
				if payload.PayNow.Tendered == nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation,
						"cash payment requires the tendered amount"))
					return
				}
				tender, err := checkoutsvc.ValidateCashTender(totals.Total, *payload.PayNow.Tendered)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
				change = &tender.Change
			}
			input.PaymentMethod = &method
			input.PaidAmount = totals.Total
		}

		invoice, err := invoices.Submit(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rounded := totals.Rounded()
		responses.WriteSuccessStatus(w, http.StatusCreated, submitInvoiceResponse{
			Invoice: invoice,
			Totals: totalsResponse{
				Subtotal:       rounded.Subtotal,
				TaxAmount:      rounded.TaxAmount,
				DiscountAmount: rounded.DiscountAmount,
				Total:          rounded.Total,
			},
			Change: change,
		})
	}
}
