package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/khajaghar/pos-terminal/api/responses"
	"github.com/khajaghar/pos-terminal/api/validators"
	draftsvc "github.com/khajaghar/pos-terminal/internal/drafts"
	"github.com/khajaghar/pos-terminal/pkg/db/models"
	pkgerrors "github.com/khajaghar/pos-terminal/pkg/errors"
	"github.com/khajaghar/pos-terminal/pkg/logger"
)

// DraftsList returns every pending draft on this terminal, most recent first.
func DraftsList(svc draftsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "draft service unavailable"))
			return
		}

		drafts := svc.List(r.Context())
		out := make([]draftResponse, len(drafts))
		for i := range drafts {
			out[i] = newDraftResponse(&drafts[i])
		}
		responses.WriteSuccess(w, out)
	}
}

// DraftsGet returns one table's draft. The group query parameter narrows the
// lookup when a table hosts several independent tabs.
func DraftsGet(svc draftsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "draft service unavailable"))
			return
		}

		key := draftsvc.SessionKey{
			TableNumber: chi.URLParam(r, "table"),
			GroupName:   validators.QueryString(r, "group"),
		}

		draft, ok := svc.Load(r.Context(), key)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("no draft for table %s", key.TableNumber)))
			return
		}
		responses.WriteSuccess(w, newDraftResponse(draft))
	}
}

// DraftsDelete abandons one table's draft.
func DraftsDelete(svc draftsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "draft service unavailable"))
			return
		}

		key := draftsvc.SessionKey{
			TableNumber: chi.URLParam(r, "table"),
			GroupName:   validators.QueryString(r, "group"),
		}
		svc.Clear(r.Context(), key)
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

type draftResponse struct {
	TableNumber string              `json:"table_number"`
	GroupName   string              `json:"group_name,omitempty"`
	Lines       []draftLineResponse `json:"lines"`
	Subtotal    decimal.Decimal     `json:"subtotal"`
	SavedAt     time.Time           `json:"saved_at"`
}

type draftLineResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
	Notes     *string         `json:"notes,omitempty"`
}

func newDraftResponse(draft *models.CartDraft) draftResponse {
	lines := make([]draftLineResponse, len(draft.Lines))
	subtotal := decimal.Zero
	for i, line := range draft.Lines {
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		lines[i] = draftLineResponse{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			LineTotal: lineTotal,
			Notes:     line.Notes,
		}
	}
	return draftResponse{
		TableNumber: draft.TableNumber,
		GroupName:   draft.GroupName,
		Lines:       lines,
		Subtotal:    subtotal.Round(2),
		SavedAt:     draft.SavedAt,
	}
}
