package invoices

import (
	"context"

	"github.com/khajaghar/pos-terminal/internal/drafts"
	"github.com/khajaghar/pos-terminal/pkg/posapi"
)

// BackendClient is the slice of the invoice backend this service needs.
type BackendClient interface {
	CreateInvoice(ctx context.Context, req posapi.CreateInvoiceRequest) (*posapi.Invoice, error)
}

// DraftClearer removes a draft once its invoice is confirmed created.
type DraftClearer interface {
	Clear(ctx context.Context, key drafts.SessionKey)
}
