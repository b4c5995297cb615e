package invoices

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/khajaghar/pos-terminal/internal/drafts"
	"github.com/khajaghar/pos-terminal/pkg/db/models"
	"github.com/khajaghar/pos-terminal/pkg/enums"
	pkgerrors "github.com/khajaghar/pos-terminal/pkg/errors"
	"github.com/khajaghar/pos-terminal/pkg/posapi"
)

type fakeBackend struct {
	createFn func(ctx context.Context, req posapi.CreateInvoiceRequest) (*posapi.Invoice, error)
	calls    int
}

func (f *fakeBackend) CreateInvoice(ctx context.Context, req posapi.CreateInvoiceRequest) (*posapi.Invoice, error) {
	f.calls++
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return &posapi.Invoice{ID: "inv-1"}, nil
}

type fakeClearer struct {
	cleared []drafts.SessionKey
}

func (f *fakeClearer) Clear(ctx context.Context, key drafts.SessionKey) {
	f.cleared = append(f.cleared, key)
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func validInput() SubmitInput {
	return SubmitInput{
		SessionKey: drafts.SessionKey{TableNumber: "5", GroupName: "GroupA"},
		Lines: []models.CartLine{
			{ProductID: "momo", UnitPrice: dec("250"), Quantity: 2},
		},
		BranchID:       "branch-1",
		TaxAmount:      dec("25"),
		DiscountAmount: dec("50"),
		PaidAmount:     decimal.Zero,
	}
}

func TestSubmitRejectsEmptyCart(t *testing.T) {
	backend := &fakeBackend{}
	clearer := &fakeClearer{}
	svc, err := NewService(backend, clearer, nil, nil)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	input := validInput()
	input.Lines = nil

	_, err = svc.Submit(context.Background(), input)
	if !pkgerrors.HasCode(err, pkgerrors.CodeEmptyCart) {
		t.Fatalf("expected empty cart error, got %v", err)
	}
	if backend.calls != 0 {
		t.Fatal("empty cart must be rejected before any network call")
	}
	if len(clearer.cleared) != 0 {
		t.Fatal("failed submission must not touch the draft")
	}
}

func TestSubmitBuildsWireRequest(t *testing.T) {
	var got posapi.CreateInvoiceRequest
	backend := &fakeBackend{
		createFn: func(ctx context.Context, req posapi.CreateInvoiceRequest) (*posapi.Invoice, error) {
			got = req
			return &posapi.Invoice{ID: "inv-7", InvoiceNumber: "2026-0007"}, nil
		},
	}
	clearer := &fakeClearer{}
	svc, _ := NewService(backend, clearer, nil, nil)

	input := validInput()
	customer := "cust-3"
	input.CustomerID = &customer
	input.Notes = "window seat"

	invoice, err := svc.Submit(context.Background(), input)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if invoice.ID != "inv-7" {
		t.Fatalf("unexpected invoice id %q", invoice.ID)
	}

	if got.Branch != "branch-1" || got.InvoiceType != enums.InvoiceTypeSale {
		t.Fatalf("unexpected envelope: %+v", got)
	}
	if got.Customer == nil || *got.Customer != "cust-3" {
		t.Fatalf("customer not forwarded: %v", got.Customer)
	}
	if len(got.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got.Items))
	}
	item := got.Items[0]
	if item.ItemType != enums.ItemTypeProduct || item.Product != "momo" || item.Quantity != 2 {
		t.Fatalf("unexpected item: %+v", item)
	}
	// the price captured at add-to-cart time is authoritative
	if !item.UnitPrice.Equal(dec("250")) {
		t.Fatalf("unit price must be copied verbatim, got %s", item.UnitPrice)
	}
	if !got.TaxAmount.Equal(dec("25")) || !got.Discount.Equal(dec("50")) {
		t.Fatalf("precomputed amounts not attached: tax=%s discount=%s", got.TaxAmount, got.Discount)
	}
}

func TestSubmitClearsDraftOnlyAfterConfirmedCreation(t *testing.T) {
	backend := &fakeBackend{}
	clearer := &fakeClearer{}
	svc, _ := NewService(backend, clearer, nil, nil)

	input := validInput()
	if _, err := svc.Submit(context.Background(), input); err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if len(clearer.cleared) != 1 || clearer.cleared[0] != input.SessionKey {
		t.Fatalf("expected draft %v to be cleared, got %v", input.SessionKey, clearer.cleared)
	}
}

func TestSubmitRetainsDraftOnBackendFailure(t *testing.T) {
	backend := &fakeBackend{
		createFn: func(ctx context.Context, req posapi.CreateInvoiceRequest) (*posapi.Invoice, error) {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "create_invoice: no response from invoice backend")
		},
	}
	clearer := &fakeClearer{}
	svc, _ := NewService(backend, clearer, nil, nil)

	_, err := svc.Submit(context.Background(), validInput())
	if !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if len(clearer.cleared) != 0 {
		t.Fatal("draft must be retained when the backend call fails")
	}
}

func TestSubmitPayNowRequiresMethodAndFullAmount(t *testing.T) {
	backend := &fakeBackend{}
	svc, _ := NewService(backend, &fakeClearer{}, nil, nil)

	input := validInput()
	input.PaidAmount = dec("475")

	if _, err := svc.Submit(context.Background(), input); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error without a method, got %v", err)
	}

	method := enums.PaymentMethodCash
	input.PaymentMethod = &method
	input.PaidAmount = dec("400") // subtotal 500 + tax 25 - discount 50 = 475

	if _, err := svc.Submit(context.Background(), input); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for partial pay-now, got %v", err)
	}

	input.PaidAmount = dec("475")
	if _, err := svc.Submit(context.Background(), input); err != nil {
		t.Fatalf("full pay-now should succeed: %v", err)
	}
	if backend.calls != 1 {
		t.Fatalf("expected exactly one backend call, got %d", backend.calls)
	}
}

func TestSubmitRejectsNegativeAmounts(t *testing.T) {
	svc, _ := NewService(&fakeBackend{}, &fakeClearer{}, nil, nil)

	input := validInput()
	input.DiscountAmount = dec("-1")
	if _, err := svc.Submit(context.Background(), input); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
