package posapi

import (
	"github.com/shopspring/decimal"

	"github.com/khajaghar/pos-terminal/pkg/enums"
)

// InvoiceItemRequest is one line of an invoice-creation request. The unit
// price is the price captured at add-to-cart time, never re-fetched.
type InvoiceItemRequest struct {
	ItemType       enums.ItemType  `json:"item_type"`
	Product        string          `json:"product"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// CreateInvoiceRequest is the POST /invoice/ body.
type CreateInvoiceRequest struct {
	Branch             string               `json:"branch"`
	Customer           *string              `json:"customer,omitempty"`
	InvoiceType        enums.InvoiceType    `json:"invoice_type"`
	Notes              string               `json:"notes,omitempty"`
	InvoiceDescription string               `json:"invoice_description,omitempty"`
	TaxAmount          decimal.Decimal      `json:"tax_amount"`
	Discount           decimal.Decimal      `json:"discount"`
	PaidAmount         decimal.Decimal      `json:"paid_amount"`
	PaymentMethod      *enums.PaymentMethod `json:"payment_method,omitempty"`
	Items              []InvoiceItemRequest `json:"items"`
}

// AddPaymentRequest is the POST /invoice/{id}/payments/ body. Amount zero is
// the custody-acknowledgment path and is accepted by the backend.
type AddPaymentRequest struct {
	Amount        decimal.Decimal     `json:"amount"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	Notes         string              `json:"notes,omitempty"`
}

// InvoiceItem echoes a stored invoice line.
type InvoiceItem struct {
	ItemType       enums.ItemType  `json:"item_type"`
	Product        string          `json:"product"`
	ProductName    string          `json:"product_name,omitempty"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// Invoice is the backend's invoice payload, returned by creation, payment
// application and listing.
type Invoice struct {
	ID                    string                `json:"id"`
	InvoiceNumber         string                `json:"invoice_number"`
	Branch                string                `json:"branch"`
	Customer              *string               `json:"customer,omitempty"`
	CustomerName          string                `json:"customer_name,omitempty"`
	InvoiceType           enums.InvoiceType     `json:"invoice_type"`
	Notes                 string                `json:"notes,omitempty"`
	TaxAmount             decimal.Decimal       `json:"tax_amount"`
	Discount              decimal.Decimal       `json:"discount"`
	TotalAmount           decimal.Decimal       `json:"total_amount"`
	PaidAmount            decimal.Decimal       `json:"paid_amount"`
	DueAmount             decimal.Decimal       `json:"due_amount"`
	PaymentStatus         enums.PaymentStatus   `json:"payment_status"`
	PaymentMethods        []enums.PaymentMethod `json:"payment_methods,omitempty"`
	ReceivedByWaiter      *string               `json:"received_by_waiter,omitempty"`
	ReceivedByWaiterName  string                `json:"received_by_waiter_name,omitempty"`
	ReceivedByCounter     *string               `json:"received_by_counter,omitempty"`
	ReceivedByCounterName string                `json:"received_by_counter_name,omitempty"`
	Items                 []InvoiceItem         `json:"items,omitempty"`
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	// some deployments return a flat detail instead of the envelope
	Detail string `json:"detail,omitempty"`
}

func (e errorEnvelope) message() string {
	if e.Error.Message != "" {
		return e.Error.Message
	}
	return e.Detail
}
