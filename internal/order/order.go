// Package order holds the host-side view of an order handed to the payment
// provider: a read-only snapshot of lines, addresses and totals, plus the
// transaction info written back once payment has started.
package order

import "github.com/shopspring/decimal"

// PaymentStatus is the host's payment-status vocabulary that Klarna order
// states are translated into.
type PaymentStatus string

const (
	PaymentStatusAuthorized PaymentStatus = "Authorized"
	PaymentStatusCaptured   PaymentStatus = "Captured"
	PaymentStatusRefunded   PaymentStatus = "Refunded"
	PaymentStatusCancelled  PaymentStatus = "Cancelled"
	PaymentStatusError      PaymentStatus = "Error"
)

// Order is a read-only snapshot of a host order. All decimal amounts are in
// major currency units and include tax unless noted otherwise.
type Order struct {
	OrderNumber        string
	LanguageISOCode    string
	CurrencyCode       string // ISO 4217
	BillingCountryCode string // ISO 3166-1 alpha-2
	Customer           CustomerInfo
	Lines              []Line
	ShippingMethod     *ShippingMethod
	PaymentMethod      *PaymentMethod

	// TotalPrice is the order total with tax and with all order-level
	// discounts and surcharges applied. TotalTax is the tax portion of it.
	TotalPrice decimal.Decimal
	TotalTax   decimal.Decimal

	// Properties is the order's custom key-value bag. The provider stores
	// the per-attempt session id and secret token here and reads billing
	// address fields through configurable aliases.
	Properties map[string]string

	// Transaction is set by the host once payment has started.
	Transaction *TransactionInfo
}

// Property returns the named custom property, or "" when the key is empty or
// absent.
func (o *Order) Property(key string) string {
	if key == "" || o.Properties == nil {
		return ""
	}
	return o.Properties[key]
}

type CustomerInfo struct {
	FirstName string
	LastName  string
	Email     string
}

// Line is a single order line. UnitPrice is before line discounts, TotalPrice
// after; both include tax.
type Line struct {
	SKU           string
	Name          string
	Quantity      int
	UnitPrice     decimal.Decimal
	TotalPrice    decimal.Decimal
	TotalDiscount decimal.Decimal
	TaxRate       decimal.Decimal // fractional, e.g. 0.20 for 20%
	Properties    map[string]string
}

func (l Line) Property(key string) string {
	if key == "" || l.Properties == nil {
		return ""
	}
	return l.Properties[key]
}

type ShippingMethod struct {
	Name    string
	Fee     decimal.Decimal // with tax
	TaxRate decimal.Decimal
}

type PaymentMethod struct {
	Name    string
	Fee     decimal.Decimal // with tax
	TaxRate decimal.Decimal
}

// TransactionInfo records the state of the payment against the provider.
type TransactionInfo struct {
	TransactionID    string
	AmountAuthorized decimal.Decimal
	Status           PaymentStatus
}
