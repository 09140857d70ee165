package klarna

import "time"

// Order line types accepted by the payments API.
const (
	OrderLineTypePhysical    = "physical"
	OrderLineTypeDigital     = "digital"
	OrderLineTypeGiftCard    = "gift_card"
	OrderLineTypeDiscount    = "discount"
	OrderLineTypeShippingFee = "shipping_fee"
	OrderLineTypeSalesTax    = "sales_tax"
	OrderLineTypeStoreCredit = "store_credit"
	OrderLineTypeSurcharge   = "surcharge"
)

// Address is a Klarna billing or shipping address. Empty fields are omitted
// from the JSON body; Klarna treats them as not supplied.
type Address struct {
	Title          string `json:"title,omitempty"`
	GivenName      string `json:"given_name,omitempty"`
	FamilyName     string `json:"family_name,omitempty"`
	StreetAddress  string `json:"street_address,omitempty"`
	StreetAddress2 string `json:"street_address2,omitempty"`
	City           string `json:"city,omitempty"`
	Region         string `json:"region,omitempty"`
	Country        string `json:"country,omitempty"`
	PostalCode     string `json:"postal_code,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
}

// OrderLine is a single merchant-session order line. All amounts are integer
// minor currency units; TaxRate is the rate x 10000.
type OrderLine struct {
	Type                string `json:"type,omitempty"`
	Reference           string `json:"reference,omitempty"`
	Name                string `json:"name,omitempty"`
	Quantity            int    `json:"quantity"`
	UnitPrice           int64  `json:"unit_price"`
	TaxRate             int64  `json:"tax_rate"`
	TotalAmount         int64  `json:"total_amount"`
	TotalDiscountAmount int64  `json:"total_discount_amount,omitempty"`
	TotalTaxAmount      int64  `json:"total_tax_amount"`
}

// MerchantURLs are the payments-API callback URLs of a merchant session.
type MerchantURLs struct {
	Confirmation string `json:"confirmation,omitempty"`
	Notification string `json:"notification,omitempty"`
	Push         string `json:"push,omitempty"`
}

// CreateMerchantSessionRequest creates a payments-API session describing the
// order contents. Klarna validates that the order lines sum to OrderAmount.
type CreateMerchantSessionRequest struct {
	AcquiringChannel   string        `json:"acquiring_channel,omitempty"`
	MerchantReference1 string        `json:"merchant_reference1,omitempty"`
	MerchantReference2 string        `json:"merchant_reference2,omitempty"`
	PurchaseCountry    string        `json:"purchase_country"`
	PurchaseCurrency   string        `json:"purchase_currency"`
	Locale             string        `json:"locale,omitempty"`
	OrderAmount        int64         `json:"order_amount"`
	OrderTaxAmount     int64         `json:"order_tax_amount"`
	OrderLines         []OrderLine   `json:"order_lines"`
	BillingAddress     *Address      `json:"billing_address,omitempty"`
	ShippingAddress    *Address      `json:"shipping_address,omitempty"`
	MerchantURLs       *MerchantURLs `json:"merchant_urls,omitempty"`
}

// MerchantSession is the response to a merchant-session create call.
type MerchantSession struct {
	SessionID   string `json:"session_id"`
	ClientToken string `json:"client_token,omitempty"`
}

// HPP place-order modes.
const (
	PlaceOrderModeNone         = "NONE"
	PlaceOrderModePlaceOrder   = "PLACE_ORDER"
	PlaceOrderModeCaptureOrder = "CAPTURE_ORDER"
)

// HppOptions are the display and behaviour options of an HPP session.
type HppOptions struct {
	PlaceOrderMode          string   `json:"place_order_mode,omitempty"`
	LogoURL                 string   `json:"logo_url,omitempty"`
	PageTitle               string   `json:"page_title,omitempty"`
	PaymentMethodCategories []string `json:"payment_method_categories,omitempty"`
	PaymentMethodCategory   string   `json:"payment_method_category,omitempty"`
	PaymentFallback         bool     `json:"payment_fallback,omitempty"`
}

// HppMerchantURLs are the shopper return URLs of an HPP session. Klarna
// substitutes {{session_id}} placeholders before redirecting.
type HppMerchantURLs struct {
	Success      string `json:"success,omitempty"`
	Cancel       string `json:"cancel,omitempty"`
	Back         string `json:"back,omitempty"`
	Failure      string `json:"failure,omitempty"`
	Error        string `json:"error,omitempty"`
	StatusUpdate string `json:"status_update,omitempty"`
}

// CreateHppSessionRequest creates a hosted-payment-page session wrapping an
// existing merchant session.
type CreateHppSessionRequest struct {
	PaymentSessionURL string           `json:"payment_session_url"`
	Options           *HppOptions      `json:"options,omitempty"`
	MerchantURLs      *HppMerchantURLs `json:"merchant_urls,omitempty"`
}

// HppSession is the response to an HPP-session create call.
type HppSession struct {
	SessionID       string    `json:"session_id"`
	SessionURL      string    `json:"session_url,omitempty"`
	DistributionURL string    `json:"distribution_url,omitempty"`
	RedirectURL     string    `json:"redirect_url"`
	QrCodeURL       string    `json:"qr_code_url,omitempty"`
	ExpiresAt       time.Time `json:"expires_at,omitempty"`
}

// Order statuses reported by the order management API.
const (
	OrderStatusAuthorized   = "AUTHORIZED"
	OrderStatusCaptured     = "CAPTURED"
	OrderStatusPartCaptured = "PART_CAPTURED"
	OrderStatusExpired      = "EXPIRED"
	OrderStatusCancelled    = "CANCELLED"
	OrderStatusRefunded     = "REFUNDED"
	OrderStatusClosed       = "CLOSED"
)

// Fraud statuses reported by the order management API.
const (
	FraudStatusAccepted = "ACCEPTED"
	FraudStatusPending  = "PENDING"
	FraudStatusRejected = "REJECTED"
)

// Order is a Klarna-side order as returned by the order management API.
// Amounts are integer minor units.
type Order struct {
	OrderID             string `json:"order_id"`
	KlarnaReference     string `json:"klarna_reference,omitempty"`
	MerchantReference1  string `json:"merchant_reference1,omitempty"`
	MerchantReference2  string `json:"merchant_reference2,omitempty"`
	PurchaseCountry     string `json:"purchase_country,omitempty"`
	PurchaseCurrency    string `json:"purchase_currency,omitempty"`
	OriginalOrderAmount int64  `json:"original_order_amount"`
	CapturedAmount      int64  `json:"captured_amount"`
	RefundedAmount      int64  `json:"refunded_amount"`
	Status              string `json:"status"`
	FraudStatus         string `json:"fraud_status,omitempty"`
}

// CaptureOptions describe a capture against an authorized order.
type CaptureOptions struct {
	CapturedAmount int64  `json:"captured_amount"`
	Description    string `json:"description,omitempty"`
	Reference      string `json:"reference,omitempty"`
}

// RefundOptions describe a refund against a captured order.
type RefundOptions struct {
	RefundedAmount int64  `json:"refunded_amount"`
	Description    string `json:"description,omitempty"`
	Reference      string `json:"reference,omitempty"`
}

// HPP session statuses carried in session events.
const (
	SessionStatusWaiting    = "WAITING"
	SessionStatusInProgress = "IN_PROGRESS"
	SessionStatusCompleted  = "COMPLETED"
	SessionStatusFailed     = "FAILED"
	SessionStatusCancelled  = "CANCELLED"
	SessionStatusBack       = "BACK"
	SessionStatusError      = "ERROR"
	SessionStatusDisabled   = "DISABLED"
)

// Session is the HPP session snapshot embedded in a session event.
type Session struct {
	SessionID          string    `json:"session_id"`
	Status             string    `json:"status"`
	AuthorizationToken string    `json:"authorization_token,omitempty"`
	OrderID            string    `json:"order_id,omitempty"`
	KlarnaReference    string    `json:"klarna_reference,omitempty"`
	UpdatedAt          time.Time `json:"updated_at,omitempty"`
	ExpiresAt          time.Time `json:"expires_at,omitempty"`
}

// SessionEvent is the body Klarna posts to the status_update URL.
type SessionEvent struct {
	EventID string   `json:"event_id"`
	Session *Session `json:"session"`
}
