package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vendrhub/klarna-hpp/internal/iso"
	"github.com/vendrhub/klarna-hpp/internal/klarna"
	"github.com/vendrhub/klarna-hpp/internal/order"
	"github.com/vendrhub/klarna-hpp/pkg/logger"
)

// PaymentFormResult tells the host how to redirect the shopper and which
// correlation metadata to persist on the order before doing so.
type PaymentFormResult struct {
	RedirectURL string
	Method      string
	Metadata    map[string]string
}

// CallbackResult is the outcome of processing a status_update callback. A nil
// Transaction means "nothing to do": the callback was a retry, a probe, or a
// non-completed status, and the host should acknowledge it without changes.
type CallbackResult struct {
	Transaction *order.TransactionInfo
	Metadata    map[string]string
}

// Processed reports whether the callback produced a transaction update.
func (r *CallbackResult) Processed() bool {
	return r.Transaction != nil
}

// APIResult is the outcome of a best-effort order management operation. A nil
// Transaction means the operation did not complete and the host may retry.
type APIResult struct {
	Transaction *order.TransactionInfo
}

// Provider orchestrates Klarna HPP checkouts for a single provider instance.
type Provider struct {
	settings HppSettings
	client   *klarna.Client
	log      logger.Logger
}

// New builds a provider from its settings, constructing the Klarna client
// for the configured region, mode and credentials.
func New(settings HppSettings, log logger.Logger) (*Provider, error) {
	cfg, err := settings.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid provider settings: %w", err)
	}
	return NewWithClient(settings, klarna.NewClient(cfg, nil), log), nil
}

// NewWithClient builds a provider around an existing Klarna client.
func NewWithClient(settings HppSettings, client *klarna.Client, log logger.Logger) *Provider {
	if log == nil {
		log = logger.Noop()
	}
	return &Provider{settings: settings, client: client, log: log}
}

// GenerateForm creates a merchant session and an HPP session for the order
// and returns the redirect to Klarna's hosted payment page. The returned
// metadata (session id and per-attempt secret token) must be persisted on the
// order; the callback validator checks against it.
//
// Configuration and data errors (invalid ISO codes) fail before any Klarna
// call. Transport errors propagate to the caller.
func (p *Provider) GenerateForm(ctx context.Context, ord *order.Order, continueURL, cancelURL, callbackURL string) (*PaymentFormResult, error) {
	country := strings.ToUpper(ord.BillingCountryCode)
	if !iso.IsValidCountry(country) {
		return nil, fmt.Errorf("billing country must be a valid ISO 3166 country code, got %q", ord.BillingCountryCode)
	}

	currency := strings.ToUpper(ord.CurrencyCode)
	if !iso.IsValidCurrency(currency) {
		return nil, fmt.Errorf("currency must be a valid ISO 4217 currency code, got %q", ord.CurrencyCode)
	}

	secretToken := strings.ReplaceAll(uuid.NewString(), "-", "")

	merchantSession, err := p.client.CreateMerchantSession(ctx,
		buildMerchantSessionRequest(ord, p.settings, country, currency, continueURL, callbackURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create merchant session: %w", err)
	}

	hppSession, err := p.client.CreateHppSession(ctx, &klarna.CreateHppSessionRequest{
		PaymentSessionURL: p.client.Config().SessionURL(merchantSession.SessionID),
		Options:           p.hppOptions(),
		MerchantURLs: &klarna.HppMerchantURLs{
			Success:      appendQuery(continueURL, "sid={{session_id}}&token="+secretToken),
			Cancel:       appendQuery(cancelURL, "reason=cancel"),
			Back:         appendQuery(cancelURL, "reason=back"),
			Failure:      appendQuery(cancelURL, "reason=failure"),
			Error:        appendQuery(cancelURL, "reason=error"),
			StatusUpdate: appendQuery(callbackURL, "sid={{session_id}}&token="+secretToken),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create HPP session: %w", err)
	}

	p.log.Info("created Klarna HPP session",
		zap.String("order_number", ord.OrderNumber),
		zap.String("session_id", hppSession.SessionID),
	)

	return &PaymentFormResult{
		RedirectURL: hppSession.RedirectURL,
		Method:      http.MethodGet,
		Metadata: map[string]string{
			MetaSessionID:   hppSession.SessionID,
			MetaSecretToken: secretToken,
		},
	}, nil
}

func (p *Provider) hppOptions() *klarna.HppOptions {
	mode := klarna.PlaceOrderModePlaceOrder
	if p.settings.Capture {
		mode = klarna.PlaceOrderModeCaptureOrder
	}

	return &klarna.HppOptions{
		PlaceOrderMode:          mode,
		LogoURL:                 p.settings.PaymentPageLogoURL,
		PageTitle:               p.settings.PaymentPagePageTitle,
		PaymentMethodCategories: p.settings.paymentMethodCategories(),
		PaymentMethodCategory:   p.settings.PaymentMethodCategory,
		PaymentFallback:         p.settings.EnableFallbacks,
	}
}

// ProcessCallback validates a status_update callback against the metadata
// stored on the order and, for a completed session, fetches the Klarna order
// and translates its status. Every other inbound call yields a neutral
// result: Klarna retries and probes the endpoint, so mismatches are not
// errors. Safe to process the same event more than once.
func (p *Provider) ProcessCallback(ctx context.Context, ord *order.Order, req *http.Request) *CallbackResult {
	query := req.URL.Query()

	sid := query.Get("sid")
	if sid == "" || sid != ord.Property(MetaSessionID) {
		p.log.Warn("callback session id mismatch",
			zap.String("order_number", ord.OrderNumber),
			zap.String("sid", sid),
		)
		return &CallbackResult{}
	}

	token := query.Get("token")
	if token == "" || token != ord.Property(MetaSecretToken) {
		p.log.Warn("callback token mismatch", zap.String("order_number", ord.OrderNumber))
		return &CallbackResult{}
	}

	event, err := p.client.ParseSessionEvent(req.Body)
	if err != nil {
		p.log.Warn("unparseable callback body",
			zap.String("order_number", ord.OrderNumber),
			zap.Error(err),
		)
		return &CallbackResult{}
	}

	if event.Session.Status != klarna.SessionStatusCompleted {
		p.log.Debug("ignoring non-completed session event",
			zap.String("order_number", ord.OrderNumber),
			zap.String("status", event.Session.Status),
		)
		return &CallbackResult{}
	}

	klarnaOrder, err := p.client.GetOrder(ctx, event.Session.OrderID)
	if err != nil {
		p.log.Error("failed to fetch Klarna order for completed session",
			zap.String("order_number", ord.OrderNumber),
			zap.String("klarna_order_id", event.Session.OrderID),
			zap.Error(err),
		)
		return &CallbackResult{}
	}

	return &CallbackResult{
		Transaction: &order.TransactionInfo{
			TransactionID:    klarnaOrder.OrderID,
			AmountAuthorized: ord.TotalPrice,
			Status:           TranslateOrderStatus(klarnaOrder),
		},
		Metadata: map[string]string{
			MetaOrderID:   event.Session.OrderID,
			MetaReference: event.Session.KlarnaReference,
			MetaSessionID: event.Session.SessionID,
		},
	}
}

// FetchPaymentStatus polls the current Klarna order state. Best effort: a
// failed call is logged and yields an empty result.
func (p *Provider) FetchPaymentStatus(ctx context.Context, ord *order.Order) *APIResult {
	tx, ok := p.transaction(ord, "fetch payment status")
	if !ok {
		return &APIResult{}
	}

	klarnaOrder, err := p.client.GetOrder(ctx, tx.TransactionID)
	if err != nil {
		p.log.Error("failed to fetch Klarna order",
			zap.String("order_number", ord.OrderNumber),
			zap.Error(err),
		)
		return &APIResult{}
	}

	return &APIResult{
		Transaction: &order.TransactionInfo{
			TransactionID:    klarnaOrder.OrderID,
			AmountAuthorized: tx.AmountAuthorized,
			Status:           TranslateOrderStatus(klarnaOrder),
		},
	}
}

// CancelPayment releases the authorization. Best effort.
func (p *Provider) CancelPayment(ctx context.Context, ord *order.Order) *APIResult {
	tx, ok := p.transaction(ord, "cancel payment")
	if !ok {
		return &APIResult{}
	}

	if err := p.client.CancelOrder(ctx, tx.TransactionID); err != nil {
		p.log.Error("failed to cancel Klarna order",
			zap.String("order_number", ord.OrderNumber),
			zap.Error(err),
		)
		return &APIResult{}
	}

	return &APIResult{
		Transaction: &order.TransactionInfo{
			TransactionID:    tx.TransactionID,
			AmountAuthorized: tx.AmountAuthorized,
			Status:           order.PaymentStatusCancelled,
		},
	}
}

// CapturePayment captures the authorized amount. Best effort.
func (p *Provider) CapturePayment(ctx context.Context, ord *order.Order) *APIResult {
	tx, ok := p.transaction(ord, "capture payment")
	if !ok {
		return &APIResult{}
	}

	err := p.client.CaptureOrder(ctx, tx.TransactionID, &klarna.CaptureOptions{
		CapturedAmount: order.ToMinorUnits(tx.AmountAuthorized),
		Description:    "Capture of order " + ord.OrderNumber,
		Reference:      ord.OrderNumber,
	})
	if err != nil {
		p.log.Error("failed to capture Klarna order",
			zap.String("order_number", ord.OrderNumber),
			zap.Error(err),
		)
		return &APIResult{}
	}

	return &APIResult{
		Transaction: &order.TransactionInfo{
			TransactionID:    tx.TransactionID,
			AmountAuthorized: tx.AmountAuthorized,
			Status:           order.PaymentStatusCaptured,
		},
	}
}

// RefundPayment refunds the authorized amount. Best effort.
func (p *Provider) RefundPayment(ctx context.Context, ord *order.Order) *APIResult {
	tx, ok := p.transaction(ord, "refund payment")
	if !ok {
		return &APIResult{}
	}

	err := p.client.RefundOrder(ctx, tx.TransactionID, &klarna.RefundOptions{
		RefundedAmount: order.ToMinorUnits(tx.AmountAuthorized),
		Description:    "Refund of order " + ord.OrderNumber,
		Reference:      ord.OrderNumber,
	})
	if err != nil {
		p.log.Error("failed to refund Klarna order",
			zap.String("order_number", ord.OrderNumber),
			zap.Error(err),
		)
		return &APIResult{}
	}

	return &APIResult{
		Transaction: &order.TransactionInfo{
			TransactionID:    tx.TransactionID,
			AmountAuthorized: tx.AmountAuthorized,
			Status:           order.PaymentStatusRefunded,
		},
	}
}

func (p *Provider) transaction(ord *order.Order, op string) (*order.TransactionInfo, bool) {
	if ord.Transaction == nil || ord.Transaction.TransactionID == "" {
		p.log.Warn("order has no transaction, skipping "+op,
			zap.String("order_number", ord.OrderNumber))
		return nil, false
	}
	return ord.Transaction, true
}
