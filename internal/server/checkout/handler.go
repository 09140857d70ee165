// Package checkout exposes the host-facing HTTP surface: an endpoint that
// starts a hosted-payment-page checkout and the status_update webhook Klarna
// calls back on.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/vendrhub/klarna-hpp/internal/order"
	"github.com/vendrhub/klarna-hpp/internal/provider"
	"github.com/vendrhub/klarna-hpp/internal/storage/postgres"
	"github.com/vendrhub/klarna-hpp/pkg/logger"
)

const (
	CheckoutPath = "/checkout"
	WebhookPath  = "/webhooks/klarna"
)

// CheckoutStore persists the per-attempt correlation data between the
// redirect and the callback.
type CheckoutStore interface {
	Create(ctx context.Context, attempt *postgres.CheckoutAttempt) error
	GetByOrderNumber(ctx context.Context, orderNumber string) (*postgres.CheckoutAttempt, error)
	MarkCompleted(ctx context.Context, orderNumber, transactionID string, status order.PaymentStatus) error
}

// Config carries the URLs the handler hands to the provider. PublicBaseURL
// is the externally reachable base of this service; the webhook URL given to
// Klarna is derived from it.
type Config struct {
	PublicBaseURL string
	ContinueURL   string
	CancelURL     string
}

type Handler struct {
	provider *provider.Provider
	store    CheckoutStore
	cfg      Config
	log      logger.Logger
}

func NewHandler(p *provider.Provider, store CheckoutStore, cfg Config, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Noop()
	}
	return &Handler{provider: p, store: store, cfg: cfg, log: log}
}

// Register mounts the handler's routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc(CheckoutPath, h.handleCheckout)
	mux.HandleFunc(WebhookPath, h.handleWebhook)
}

type checkoutResponse struct {
	RedirectURL string `json:"redirect_url"`
	Method      string `json:"method"`
}

// handleCheckout takes an order snapshot, creates the Klarna sessions and
// returns the redirect to the hosted payment page. The session id and secret
// token are persisted before the redirect is handed out, so the callback can
// always be validated against them.
func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var ord order.Order
	if err := json.NewDecoder(r.Body).Decode(&ord); err != nil {
		h.log.Warn("invalid checkout request body", zap.Error(err))
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if ord.OrderNumber == "" {
		http.Error(w, "order number is required", http.StatusBadRequest)
		return
	}

	form, err := h.provider.GenerateForm(r.Context(), &ord,
		h.cfg.ContinueURL, h.cfg.CancelURL, h.webhookURL(ord.OrderNumber))
	if err != nil {
		h.log.Error("failed to start checkout",
			zap.String("order_number", ord.OrderNumber),
			zap.Error(err),
		)
		http.Error(w, "failed to start checkout", http.StatusBadGateway)
		return
	}

	if ord.Properties == nil {
		ord.Properties = map[string]string{}
	}
	for k, v := range form.Metadata {
		ord.Properties[k] = v
	}

	attempt := &postgres.CheckoutAttempt{
		OrderNumber:  ord.OrderNumber,
		CurrencyCode: strings.ToUpper(ord.CurrencyCode),
		OrderAmount:  order.ToMinorUnits(ord.TotalPrice),
		Snapshot:     ord,
		SessionID:    form.Metadata[provider.MetaSessionID],
		SecretToken:  form.Metadata[provider.MetaSecretToken],
	}
	if err := h.store.Create(r.Context(), attempt); err != nil {
		h.log.Error("failed to persist checkout attempt",
			zap.String("order_number", ord.OrderNumber),
			zap.Error(err),
		)
		http.Error(w, "failed to persist checkout attempt", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(checkoutResponse{
		RedirectURL: form.RedirectURL,
		Method:      form.Method,
	})
}

// handleWebhook processes a status_update callback. Klarna retries on
// non-2xx, so everything that is not a storage failure is acknowledged with
// 200 regardless of whether it changed anything.
func (h *Handler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	orderNumber := r.URL.Query().Get("order")
	if orderNumber == "" {
		http.Error(w, "order query parameter is required", http.StatusBadRequest)
		return
	}

	attempt, err := h.store.GetByOrderNumber(r.Context(), orderNumber)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			h.log.Warn("callback for unknown order", zap.String("order_number", orderNumber))
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
			return
		}
		h.log.Error("failed to load checkout attempt",
			zap.String("order_number", orderNumber),
			zap.Error(err),
		)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	ord := attempt.Snapshot
	if ord.Properties == nil {
		ord.Properties = map[string]string{}
	}
	ord.Properties[provider.MetaSessionID] = attempt.SessionID
	ord.Properties[provider.MetaSecretToken] = attempt.SecretToken

	result := h.provider.ProcessCallback(r.Context(), &ord, r)
	if result.Processed() {
		err := h.store.MarkCompleted(r.Context(), orderNumber,
			result.Transaction.TransactionID, result.Transaction.Status)
		if err != nil {
			h.log.Error("failed to record confirmed payment",
				zap.String("order_number", orderNumber),
				zap.Error(err),
			)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		h.log.Info("payment confirmed",
			zap.String("order_number", orderNumber),
			zap.String("transaction_id", result.Transaction.TransactionID),
			zap.String("status", string(result.Transaction.Status)),
		)
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handler) webhookURL(orderNumber string) string {
	return strings.TrimRight(h.cfg.PublicBaseURL, "/") + WebhookPath +
		"?order=" + url.QueryEscape(orderNumber)
}
