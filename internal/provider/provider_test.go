package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/vendrhub/klarna-hpp/internal/klarna"
	"github.com/vendrhub/klarna-hpp/internal/order"
	"github.com/vendrhub/klarna-hpp/pkg/logger"
)

// fakeKlarna is an httptest server answering the Klarna endpoints the
// provider calls, recording the requests it sees.
type fakeKlarna struct {
	t *testing.T

	merchantSessionReq *klarna.CreateMerchantSessionRequest
	hppSessionReq      *klarna.CreateHppSessionRequest
	order              klarna.Order
	getOrderCalls      int
	cancelCalls        int
	captureCalls       int
	refundCalls        int
}

func (f *fakeKlarna) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/payments/v1/sessions":
			f.merchantSessionReq = &klarna.CreateMerchantSessionRequest{}
			if err := json.NewDecoder(r.Body).Decode(f.merchantSessionReq); err != nil {
				f.t.Fatalf("failed to decode merchant session request: %v", err)
			}
			json.NewEncoder(w).Encode(klarna.MerchantSession{SessionID: "ms-1"})

		case r.Method == http.MethodPost && r.URL.Path == "/hpp/v1/sessions":
			f.hppSessionReq = &klarna.CreateHppSessionRequest{}
			if err := json.NewDecoder(r.Body).Decode(f.hppSessionReq); err != nil {
				f.t.Fatalf("failed to decode HPP session request: %v", err)
			}
			json.NewEncoder(w).Encode(klarna.HppSession{
				SessionID:   "hpp-1",
				RedirectURL: "https://pay.playground.klarna.com/eu/hpp-1",
			})

		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/ordermanagement/v1/orders/"):
			f.getOrderCalls++
			json.NewEncoder(w).Encode(f.order)

		case strings.HasSuffix(r.URL.Path, "/cancel"):
			f.cancelCalls++
			w.WriteHeader(http.StatusNoContent)

		case strings.HasSuffix(r.URL.Path, "/captures"):
			f.captureCalls++
			w.WriteHeader(http.StatusCreated)

		case strings.HasSuffix(r.URL.Path, "/refunds"):
			f.refundCalls++
			w.WriteHeader(http.StatusCreated)

		default:
			f.t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newTestProvider(t *testing.T, settings HppSettings) (*Provider, *fakeKlarna) {
	t.Helper()

	fake := &fakeKlarna{t: t}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	client := klarna.NewClient(klarna.ClientConfig{
		Username:        "user",
		Password:        "pass",
		Region:          klarna.RegionEurope,
		Testing:         true,
		OverrideBaseURL: srv.URL,
	}, srv.Client())

	return NewWithClient(settings, client, logger.Noop()), fake
}

func testOrder() *order.Order {
	return &order.Order{
		OrderNumber:        "ORDER-0001",
		CurrencyCode:       "DKK",
		BillingCountryCode: "DK",
		LanguageISOCode:    "da-DK",
		TotalPrice:         dec("100.00"),
		TotalTax:           dec("16.67"),
		Lines: []order.Line{
			{SKU: "SKU-1", Name: "Widget", Quantity: 1, UnitPrice: dec("100.00"), TotalPrice: dec("100.00"), TaxRate: dec("0.20")},
		},
		Properties: map[string]string{},
	}
}

func TestGenerateForm(t *testing.T) {
	p, fake := newTestProvider(t, HppSettings{Settings: Settings{Capture: true}})

	result, err := p.GenerateForm(context.Background(), testOrder(),
		"https://shop.example/continue", "https://shop.example/cancel", "https://shop.example/callback")
	if err != nil {
		t.Fatalf("GenerateForm failed: %v", err)
	}

	if result.RedirectURL != "https://pay.playground.klarna.com/eu/hpp-1" {
		t.Errorf("RedirectURL = %q", result.RedirectURL)
	}
	if result.Method != http.MethodGet {
		t.Errorf("Method = %q, want GET", result.Method)
	}
	if result.Metadata[MetaSessionID] != "hpp-1" {
		t.Errorf("metadata session id = %q, want hpp-1", result.Metadata[MetaSessionID])
	}
	token := result.Metadata[MetaSecretToken]
	if len(token) != 32 || strings.Contains(token, "-") {
		t.Errorf("secret token = %q, want 32 hex chars", token)
	}

	if fake.merchantSessionReq == nil {
		t.Fatal("merchant session was not created")
	}
	if fake.merchantSessionReq.OrderAmount != 10000 {
		t.Errorf("OrderAmount = %d, want 10000", fake.merchantSessionReq.OrderAmount)
	}

	hpp := fake.hppSessionReq
	if hpp == nil {
		t.Fatal("HPP session was not created")
	}
	if !strings.HasSuffix(hpp.PaymentSessionURL, "/payments/v1/sessions/ms-1") {
		t.Errorf("PaymentSessionURL = %q, want merchant session URL", hpp.PaymentSessionURL)
	}
	if hpp.Options.PlaceOrderMode != klarna.PlaceOrderModeCaptureOrder {
		t.Errorf("PlaceOrderMode = %q, want CAPTURE_ORDER", hpp.Options.PlaceOrderMode)
	}

	urls := hpp.MerchantURLs
	if want := "https://shop.example/callback?sid={{session_id}}&token=" + token; urls.StatusUpdate != want {
		t.Errorf("StatusUpdate = %q, want %q", urls.StatusUpdate, want)
	}
	for reason, got := range map[string]string{
		"cancel":  urls.Cancel,
		"back":    urls.Back,
		"failure": urls.Failure,
		"error":   urls.Error,
	} {
		if want := "https://shop.example/cancel?reason=" + reason; got != want {
			t.Errorf("%s URL = %q, want %q", reason, got, want)
		}
	}
}

func TestGenerateForm_AuthorizeMode(t *testing.T) {
	p, fake := newTestProvider(t, HppSettings{})

	if _, err := p.GenerateForm(context.Background(), testOrder(),
		"https://shop.example/continue", "https://shop.example/cancel", "https://shop.example/callback"); err != nil {
		t.Fatalf("GenerateForm failed: %v", err)
	}

	if got := fake.hppSessionReq.Options.PlaceOrderMode; got != klarna.PlaceOrderModePlaceOrder {
		t.Errorf("PlaceOrderMode = %q, want PLACE_ORDER", got)
	}
}

func TestGenerateForm_InvalidCountry(t *testing.T) {
	p, fake := newTestProvider(t, HppSettings{})

	ord := testOrder()
	ord.BillingCountryCode = "XX"

	if _, err := p.GenerateForm(context.Background(), ord, "c", "c", "c"); err == nil {
		t.Fatal("expected error for invalid billing country")
	}
	if fake.merchantSessionReq != nil {
		t.Error("no Klarna call should be made for an invalid country")
	}
}

func TestGenerateForm_InvalidCurrency(t *testing.T) {
	p, fake := newTestProvider(t, HppSettings{})

	ord := testOrder()
	ord.CurrencyCode = "FOO"

	if _, err := p.GenerateForm(context.Background(), ord, "c", "c", "c"); err == nil {
		t.Fatal("expected error for invalid currency")
	}
	if fake.merchantSessionReq != nil {
		t.Error("no Klarna call should be made for an invalid currency")
	}
}

func callbackRequest(sid, token, body string) *http.Request {
	q := url.Values{}
	if sid != "" {
		q.Set("sid", sid)
	}
	if token != "" {
		q.Set("token", token)
	}
	return httptest.NewRequest(http.MethodPost,
		"https://shop.example/callback?"+q.Encode(), strings.NewReader(body))
}

func completedEvent(sid string) string {
	return fmt.Sprintf(`{
		"event_id": "evt-1",
		"session": {
			"session_id": %q,
			"status": "COMPLETED",
			"order_id": "ko-1",
			"klarna_reference": "K12345"
		}
	}`, sid)
}

func storedOrder() *order.Order {
	ord := testOrder()
	ord.Properties[MetaSessionID] = "hpp-1"
	ord.Properties[MetaSecretToken] = "s3cret"
	return ord
}

func TestProcessCallback_Completed(t *testing.T) {
	p, fake := newTestProvider(t, HppSettings{})
	fake.order = klarna.Order{OrderID: "ko-1", Status: klarna.OrderStatusCaptured}

	result := p.ProcessCallback(context.Background(), storedOrder(),
		callbackRequest("hpp-1", "s3cret", completedEvent("hpp-1")))

	if !result.Processed() {
		t.Fatal("expected callback to be processed")
	}
	if result.Transaction.TransactionID != "ko-1" {
		t.Errorf("TransactionID = %q, want ko-1", result.Transaction.TransactionID)
	}
	if result.Transaction.Status != order.PaymentStatusCaptured {
		t.Errorf("Status = %s, want Captured", result.Transaction.Status)
	}
	if !result.Transaction.AmountAuthorized.Equal(dec("100.00")) {
		t.Errorf("AmountAuthorized = %s, want 100.00", result.Transaction.AmountAuthorized)
	}
	if result.Metadata[MetaOrderID] != "ko-1" || result.Metadata[MetaReference] != "K12345" {
		t.Errorf("unexpected metadata: %+v", result.Metadata)
	}
}

func TestProcessCallback_SessionIDMismatch(t *testing.T) {
	p, fake := newTestProvider(t, HppSettings{})

	result := p.ProcessCallback(context.Background(), storedOrder(),
		callbackRequest("hpp-other", "s3cret", completedEvent("hpp-other")))

	if result.Processed() {
		t.Error("expected neutral result for sid mismatch")
	}
	if fake.getOrderCalls != 0 {
		t.Error("order must not be fetched for sid mismatch")
	}
}

func TestProcessCallback_TokenMismatch(t *testing.T) {
	p, fake := newTestProvider(t, HppSettings{})

	result := p.ProcessCallback(context.Background(), storedOrder(),
		callbackRequest("hpp-1", "wrong", completedEvent("hpp-1")))

	if result.Processed() {
		t.Error("expected neutral result for token mismatch")
	}
	if fake.getOrderCalls != 0 {
		t.Error("order must not be fetched for token mismatch")
	}
}

func TestProcessCallback_MissingParams(t *testing.T) {
	p, _ := newTestProvider(t, HppSettings{})

	if p.ProcessCallback(context.Background(), storedOrder(),
		callbackRequest("", "s3cret", completedEvent("hpp-1"))).Processed() {
		t.Error("expected neutral result for missing sid")
	}
	if p.ProcessCallback(context.Background(), storedOrder(),
		callbackRequest("hpp-1", "", completedEvent("hpp-1"))).Processed() {
		t.Error("expected neutral result for missing token")
	}
}

func TestProcessCallback_NonCompletedStatus(t *testing.T) {
	p, fake := newTestProvider(t, HppSettings{})

	body := `{"event_id":"evt-1","session":{"session_id":"hpp-1","status":"IN_PROGRESS"}}`
	result := p.ProcessCallback(context.Background(), storedOrder(),
		callbackRequest("hpp-1", "s3cret", body))

	if result.Processed() {
		t.Error("expected neutral result for non-completed session")
	}
	if fake.getOrderCalls != 0 {
		t.Error("order must not be fetched for a non-completed session")
	}
}

func TestProcessCallback_UnparseableBody(t *testing.T) {
	p, _ := newTestProvider(t, HppSettings{})

	result := p.ProcessCallback(context.Background(), storedOrder(),
		callbackRequest("hpp-1", "s3cret", "this is not json"))

	if result.Processed() {
		t.Error("expected neutral result for unparseable body")
	}
}

func TestProcessCallback_Idempotent(t *testing.T) {
	p, fake := newTestProvider(t, HppSettings{})
	fake.order = klarna.Order{OrderID: "ko-1", Status: klarna.OrderStatusAuthorized}

	first := p.ProcessCallback(context.Background(), storedOrder(),
		callbackRequest("hpp-1", "s3cret", completedEvent("hpp-1")))
	second := p.ProcessCallback(context.Background(), storedOrder(),
		callbackRequest("hpp-1", "s3cret", completedEvent("hpp-1")))

	if !first.Processed() || !second.Processed() {
		t.Fatal("both deliveries should be processed")
	}
	if first.Transaction.TransactionID != second.Transaction.TransactionID ||
		first.Transaction.Status != second.Transaction.Status {
		t.Errorf("repeated delivery produced different transactions: %+v vs %+v",
			first.Transaction, second.Transaction)
	}
}

func transactedOrder(status order.PaymentStatus) *order.Order {
	ord := testOrder()
	ord.Transaction = &order.TransactionInfo{
		TransactionID:    "ko-1",
		AmountAuthorized: dec("100.00"),
		Status:           status,
	}
	return ord
}

func TestFetchPaymentStatus(t *testing.T) {
	p, fake := newTestProvider(t, HppSettings{})
	fake.order = klarna.Order{OrderID: "ko-1", Status: klarna.OrderStatusCaptured, RefundedAmount: 100}

	result := p.FetchPaymentStatus(context.Background(), transactedOrder(order.PaymentStatusAuthorized))
	if result.Transaction == nil {
		t.Fatal("expected a transaction update")
	}
	if result.Transaction.Status != order.PaymentStatusRefunded {
		t.Errorf("Status = %s, want Refunded", result.Transaction.Status)
	}
}

func TestCapturePayment(t *testing.T) {
	p, fake := newTestProvider(t, HppSettings{})

	result := p.CapturePayment(context.Background(), transactedOrder(order.PaymentStatusAuthorized))
	if fake.captureCalls != 1 {
		t.Errorf("captureCalls = %d, want 1", fake.captureCalls)
	}
	if result.Transaction == nil || result.Transaction.Status != order.PaymentStatusCaptured {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestCancelPayment(t *testing.T) {
	p, fake := newTestProvider(t, HppSettings{})

	result := p.CancelPayment(context.Background(), transactedOrder(order.PaymentStatusAuthorized))
	if fake.cancelCalls != 1 {
		t.Errorf("cancelCalls = %d, want 1", fake.cancelCalls)
	}
	if result.Transaction == nil || result.Transaction.Status != order.PaymentStatusCancelled {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestRefundPayment(t *testing.T) {
	p, fake := newTestProvider(t, HppSettings{})

	result := p.RefundPayment(context.Background(), transactedOrder(order.PaymentStatusCaptured))
	if fake.refundCalls != 1 {
		t.Errorf("refundCalls = %d, want 1", fake.refundCalls)
	}
	if result.Transaction == nil || result.Transaction.Status != order.PaymentStatusRefunded {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestBestEffortOps_NoTransaction(t *testing.T) {
	p, fake := newTestProvider(t, HppSettings{})

	ord := testOrder()
	if p.CapturePayment(context.Background(), ord).Transaction != nil {
		t.Error("capture without transaction should be a no-op")
	}
	if p.CancelPayment(context.Background(), ord).Transaction != nil {
		t.Error("cancel without transaction should be a no-op")
	}
	if p.RefundPayment(context.Background(), ord).Transaction != nil {
		t.Error("refund without transaction should be a no-op")
	}
	if p.FetchPaymentStatus(context.Background(), ord).Transaction != nil {
		t.Error("status fetch without transaction should be a no-op")
	}
	if fake.getOrderCalls+fake.cancelCalls+fake.captureCalls+fake.refundCalls != 0 {
		t.Error("no Klarna calls should be made without a transaction")
	}
}

func TestBestEffortOps_APIFailureIsNeutral(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client := klarna.NewClient(klarna.ClientConfig{
		Region:          klarna.RegionEurope,
		OverrideBaseURL: srv.URL,
	}, srv.Client())
	p := NewWithClient(HppSettings{}, client, logger.Noop())

	ord := transactedOrder(order.PaymentStatusAuthorized)
	if p.CapturePayment(context.Background(), ord).Transaction != nil {
		t.Error("failed capture should yield an empty result, not an error")
	}
	if p.FetchPaymentStatus(context.Background(), ord).Transaction != nil {
		t.Error("failed status fetch should yield an empty result")
	}
	if p.CancelPayment(context.Background(), ord).Transaction != nil {
		t.Error("failed cancel should yield an empty result")
	}
	if p.RefundPayment(context.Background(), ord).Transaction != nil {
		t.Error("failed refund should yield an empty result")
	}
}
