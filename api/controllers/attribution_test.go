package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/adjourney-backend/internal/attribution"
	"github.com/angelmondragon/adjourney-backend/pkg/logger"
)

type stubAttributionService struct {
	batch     *attribution.BatchResult
	summaries []attribution.CreativeSummary
	err       error
	inputs    []attribution.OrderInput
	window    *attribution.ReportWindow
	calls     int
}

func (s *stubAttributionService) AttributeOrders(_ context.Context, inputs []attribution.OrderInput) (*attribution.BatchResult, error) {
	s.calls++
	s.inputs = inputs
	if s.err != nil {
		return nil, s.err
	}
	return s.batch, nil
}

func (s *stubAttributionService) CreativeSummaries(_ context.Context, window *attribution.ReportWindow) ([]attribution.CreativeSummary, error) {
	s.calls++
	s.window = window
	if s.err != nil {
		return nil, s.err
	}
	return s.summaries, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test"})
}

func TestAttributeOrdersHandlesBatch(t *testing.T) {
	stub := &stubAttributionService{batch: &attribution.BatchResult{
		Results:  []attribution.Result{{OrderID: "ord-1", FinalPaymentCents: 1000}},
		Failures: []attribution.OrderFailure{{OrderID: "ord-2", Reason: "VALIDATION_ERROR: final payment must not be negative"}},
	}}
	handler := AttributeOrders(stub, testLogger())

	body := `{"orders":[{"order_id":"ord-1","final_payment_cents":1000,"creative_keys":["a","b"]}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/attribution/orders", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if len(stub.inputs) != 1 || stub.inputs[0].OrderID != "ord-1" {
		t.Fatalf("unexpected inputs %+v", stub.inputs)
	}

	var envelope struct {
		Data attribution.BatchResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Results) != 1 || len(envelope.Data.Failures) != 1 {
		t.Fatalf("unexpected batch blob: %+v", envelope.Data)
	}
}

func TestAttributeOrdersRejectsBadBody(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "not json", body: `{"orders":`},
		{name: "missing orders", body: `{}`},
		{name: "empty orders", body: `{"orders":[]}`},
		{name: "negative payment", body: `{"orders":[{"order_id":"ord-1","final_payment_cents":-5,"creative_keys":["a"]}]}`},
		{name: "unknown field", body: `{"orders":[],"mode":"dry-run"}`},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubAttributionService{}
			handler := AttributeOrders(stub, testLogger())

			req := httptest.NewRequest(http.MethodPost, "/api/v1/attribution/orders", strings.NewReader(tc.body))
			resp := httptest.NewRecorder()
			handler.ServeHTTP(resp, req)

			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
			}
			if stub.calls != 0 {
				t.Fatal("service should not be invoked on invalid body")
			}
		})
	}
}

func TestCreativeSummariesServesReport(t *testing.T) {
	stub := &stubAttributionService{summaries: []attribution.CreativeSummary{{
		CreativeKey:            "hero-video:-:newsletter:-:email:-:spring-launch",
		TotalOrders:            2,
		AttributedRevenueCents: 550_000,
	}}}
	handler := CreativeSummaries(stub, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/attribution/creatives", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data []attribution.CreativeSummary `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].AttributedRevenueCents != 550_000 {
		t.Fatalf("unexpected summaries blob: %+v", envelope.Data)
	}
	if stub.window != nil {
		t.Fatalf("expected unbounded report, got %+v", stub.window)
	}
}

func TestCreativeSummariesAppliesDateRange(t *testing.T) {
	stub := &stubAttributionService{}
	handler := CreativeSummaries(stub, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/attribution/creatives?from=2026-02-01&to=2026-02-28", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if stub.window == nil {
		t.Fatal("expected report window")
	}
	wantFrom := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !stub.window.From.Equal(wantFrom) || !stub.window.To.Equal(wantTo) {
		t.Fatalf("unexpected window %+v", stub.window)
	}
}
