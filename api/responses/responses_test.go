package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/angelmondragon/adjourney-backend/pkg/errors"
	"github.com/angelmondragon/adjourney-backend/pkg/logger"
)

func TestWriteSuccessWrapsData(t *testing.T) {
	t.Parallel()

	resp := httptest.NewRecorder()
	WriteSuccess(resp, map[string]string{"status": "live"})

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["status"] != "live" {
		t.Fatalf("unexpected data %+v", envelope.Data)
	}
}

func TestWriteErrorMapsCodesToStatus(t *testing.T) {
	t.Parallel()

	logg := logger.New(logger.Options{ServiceName: "test"})
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{err: pkgerrors.New(pkgerrors.CodeValidation, "bad input"), status: http.StatusBadRequest, code: "VALIDATION_ERROR"},
		{err: pkgerrors.New(pkgerrors.CodeNotFound, "missing"), status: http.StatusNotFound, code: "NOT_FOUND"},
		{err: errors.New("boom"), status: http.StatusInternalServerError, code: "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		resp := httptest.NewRecorder()
		WriteError(context.Background(), logg, resp, tc.err)

		if resp.Code != tc.status {
			t.Fatalf("expected %d for %v, got %d", tc.status, tc.err, resp.Code)
		}
		var envelope struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if envelope.Error.Code != tc.code {
			t.Fatalf("expected code %s, got %s", tc.code, envelope.Error.Code)
		}
	}
}

func TestWriteErrorHidesInternalMessage(t *testing.T) {
	t.Parallel()

	resp := httptest.NewRecorder()
	WriteError(context.Background(), nil, resp, pkgerrors.New(pkgerrors.CodeInternal, "pg dsn leaked here"))

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Message != "internal server error" {
		t.Fatalf("internal detail exposed: %q", envelope.Error.Message)
	}
}
