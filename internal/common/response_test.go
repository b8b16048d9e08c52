package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var resp struct {
		Error ErrorBody `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return resp.Error
}

func TestWriteErrorAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, &AppError{
		Code:       "UNKNOWN_PRODUCT",
		Message:    "no such code",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]string{"code": "Z"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body.Code != "UNKNOWN_PRODUCT" || body.Message != "no such code" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if body.Details == nil {
		t.Fatal("expected details to survive")
	}
}

func TestWriteErrorWrappedAppError(t *testing.T) {
	inner := NewAppError("OPTIMIZE_FAILED", "search blew the round budget", http.StatusInternalServerError, nil)
	rec := httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("optimize: %w", inner))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := decodeError(t, rec); body.Code != "OPTIMIZE_FAILED" {
		t.Fatalf("unexpected code %q", body.Code)
	}
}

func TestWriteErrorPlainError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("boom"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body.Code != "INTERNAL" || body.Message != "boom" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestWriteErrorZeroValueDefaults(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, &AppError{Err: errors.New("raw cause")})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body.Code != "INTERNAL" || body.Message != "raw cause" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := NewAppError("X", "msg", http.StatusBadRequest, cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to reach the cause")
	}
	if err.Error() != "cause" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
