package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/collectionaura/rentalcart/api/middleware"
	checkoutsvc "github.com/collectionaura/rentalcart/internal/checkout"
	pkgerrors "github.com/collectionaura/rentalcart/pkg/errors"
)

type stubCheckoutService struct {
	result *checkoutsvc.Result
	err    error
}

func (s *stubCheckoutService) Checkout(ctx context.Context, sessionID string) (*checkoutsvc.Result, error) {
	return s.result, s.err
}

func TestCommitSuccess(t *testing.T) {
	service := &stubCheckoutService{result: &checkoutsvc.Result{
		OrderID:    uuid.New(),
		Status:     "pending",
		ItemCount:  2,
		TotalCents: 17000,
		Total:      "$170.00",
	}}
	handler := Commit(service, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	req = req.WithContext(middleware.WithSessionID(req.Context(), "sess-1"))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	var envelope struct {
		Data checkoutsvc.Result `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Total != "$170.00" {
		t.Fatalf("unexpected total: %s", envelope.Data.Total)
	}
}

func TestCommitEmptyCart(t *testing.T) {
	service := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeValidation, "Your cart is empty")}
	handler := Commit(service, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	req = req.WithContext(middleware.WithSessionID(req.Context(), "sess-1"))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Message != "Your cart is empty" {
		t.Fatalf("unexpected message: %s", envelope.Error.Message)
	}
}

func TestCommitMissingSession(t *testing.T) {
	handler := Commit(&stubCheckoutService{}, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
