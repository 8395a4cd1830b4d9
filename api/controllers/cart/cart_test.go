package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/collectionaura/rentalcart/api/middleware"
	cartsvc "github.com/collectionaura/rentalcart/internal/cart"
	"github.com/collectionaura/rentalcart/pkg/enums"
	pkgerrors "github.com/collectionaura/rentalcart/pkg/errors"
)

type stubCartService struct {
	result      *cartsvc.QuantityResult
	quantities  map[int]int
	clearResult *cartsvc.ClearResult
	err         error

	lastProductID int
	lastQuantity  int
	lastCategory  string
}

func (s *stubCartService) SetQuantity(ctx context.Context, sessionID string, productID, quantity int) (*cartsvc.QuantityResult, error) {
	s.lastProductID = productID
	s.lastQuantity = quantity
	return s.result, s.err
}

func (s *stubCartService) Quantities(ctx context.Context, sessionID string) (map[int]int, error) {
	return s.quantities, s.err
}

func (s *stubCartService) ClearCategory(ctx context.Context, sessionID, category string) (*cartsvc.ClearResult, error) {
	s.lastCategory = category
	return s.clearResult, s.err
}

func (s *stubCartService) FormattedTotal(ctx context.Context, sessionID string) (string, error) {
	return "$0.00", nil
}

func withSession(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithSessionID(req.Context(), "sess-1"))
}

func TestUpdateQuantitySuccess(t *testing.T) {
	service := &stubCartService{result: &cartsvc.QuantityResult{
		ProductID: 10,
		Quantity:  3,
		Action:    enums.CartActionUpdated,
		CartTotal: "$30.00",
	}}
	handler := UpdateQuantity(service, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/quantity", strings.NewReader(`{"productId":10,"quantity":3}`))
	req = withSession(req)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if service.lastProductID != 10 || service.lastQuantity != 3 {
		t.Fatalf("unexpected service input: %d %d", service.lastProductID, service.lastQuantity)
	}

	var envelope struct {
		Data cartsvc.QuantityResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.CartTotal != "$30.00" {
		t.Fatalf("unexpected cart total: %s", envelope.Data.CartTotal)
	}
}

func TestUpdateQuantityMissingSession(t *testing.T) {
	handler := UpdateQuantity(&stubCartService{}, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/quantity", strings.NewReader(`{"productId":10,"quantity":3}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestUpdateQuantityRejectsUnknownFields(t *testing.T) {
	handler := UpdateQuantity(&stubCartService{}, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/quantity", strings.NewReader(`{"productId":10,"quantity":3,"bogus":true}`))
	req = withSession(req)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUpdateQuantityMissingQuantityField(t *testing.T) {
	service := &stubCartService{lastProductID: -1, lastQuantity: -1}
	handler := UpdateQuantity(service, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/quantity", strings.NewReader(`{"productId":10}`))
	req = withSession(req)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if service.lastProductID != -1 {
		t.Fatalf("service should not be called on a body without quantity")
	}
	var envelope struct {
		Error struct {
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Details["quantity"] != "is required" {
		t.Fatalf("unexpected details: %+v", envelope.Error.Details)
	}
}

func TestUpdateQuantityExplicitZeroAccepted(t *testing.T) {
	service := &stubCartService{
		lastQuantity: -1,
		result: &cartsvc.QuantityResult{
			ProductID: 10,
			Quantity:  0,
			Action:    enums.CartActionRemoved,
			CartTotal: "$0.00",
		},
	}
	handler := UpdateQuantity(service, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/quantity", strings.NewReader(`{"productId":10,"quantity":0}`))
	req = withSession(req)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if service.lastQuantity != 0 {
		t.Fatalf("expected explicit zero to reach the service, got %d", service.lastQuantity)
	}
}

func TestUpdateQuantityInsufficientStock(t *testing.T) {
	service := &stubCartService{err: pkgerrors.New(pkgerrors.CodeInsufficientStock, "Not enough stock. Only 1 available.")}
	handler := UpdateQuantity(service, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/quantity", strings.NewReader(`{"productId":10,"quantity":5}`))
	req = withSession(req)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Message != "Not enough stock. Only 1 available." {
		t.Fatalf("unexpected message: %s", envelope.Error.Message)
	}
}

func TestQuantitiesSnapshot(t *testing.T) {
	handler := Quantities(&stubCartService{quantities: map[int]int{10: 2, 20: 1}}, nil)

	req := withSession(httptest.NewRequest(http.MethodGet, "/api/v1/cart/quantities", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data struct {
			Quantities map[string]int `json:"quantities"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Quantities["10"] != 2 {
		t.Fatalf("unexpected quantities: %+v", envelope.Data.Quantities)
	}
}

func TestClearCategoryPassesSlug(t *testing.T) {
	service := &stubCartService{clearResult: &cartsvc.ClearResult{Removed: 2, CartTotal: "$5.00"}}
	handler := ClearCategory(service, nil, nil)

	req := withSession(httptest.NewRequest(http.MethodDelete, "/api/v1/cart/category/equipment-rental", nil))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("category", "equipment-rental")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if service.lastCategory != "equipment-rental" {
		t.Fatalf("unexpected category: %s", service.lastCategory)
	}
}

func TestUpdateQuantityNilService(t *testing.T) {
	handler := UpdateQuantity(nil, nil, nil)

	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/cart/quantity", strings.NewReader(`{}`)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
