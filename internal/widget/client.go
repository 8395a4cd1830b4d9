package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// TokenHeader carries the anti-forgery cart token on every mutation.
const TokenHeader = "X-Cart-Token"

// TransportError wraps any network-level failure. It is always non-fatal on
// the widget side: revert the card, show a notice, never retry.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a structured error envelope returned by the cart service.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Bootstrap is what the session endpoint hands a fresh page load.
type Bootstrap struct {
	SessionID  string         `json:"sessionId"`
	Token      string         `json:"token"`
	Quantities map[string]int `json:"quantities"`
	Currency   Currency       `json:"currency"`
}

// Currency carries the rendering marker the server is configured with.
type Currency struct {
	Symbol   string `json:"symbol"`
	Position string `json:"position"`
}

// QuantityUpdate mirrors the server's quantity mutation response.
type QuantityUpdate struct {
	ProductID int    `json:"productId"`
	Quantity  int    `json:"quantity"`
	Action    string `json:"action"`
	CartTotal string `json:"cartTotal"`
	Message   string `json:"message"`
}

// RentalUpdate mirrors the server's rental mutation response.
type RentalUpdate struct {
	ProductID  int    `json:"productId"`
	Quantity   int    `json:"quantity"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	RentalDays int    `json:"rentalDays"`
	LineTotal  string `json:"lineTotal"`
	CartTotal  string `json:"cartTotal"`
}

// CheckoutOutcome mirrors the server's checkout response.
type CheckoutOutcome struct {
	OrderID   string `json:"orderId"`
	Status    string `json:"status"`
	ItemCount int    `json:"itemCount"`
	Total     string `json:"total"`
}

// Client is the server surface the widget talks to.
type Client interface {
	StartSession(ctx context.Context) (*Bootstrap, error)
	SetQuantity(ctx context.Context, productID, quantity int) (*QuantityUpdate, error)
	Quantities(ctx context.Context) (map[int]int, error)
	AddRental(ctx context.Context, productID, quantity int, startDate, endDate string) (*RentalUpdate, error)
	RemoveRental(ctx context.Context, productID int) error
	UpdateRentalDates(ctx context.Context, productID int, startDate, endDate string) (*RentalUpdate, error)
	SaveArrivalNote(ctx context.Context, note string, confirmed bool) error
	Checkout(ctx context.Context) (*CheckoutOutcome, error)
}

// HTTPClient talks to the cart service over its JSON API.
type HTTPClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewHTTPClient builds a client for the given base URL. The token is empty
// until StartSession stores one.
func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// SetToken stores the cart token sent on subsequent requests.
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// StartSession bootstraps a cart session and remembers its token.
func (c *HTTPClient) StartSession(ctx context.Context) (*Bootstrap, error) {
	var out Bootstrap
	if err := c.do(ctx, http.MethodPost, "/api/v1/session", nil, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

// SetQuantity syncs an absolute quantity for a product.
func (c *HTTPClient) SetQuantity(ctx context.Context, productID, quantity int) (*QuantityUpdate, error) {
	body := map[string]int{"productId": productID, "quantity": quantity}
	var out QuantityUpdate
	if err := c.do(ctx, http.MethodPost, "/api/v1/cart/quantity", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Quantities fetches the full cart snapshot for page-load reconciliation.
func (c *HTTPClient) Quantities(ctx context.Context) (map[int]int, error) {
	var out struct {
		Quantities map[string]int `json:"quantities"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/cart/quantities", nil, &out); err != nil {
		return nil, err
	}
	quantities := make(map[int]int, len(out.Quantities))
	for key, qty := range out.Quantities {
		var id int
		if _, err := fmt.Sscanf(key, "%d", &id); err == nil {
			quantities[id] = qty
		}
	}
	return quantities, nil
}

// AddRental creates or overwrites the rental line for a product.
func (c *HTTPClient) AddRental(ctx context.Context, productID, quantity int, startDate, endDate string) (*RentalUpdate, error) {
	body := map[string]any{
		"productId": productID,
		"quantity":  quantity,
		"startDate": startDate,
		"endDate":   endDate,
	}
	var out RentalUpdate
	if err := c.do(ctx, http.MethodPost, "/api/v1/cart/rentals", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveRental drops the rental line for a product.
func (c *HTTPClient) RemoveRental(ctx context.Context, productID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/cart/rentals/%d", productID), nil, nil)
}

// UpdateRentalDates moves the window of an existing rental line.
func (c *HTTPClient) UpdateRentalDates(ctx context.Context, productID int, startDate, endDate string) (*RentalUpdate, error) {
	body := map[string]string{"startDate": startDate, "endDate": endDate}
	var out RentalUpdate
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/v1/cart/rentals/%d/dates", productID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveArrivalNote stages the guest's arrival note.
func (c *HTTPClient) SaveArrivalNote(ctx context.Context, note string, confirmed bool) error {
	body := map[string]any{"note": note, "confirmed": confirmed}
	return c.do(ctx, http.MethodPost, "/api/v1/arrival-note", body, nil)
}

// Checkout commits the cart into an order.
func (c *HTTPClient) Checkout(ctx context.Context) (*CheckoutOutcome, error) {
	var out CheckoutOutcome
	if err := c.do(ctx, http.MethodPost, "/api/v1/checkout", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: op, Err: err}
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set(TokenHeader, c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var envelope struct {
			Error *APIError `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Error == nil {
			return &TransportError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
		}
		return envelope.Error
	}

	if out == nil {
		return nil
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return &TransportError{Op: op, Err: err}
	}
	return nil
}
