package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"restofront/internal/domain"
)

// OrderInput carries everything order creation needs from the cart and
// session stores. Validation happens locally before any network call.
type OrderInput struct {
	Token      string
	User       *domain.User
	Restaurant *domain.Restaurant
	Lines      []domain.CartLine
	Address    string
	Phone      string
	Notes      string
}

// PaymentIntent is the processor handle returned by the backend.
type PaymentIntent struct {
	ID           string `json:"intentId"`
	ClientSecret string `json:"clientSecret"`
}

// Client talks to the backend REST API. A failed call never mutates any
// order state held by the caller; results are returned, not stored.
type Client struct {
	baseURL       string
	http          *http.Client
	logger        *log.Logger
	intentTimeout time.Duration
}

func NewClient(baseURL string, intentTimeout time.Duration, logger *log.Logger) *Client {
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		http:          &http.Client{Timeout: 30 * time.Second},
		logger:        logger,
		intentTimeout: intentTimeout,
	}
}

type orderItem struct {
	PlatID   int64 `json:"plat_id"`
	Quantite int   `json:"quantite"`
}

type createOrderRequest struct {
	Items            []orderItem `json:"items"`
	ClientID         int64       `json:"client_id"`
	RestaurantID     int64       `json:"restaurant_id"`
	AdresseLivraison string      `json:"adresse_livraison"`
	Telephone        string      `json:"telephone"`
	Notes            string      `json:"notes"`
}

type createOrderResponse struct {
	CommandeID int64 `json:"commandeId"`
}

// CreateOrder validates the input locally, each failure with its own
// distinct reason, then posts the order. On success it returns the new
// order id.
func (c *Client) CreateOrder(ctx context.Context, in OrderInput) (int64, error) {
	if in.User == nil || strings.TrimSpace(in.Token) == "" {
		return 0, domain.ErrNotAuthenticated
	}
	if len(in.Lines) == 0 {
		return 0, domain.ErrEmptyCart
	}
	if in.Restaurant == nil || in.Restaurant.ID == 0 {
		return 0, domain.ErrNoRestaurant
	}
	for _, line := range in.Lines {
		if line.RestaurantID != in.Restaurant.ID {
			return 0, errors.New("cart does not belong to the selected restaurant")
		}
	}

	items := make([]orderItem, 0, len(in.Lines))
	for _, line := range in.Lines {
		items = append(items, orderItem{PlatID: line.ItemID, Quantite: line.Quantity})
	}
	req := createOrderRequest{
		Items:            items,
		ClientID:         in.User.ID,
		RestaurantID:     in.Restaurant.ID,
		AdresseLivraison: in.Address,
		Telephone:        in.Phone,
		Notes:            in.Notes,
	}

	var resp createOrderResponse
	if err := c.doJSON(ctx, http.MethodPost, "/commandes", in.Token, req, &resp); err != nil {
		return 0, err
	}
	return resp.CommandeID, nil
}

type invoiceResponse struct {
	Facture *domain.Invoice `json:"facture"`
}

// CreatePaymentIntent asks the backend to open a card payment intent for
// the order. The call is wrapped in its own deadline and a timeout is
// surfaced as a distinct error.
func (c *Client) CreatePaymentIntent(ctx context.Context, token string, orderID int64) (*PaymentIntent, error) {
	ctx, cancel := context.WithTimeout(ctx, c.intentTimeout)
	defer cancel()

	var intent PaymentIntent
	err := c.doJSON(ctx, http.MethodPost, "/paiement/create-payment-intent", token,
		map[string]int64{"commande_id": orderID}, &intent)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrPaymentIntentTimeout
		}
		return nil, err
	}
	return &intent, nil
}

// ConfirmPayment confirms the card intent and returns the resulting invoice.
func (c *Client) ConfirmPayment(ctx context.Context, token string, orderID int64, intentID string) (*domain.Invoice, error) {
	var resp invoiceResponse
	err := c.doJSON(ctx, http.MethodPost, "/paiement/confirm-payment", token,
		map[string]interface{}{"commande_id": orderID, "intent_id": intentID}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Facture, nil
}

// CreateDeliveryInvoice opens a cash-on-delivery invoice for the order.
func (c *Client) CreateDeliveryInvoice(ctx context.Context, token string, orderID int64) (*domain.Invoice, error) {
	var resp invoiceResponse
	err := c.doJSON(ctx, http.MethodPost, "/paiement/creer-facture-livraison", token,
		map[string]int64{"commande_id": orderID}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Facture, nil
}

// CreateMobileMoneyInvoice opens a mobile-money invoice for the order.
func (c *Client) CreateMobileMoneyInvoice(ctx context.Context, token string, orderID int64, operator, phone string) (*domain.Invoice, error) {
	var resp invoiceResponse
	err := c.doJSON(ctx, http.MethodPost, "/paiement/creer-facture-mobile-money", token,
		map[string]interface{}{"commande_id": orderID, "operateur": operator, "telephone": phone}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Facture, nil
}

// UpdateBankInfo attaches banking details to an already-created invoice.
func (c *Client) UpdateBankInfo(ctx context.Context, token string, invoiceID int64, info domain.BankInfo) (*domain.Invoice, error) {
	var resp invoiceResponse
	err := c.doJSON(ctx, http.MethodPost, "/paiement/mettre-a-jour-infos-bancaires", token,
		map[string]interface{}{"facture_id": invoiceID, "infos_bancaires": info}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Facture, nil
}

// GetInvoice fetches the invoice tied to one order.
func (c *Client) GetInvoice(ctx context.Context, token string, orderID int64) (*domain.Invoice, error) {
	var resp invoiceResponse
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/paiement/facture/%d", orderID), token, nil, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Facture == nil {
		return nil, domain.ErrNotFound
	}
	return resp.Facture, nil
}

// SuggestAddress registers a delivery address as a reusable suggestion.
// Best-effort: callers ignore failures.
func (c *Client) SuggestAddress(ctx context.Context, token, address string) error {
	return c.doJSON(ctx, http.MethodPost, "/adresses/suggestions", token,
		map[string]string{"adresse": address}, nil)
}

// ListRestaurants fetches the restaurant directory.
func (c *Client) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	var out []domain.Restaurant
	if err := c.doJSON(ctx, http.MethodGet, "/restaurants", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListDishes fetches one restaurant's menu.
func (c *Client) ListDishes(ctx context.Context, restaurantID int64) ([]domain.Dish, error) {
	var out []domain.Dish
	path := fmt.Sprintf("/menu/restaurant/%d/plats", restaurantID)
	if err := c.doJSON(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return context.DeadlineExceeded
		}
		c.logger.Printf("%s %s: %v", method, path, err)
		return fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnectivity, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var backendErr struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(raw, &backendErr); err == nil && backendErr.Error != "" {
			return &BackendError{Message: backendErr.Error}
		}
		return &BackendError{Message: fmt.Sprintf("backend returned status %d", resp.StatusCode)}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
