package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"restofront/internal/domain"
	"restofront/internal/gateway"
	"restofront/internal/push"
	"restofront/internal/repository/state"

	"github.com/gin-gonic/gin"
)

type stubBackend struct {
	orderID        int64
	createOrderErr error
	lastOrderInput gateway.OrderInput
	intent         *gateway.PaymentIntent
	confirmInvoice *domain.Invoice
	restaurants    []domain.Restaurant
	dishes         []domain.Dish
}

func (s *stubBackend) CreateOrder(_ context.Context, in gateway.OrderInput) (int64, error) {
	s.lastOrderInput = in
	if in.User == nil || strings.TrimSpace(in.Token) == "" {
		return 0, domain.ErrNotAuthenticated
	}
	if len(in.Lines) == 0 {
		return 0, domain.ErrEmptyCart
	}
	if in.Restaurant == nil || in.Restaurant.ID == 0 {
		return 0, domain.ErrNoRestaurant
	}
	if s.createOrderErr != nil {
		return 0, s.createOrderErr
	}
	return s.orderID, nil
}

func (s *stubBackend) CreatePaymentIntent(_ context.Context, _ string, _ int64) (*gateway.PaymentIntent, error) {
	return s.intent, nil
}

func (s *stubBackend) ConfirmPayment(_ context.Context, _ string, _ int64, _ string) (*domain.Invoice, error) {
	return s.confirmInvoice, nil
}

func (s *stubBackend) CreateDeliveryInvoice(_ context.Context, _ string, _ int64) (*domain.Invoice, error) {
	return &domain.Invoice{ID: 901}, nil
}

func (s *stubBackend) CreateMobileMoneyInvoice(_ context.Context, _ string, _ int64, _, _ string) (*domain.Invoice, error) {
	return &domain.Invoice{ID: 902}, nil
}

func (s *stubBackend) UpdateBankInfo(_ context.Context, _ string, _ int64, _ domain.BankInfo) (*domain.Invoice, error) {
	return &domain.Invoice{ID: 901}, nil
}

func (s *stubBackend) SuggestAddress(_ context.Context, _, _ string) error {
	return nil
}

func (s *stubBackend) ListRestaurants(_ context.Context) ([]domain.Restaurant, error) {
	return s.restaurants, nil
}

func (s *stubBackend) ListDishes(_ context.Context, _ int64) ([]domain.Dish, error) {
	return s.dishes, nil
}

func (s *stubBackend) GetInvoice(_ context.Context, _ string, _ int64) (*domain.Invoice, error) {
	return s.confirmInvoice, nil
}

func testRouter(t *testing.T, backend Backend, channel push.Channel) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(log.New(io.Discard, "", 0), nil, Deps{
		StateRepo: state.NewMemory(),
		Backend:   backend,
		Push:      channel,
	})
	if err != nil {
		t.Fatalf("buildRouter: %v", err)
	}
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, owner string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if owner != "" {
		req.Header.Set(ownerHeader, owner)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	router := testRouter(t, &stubBackend{}, nil)
	rec := doJSON(t, router, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestOwnerHeaderRequired(t *testing.T) {
	router := testRouter(t, &stubBackend{}, nil)
	rec := doJSON(t, router, http.MethodGet, "/cart", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without owner header, got %d", rec.Code)
	}
}

func TestCartAddAndMismatch(t *testing.T) {
	router := testRouter(t, &stubBackend{}, nil)

	rec := doJSON(t, router, http.MethodPost, "/cart/items", "c1",
		`{"id": 1, "nom": "Poulet", "prix": "4500", "restaurant_id": 5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Cross-restaurant add without confirmation is refused.
	rec = doJSON(t, router, http.MethodPost, "/cart/items", "c1",
		`{"id": 9, "nom": "Pizza", "prix": "6000", "restaurant_id": 7}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["requiresConfirmation"] != true {
		t.Fatalf("expected requiresConfirmation flag, got %+v", resp)
	}

	// Confirming replaces the cart.
	rec = doJSON(t, router, http.MethodPost, "/cart/items", "c1",
		`{"id": 9, "nom": "Pizza", "prix": "6000", "restaurant_id": 7, "replace": true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/cart", "c1", "")
	var cartResp struct {
		Lines        []domain.CartLine `json:"lines"`
		RestaurantID int64             `json:"restaurantId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &cartResp); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	if len(cartResp.Lines) != 1 || cartResp.RestaurantID != 7 {
		t.Fatalf("unexpected cart %+v", cartResp)
	}
}

func TestCheckoutRequiresLogin(t *testing.T) {
	router := testRouter(t, &stubBackend{}, nil)

	rec := doJSON(t, router, http.MethodPost, "/cart/items", "c1",
		`{"id": 1, "nom": "Poulet", "prix": "4500", "restaurant_id": 5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/checkout", "c1", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["redirect"] != "login" {
		t.Fatalf("expected login redirect, got %+v", resp)
	}
}

func TestCheckoutHappyPathOverHTTP(t *testing.T) {
	backend := &stubBackend{
		orderID:        42,
		intent:         &gateway.PaymentIntent{ID: "pi_1"},
		confirmInvoice: &domain.Invoice{ID: 900, OrderID: 42, Method: domain.PaymentCard},
	}
	router := testRouter(t, backend, nil)

	steps := []struct {
		method string
		path   string
		body   string
		code   int
	}{
		{http.MethodPost, "/session/login", `{"user": {"id": 12, "role": "client"}, "token": "tok-123"}`, http.StatusOK},
		{http.MethodPost, "/session/restaurant", `{"id": 5, "nom": "Chez Mado"}`, http.StatusOK},
		{http.MethodPost, "/cart/items", `{"id": 1, "nom": "Poulet", "prix": "4500", "restaurant_id": 5}`, http.StatusOK},
		{http.MethodPost, "/cart/items", `{"id": 2, "nom": "Riz", "prix": "2000", "restaurant_id": 5}`, http.StatusOK},
		{http.MethodPost, "/checkout", "", http.StatusCreated},
		{http.MethodPost, "/checkout/info", `{"address": "12 rue des Manguiers", "phone": "061234567"}`, http.StatusOK},
		{http.MethodPost, "/checkout/method", `{"method": "card"}`, http.StatusOK},
		{http.MethodPost, "/checkout/card/confirm", "", http.StatusOK},
		{http.MethodPost, "/checkout/return", "", http.StatusNoContent},
	}
	for _, step := range steps {
		rec := doJSON(t, router, step.method, step.path, "c1", step.body)
		if rec.Code != step.code {
			t.Fatalf("%s %s: expected %d, got %d: %s", step.method, step.path, step.code, rec.Code, rec.Body.String())
		}
	}

	rec := doJSON(t, router, http.MethodGet, "/cart", "c1", "")
	var cartResp struct {
		Lines []domain.CartLine `json:"lines"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &cartResp); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	if len(cartResp.Lines) != 0 {
		t.Fatalf("expected cart cleared after checkout, got %+v", cartResp.Lines)
	}
}

func TestConfirmedReplaceCarriesRestaurantIntoOrder(t *testing.T) {
	backend := &stubBackend{
		orderID:        43,
		intent:         &gateway.PaymentIntent{ID: "pi_2"},
		confirmInvoice: &domain.Invoice{ID: 910, OrderID: 43, Method: domain.PaymentCard},
	}
	router := testRouter(t, backend, nil)

	steps := []struct {
		method string
		path   string
		body   string
		code   int
	}{
		{http.MethodPost, "/session/login", `{"user": {"id": 12, "role": "client"}, "token": "tok-123"}`, http.StatusOK},
		{http.MethodPost, "/session/restaurant", `{"id": 5, "nom": "Chez Mado"}`, http.StatusOK},
		{http.MethodPost, "/cart/items", `{"id": 1, "nom": "Poulet", "prix": "4500", "restaurant_id": 5}`, http.StatusOK},
		{http.MethodPost, "/cart/items", `{"id": 9, "nom": "Pizza", "prix": "6000", "restaurant_id": 7, "replace": true}`, http.StatusOK},
		{http.MethodPost, "/checkout", "", http.StatusCreated},
		{http.MethodPost, "/checkout/info", `{"address": "12 rue des Manguiers", "phone": "061234567"}`, http.StatusOK},
		{http.MethodPost, "/checkout/method", `{"method": "card"}`, http.StatusOK},
	}
	for _, step := range steps {
		rec := doJSON(t, router, step.method, step.path, "c1", step.body)
		if rec.Code != step.code {
			t.Fatalf("%s %s: expected %d, got %d: %s", step.method, step.path, step.code, rec.Code, rec.Body.String())
		}
	}

	// The confirmed replace switched the cart to restaurant 7; the order
	// must carry the same restaurant as its lines.
	in := backend.lastOrderInput
	if in.Restaurant == nil || in.Restaurant.ID != 7 {
		t.Fatalf("expected order for restaurant 7, got %+v", in.Restaurant)
	}
	if len(in.Lines) != 1 || in.Lines[0].RestaurantID != 7 {
		t.Fatalf("unexpected order lines %+v", in.Lines)
	}

	rec := doJSON(t, router, http.MethodGet, "/session", "c1", "")
	var resp struct {
		Restaurant *domain.Restaurant `json:"restaurant"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if resp.Restaurant == nil || resp.Restaurant.ID != 7 {
		t.Fatalf("expected active restaurant 7 after replace, got %+v", resp.Restaurant)
	}
}

func TestPushEventFlagsClientsStale(t *testing.T) {
	fake := push.NewFake()
	router := testRouter(t, &stubBackend{}, fake)

	// Materialize the client first.
	doJSON(t, router, http.MethodGet, "/cart", "c1", "")

	fake.Emit(push.Event{Type: push.EventStatusChanged, CommandeID: 42})

	rec := doJSON(t, router, http.MethodGet, "/cart", "c1", "")
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["stale"] != true {
		t.Fatalf("expected stale flag set, got %+v", resp)
	}

	// The flag is consumed by the read.
	rec = doJSON(t, router, http.MethodGet, "/cart", "c1", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["stale"] != false {
		t.Fatalf("expected stale flag cleared, got %+v", resp)
	}
}
