package checkout

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"restofront/internal/domain"
	"restofront/internal/gateway"
	cartsvc "restofront/internal/service/cart"
	sessionsvc "restofront/internal/service/session"

	"github.com/google/uuid"
)

// Gateway is the slice of the backend client the checkout flow drives.
type Gateway interface {
	CreateOrder(ctx context.Context, in gateway.OrderInput) (int64, error)
	CreatePaymentIntent(ctx context.Context, token string, orderID int64) (*gateway.PaymentIntent, error)
	ConfirmPayment(ctx context.Context, token string, orderID int64, intentID string) (*domain.Invoice, error)
	CreateDeliveryInvoice(ctx context.Context, token string, orderID int64) (*domain.Invoice, error)
	CreateMobileMoneyInvoice(ctx context.Context, token string, orderID int64, operator, phone string) (*domain.Invoice, error)
	UpdateBankInfo(ctx context.Context, token string, invoiceID int64, info domain.BankInfo) (*domain.Invoice, error)
	SuggestAddress(ctx context.Context, token, address string) error
}

// Session drives one checkout from delivery info to invoice. A transition
// that depends on a network call leaves the step unchanged on failure, and
// an in-flight flag rejects duplicate submissions while a call is pending.
type Session struct {
	id string

	mu       sync.Mutex
	step     domain.CheckoutStep
	inFlight bool

	address string
	phone   string
	notes   string
	method  domain.PaymentMethod
	orderID int64
	invoice *domain.Invoice

	cart   *cartsvc.Store
	sess   *sessionsvc.Store
	gw     Gateway
	logger *log.Logger
}

// View is the renderable projection of a checkout session.
type View struct {
	ID      string               `json:"id"`
	Step    domain.CheckoutStep  `json:"step"`
	Method  domain.PaymentMethod `json:"method,omitempty"`
	Address string               `json:"address,omitempty"`
	Phone   string               `json:"phone,omitempty"`
	Notes   string               `json:"notes,omitempty"`
	OrderID int64                `json:"orderId,omitempty"`
	Invoice *domain.Invoice      `json:"invoice,omitempty"`
}

// Begin opens a checkout for a confirmed, non-empty cart. The caller must
// be logged in; unauthenticated users are redirected to login instead.
func Begin(cart *cartsvc.Store, sess *sessionsvc.Store, gw Gateway, logger *log.Logger) (*Session, error) {
	if sess.User() == nil || sess.Token() == "" {
		return nil, domain.ErrNotAuthenticated
	}
	if cart.Empty() {
		return nil, domain.ErrEmptyCart
	}
	return &Session{
		id:     uuid.NewString(),
		step:   domain.StepCollectingInfo,
		cart:   cart,
		sess:   sess,
		gw:     gw,
		logger: logger,
	}, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		ID:      s.id,
		Step:    s.step,
		Method:  s.method,
		Address: s.address,
		Phone:   s.phone,
		Notes:   s.notes,
		OrderID: s.orderID,
		Invoice: s.invoice,
	}
}

func (s *Session) Step() domain.CheckoutStep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

func (s *Session) OrderID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderID
}

func (s *Session) Invoice() *domain.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invoice
}

// SubmitInfo records delivery address, contact phone and optional notes,
// then advances to payment method selection. Unseen addresses are
// registered as reusable suggestions, best-effort.
func (s *Session) SubmitInfo(ctx context.Context, address, phone, notes string) error {
	address = strings.TrimSpace(address)
	phone = strings.TrimSpace(phone)
	if address == "" {
		return errors.New("delivery address required")
	}
	if phone == "" {
		return errors.New("contact phone required")
	}

	s.mu.Lock()
	if s.step != domain.StepCollectingInfo {
		s.mu.Unlock()
		return domain.ErrInvalidTransition
	}
	s.address = address
	s.phone = phone
	s.notes = strings.TrimSpace(notes)
	s.step = domain.StepChoosingPayment
	s.mu.Unlock()

	if err := s.gw.SuggestAddress(ctx, s.sess.Token(), address); err != nil {
		s.logger.Printf("register address suggestion: %v", err)
	}
	return nil
}

// ChoosePayment dispatches on the selected method. Card and cash-on-delivery
// create the order before advancing; mobile money defers order creation to
// its own sub-step. On any network failure the step does not move.
func (s *Session) ChoosePayment(ctx context.Context, method domain.PaymentMethod) error {
	s.mu.Lock()
	if s.step != domain.StepChoosingPayment {
		s.mu.Unlock()
		return domain.ErrInvalidTransition
	}
	if method == domain.PaymentMobileMoney {
		s.method = method
		s.step = domain.StepMobileMoneyForm
		s.mu.Unlock()
		return nil
	}
	if method != domain.PaymentCard && method != domain.PaymentCashOnDelivery {
		s.mu.Unlock()
		return errors.New("unknown payment method")
	}
	if s.inFlight {
		s.mu.Unlock()
		return domain.ErrSubmissionInFlight
	}
	s.inFlight = true
	s.mu.Unlock()
	defer s.clearInFlight()

	orderID, err := s.ensureOrder(ctx)
	if err != nil {
		return err
	}

	if method == domain.PaymentCard {
		s.mu.Lock()
		s.method = method
		s.step = domain.StepCardPaymentForm
		s.mu.Unlock()
		return nil
	}

	invoice, err := s.gw.CreateDeliveryInvoice(ctx, s.sess.Token(), orderID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.method = method
	s.invoice = invoice
	s.step = domain.StepDeliveryBankInfoForm
	s.mu.Unlock()
	return nil
}

// SubmitMobileMoney validates the operator and number, creates the order
// and the mobile-money invoice, then shows the invoice.
func (s *Session) SubmitMobileMoney(ctx context.Context, operator domain.MobileMoneyOperator, phone string) error {
	if err := ValidateMobileMoney(operator, phone); err != nil {
		return err
	}

	s.mu.Lock()
	if s.step != domain.StepMobileMoneyForm {
		s.mu.Unlock()
		return domain.ErrInvalidTransition
	}
	if s.inFlight {
		s.mu.Unlock()
		return domain.ErrSubmissionInFlight
	}
	s.inFlight = true
	s.mu.Unlock()
	defer s.clearInFlight()

	orderID, err := s.ensureOrder(ctx)
	if err != nil {
		return err
	}
	invoice, err := s.gw.CreateMobileMoneyInvoice(ctx, s.sess.Token(), orderID, string(operator), phone)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.invoice = invoice
	s.step = domain.StepInvoiceDisplay
	s.mu.Unlock()
	return nil
}

// CancelMobileMoney returns to payment method selection.
func (s *Session) CancelMobileMoney() error {
	return s.stepBack(domain.StepMobileMoneyForm)
}

// ConfirmCardPayment drives the external processor: open the payment
// intent, then confirm it. Success carries the invoice to display.
func (s *Session) ConfirmCardPayment(ctx context.Context) error {
	s.mu.Lock()
	if s.step != domain.StepCardPaymentForm {
		s.mu.Unlock()
		return domain.ErrInvalidTransition
	}
	if s.inFlight {
		s.mu.Unlock()
		return domain.ErrSubmissionInFlight
	}
	s.inFlight = true
	orderID := s.orderID
	s.mu.Unlock()
	defer s.clearInFlight()

	intent, err := s.gw.CreatePaymentIntent(ctx, s.sess.Token(), orderID)
	if err != nil {
		return err
	}
	invoice, err := s.gw.ConfirmPayment(ctx, s.sess.Token(), orderID, intent.ID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.invoice = invoice
	s.step = domain.StepInvoiceDisplay
	s.mu.Unlock()
	return nil
}

// CancelCardPayment returns to payment method selection.
func (s *Session) CancelCardPayment() error {
	return s.stepBack(domain.StepCardPaymentForm)
}

// SubmitBankInfo applies the all-or-none banking capture. A fully empty
// form behaves like Skip; a filled one updates the delivery invoice first.
func (s *Session) SubmitBankInfo(ctx context.Context, info domain.BankInfo) error {
	if err := ValidateBankInfo(info); err != nil {
		return err
	}

	s.mu.Lock()
	if s.step != domain.StepDeliveryBankInfoForm {
		s.mu.Unlock()
		return domain.ErrInvalidTransition
	}
	if info.Empty() {
		s.step = domain.StepInvoiceDisplay
		s.mu.Unlock()
		return nil
	}
	if s.inFlight {
		s.mu.Unlock()
		return domain.ErrSubmissionInFlight
	}
	s.inFlight = true
	invoiceID := s.invoice.ID
	s.mu.Unlock()
	defer s.clearInFlight()

	invoice, err := s.gw.UpdateBankInfo(ctx, s.sess.Token(), invoiceID, info)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.invoice = invoice
	s.step = domain.StepInvoiceDisplay
	s.mu.Unlock()
	return nil
}

// SkipBankInfo is always permitted from the banking form.
func (s *Session) SkipBankInfo() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != domain.StepDeliveryBankInfoForm {
		return domain.ErrInvalidTransition
	}
	s.step = domain.StepInvoiceDisplay
	return nil
}

// ReturnToMenu exits the invoice display and clears the cart.
func (s *Session) ReturnToMenu(ctx context.Context) error {
	s.mu.Lock()
	if s.step != domain.StepInvoiceDisplay {
		s.mu.Unlock()
		return domain.ErrInvalidTransition
	}
	s.mu.Unlock()
	s.cart.Clear(ctx)
	return nil
}

// ensureOrder creates the backend order once; retries after a later
// failure reuse the already-created order instead of duplicating it.
func (s *Session) ensureOrder(ctx context.Context) (int64, error) {
	s.mu.Lock()
	if s.orderID != 0 {
		id := s.orderID
		s.mu.Unlock()
		return id, nil
	}
	in := gateway.OrderInput{
		Token:      s.sess.Token(),
		User:       s.sess.User(),
		Restaurant: s.sess.Restaurant(),
		Lines:      s.cart.Lines(),
		Address:    s.address,
		Phone:      s.phone,
		Notes:      s.notes,
	}
	s.mu.Unlock()

	id, err := s.gw.CreateOrder(ctx, in)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	s.orderID = id
	s.mu.Unlock()
	return id, nil
}

func (s *Session) stepBack(from domain.CheckoutStep) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != from {
		return domain.ErrInvalidTransition
	}
	if s.inFlight {
		return domain.ErrSubmissionInFlight
	}
	s.step = domain.StepChoosingPayment
	return nil
}

func (s *Session) clearInFlight() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}
