package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"deeskinstore/internal/metrics"
	"deeskinstore/internal/models"
	"deeskinstore/internal/repositories"
	"deeskinstore/pkg/paystack"
	"deeskinstore/pkg/rabbitmq"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// paymentReferencePrefix marks every payment reference generated by this
// store, e.g. DSS-2c1b7f0a-....
const paymentReferencePrefix = "DSS-"

var (
	// ErrEmptyCart is returned when checkout is started with no items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidTransition is returned when an operation does not apply to
	// the session's current step.
	ErrInvalidTransition = errors.New("operation not valid for current checkout step")
	// ErrNoPendingPayment is returned when a payment outcome arrives with
	// no payment in flight.
	ErrNoPendingPayment = errors.New("no pending payment for this session")
	// ErrReferenceMismatch is returned when a payment outcome carries a
	// reference that was not issued for the session's pending attempt.
	ErrReferenceMismatch = errors.New("payment reference does not match pending attempt")
	// ErrPaymentNotSuccessful is returned when the gateway does not verify
	// the transaction as successful. The session stays in the payment step
	// and the cart is untouched.
	ErrPaymentNotSuccessful = errors.New("payment was not successful")
	// ErrPaymentExpired is returned when a pending payment outlived the
	// configured timeout and is treated as abandoned.
	ErrPaymentExpired = errors.New("payment attempt expired")
)

// ValidationErrors carries one message per invalid shipping field.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed for fields: %s", strings.Join(fields, ", "))
}

// PaymentGateway abstracts the hosted payment provider. Initialize opens a
// payment attempt; Verify resolves it. The two outcomes of an attempt are
// a verified success (order gets placed) and anything else (the session
// stays in the payment step for a retry with a fresh reference).
type PaymentGateway interface {
	Initialize(ctx context.Context, req paystack.InitializeRequest) (*paystack.Authorization, error)
	Verify(ctx context.Context, reference string) (*paystack.Transaction, error)
}

// EventPublisher publishes domain events; satisfied by *rabbitmq.Client.
type EventPublisher interface {
	Publish(eventType string, payload interface{}) error
}

// CheckoutConfig holds checkout tuning knobs.
type CheckoutConfig struct {
	// PaymentTimeout is how long a pending payment may wait for an outcome
	// before it is treated as abandoned. Hosted widgets do not guarantee a
	// callback on every exit path (tab close, browser crash).
	PaymentTimeout time.Duration
	Currency       string
}

// DefaultCheckoutConfig returns a five-minute payment timeout and NGN.
func DefaultCheckoutConfig() CheckoutConfig {
	return CheckoutConfig{
		PaymentTimeout: 5 * time.Minute,
		Currency:       "NGN",
	}
}

// CheckoutService sequences a session through cart review, shipping
// collection and payment, then turns a verified payment into a persisted
// order. The CheckoutSession is explicit state handed in by the caller,
// never ambient, so the machine can be driven in isolation.
type CheckoutService struct {
	carts     *CartService
	customers repositories.CustomerRepository
	orders    repositories.OrderRepository
	gateway   PaymentGateway
	events    EventPublisher
	metrics   *metrics.StoreMetrics
	config    CheckoutConfig
	validate  *validator.Validate
	logger    zerolog.Logger
}

// NewCheckoutService creates a new CheckoutService. events may be nil when
// no broker is configured; order placement then skips event publishing.
func NewCheckoutService(
	carts *CartService,
	customers repositories.CustomerRepository,
	orders repositories.OrderRepository,
	gateway PaymentGateway,
	events EventPublisher,
	m *metrics.StoreMetrics,
	cfg CheckoutConfig,
	logger zerolog.Logger,
) *CheckoutService {
	return &CheckoutService{
		carts:     carts,
		customers: customers,
		orders:    orders,
		gateway:   gateway,
		events:    events,
		metrics:   m,
		config:    cfg,
		validate:  newShippingValidator(),
		logger:    logger,
	}
}

func newShippingValidator() *validator.Validate {
	v := validator.New()
	// Report errors under the wire field names rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("ngstate", func(fl validator.FieldLevel) bool {
		return models.IsNigerianState(fl.Field().String())
	})
	return v
}

// NewSession starts a checkout session at the cart review step.
func (s *CheckoutService) NewSession(sessionID string) *models.CheckoutSession {
	return &models.CheckoutSession{
		SessionID: sessionID,
		Step:      models.StepCart,
	}
}

// Begin moves the session from cart review to shipping collection. The only
// gate is a non-empty cart.
func (s *CheckoutService) Begin(ctx context.Context, session *models.CheckoutSession) error {
	if session.Step != models.StepCart {
		return fmt.Errorf("%w: begin from %s", ErrInvalidTransition, session.Step)
	}

	cart, err := s.carts.Get(ctx, session.SessionID)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}
	if cart.IsEmpty() {
		return ErrEmptyCart
	}

	session.Step = models.StepShipping
	return nil
}

// SubmitShipping validates the shipping details and, when every field
// passes, advances the session to the payment step. On any validation
// failure the session stays in shipping, a ValidationErrors with one
// message per invalid field is returned, and nothing is stored — no
// partial advance. Valid details are kept on the session so backward
// navigation does not lose them.
func (s *CheckoutService) SubmitShipping(session *models.CheckoutSession, details models.ShippingDetails) error {
	if session.Step != models.StepShipping {
		return fmt.Errorf("%w: submit shipping from %s", ErrInvalidTransition, session.Step)
	}

	if err := s.validate.Struct(details); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("failed to validate shipping details: %w", err)
		}
		messages := make(ValidationErrors, len(fieldErrs))
		for _, fe := range fieldErrs {
			messages[fe.Field()] = shippingFieldMessage(fe)
		}
		return messages
	}

	session.Shipping = details
	session.ShippingSubmitted = true
	session.Step = models.StepPayment
	return nil
}

func shippingFieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "ngstate":
		return "must be one of the supported shipping regions"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}

// Back navigates one step backwards. Previously entered data stays on the
// session, so moving forward again does not re-collect it.
func (s *CheckoutService) Back(session *models.CheckoutSession) error {
	switch session.Step {
	case models.StepPayment:
		session.Step = models.StepShipping
	case models.StepShipping:
		session.Step = models.StepCart
	default:
		return fmt.Errorf("%w: back from %s", ErrInvalidTransition, session.Step)
	}
	return nil
}

// InitiatePayment opens a payment attempt with the gateway for the cart's
// current grand total. The amount is converted to integer kobo here, at the
// gateway boundary, and snapshotted on the session together with a freshly
// generated unique reference. Each retry gets its own reference.
func (s *CheckoutService) InitiatePayment(ctx context.Context, session *models.CheckoutSession) (*paystack.Authorization, error) {
	if session.Step != models.StepPayment || !session.ShippingSubmitted {
		return nil, fmt.Errorf("%w: initiate payment from %s", ErrInvalidTransition, session.Step)
	}

	cart, err := s.carts.Get(ctx, session.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	totals := s.carts.Totals(cart)
	reference := paymentReferencePrefix + uuid.New().String()

	auth, err := s.gateway.Initialize(ctx, paystack.InitializeRequest{
		Reference: reference,
		Email:     session.Shipping.Email,
		Amount:    totals.GrandTotalKobo(),
		Currency:  s.config.Currency,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize payment: %w", err)
	}

	session.PendingReference = reference
	session.PendingAmount = totals.GrandTotal
	session.PaymentInitiatedAt = time.Now()

	s.logger.Info().
		Str("session_id", session.SessionID).
		Str("reference", reference).
		Float64("amount", totals.GrandTotal).
		Msg("payment initiated")

	return auth, nil
}

// CancelPayment handles the gateway's close/cancel outcome: the pending
// attempt is discarded, the session stays in the payment step and the cart
// is left exactly as it was, so the customer can retry.
func (s *CheckoutService) CancelPayment(ctx context.Context, session *models.CheckoutSession) error {
	if session.Step != models.StepPayment {
		return fmt.Errorf("%w: cancel payment from %s", ErrInvalidTransition, session.Step)
	}
	if session.PendingReference == "" {
		return ErrNoPendingPayment
	}

	s.logger.Info().
		Str("session_id", session.SessionID).
		Str("reference", session.PendingReference).
		Msg("payment cancelled by customer")
	s.metrics.RecordPaymentFailure(ctx, "cancelled")

	session.PendingReference = ""
	session.PendingAmount = 0
	session.PaymentInitiatedAt = time.Time{}
	return nil
}

// ConfirmPayment handles the gateway's success outcome: it verifies the
// reference with the gateway and, only on a verified success, submits the
// order. The submission resolves or creates the customer, persists the
// order header and its items with prices snapshotted from the cart, clears
// the cart, and returns the order for the confirmation view.
//
// Any failure before the cart is cleared surfaces the underlying error and
// leaves the cart (and the pending attempt) intact — an order is never
// reported as placed unless every step completed.
func (s *CheckoutService) ConfirmPayment(ctx context.Context, session *models.CheckoutSession, reference string) (*models.Order, error) {
	if session.Step != models.StepPayment {
		return nil, fmt.Errorf("%w: confirm payment from %s", ErrInvalidTransition, session.Step)
	}
	if session.PendingReference == "" {
		return nil, ErrNoPendingPayment
	}
	if reference != session.PendingReference {
		return nil, fmt.Errorf("%w: got %s", ErrReferenceMismatch, reference)
	}
	if s.config.PaymentTimeout > 0 && time.Since(session.PaymentInitiatedAt) > s.config.PaymentTimeout {
		session.PendingReference = ""
		session.PendingAmount = 0
		s.metrics.RecordPaymentFailure(ctx, "expired")
		return nil, ErrPaymentExpired
	}

	tx, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to verify payment %s: %w", reference, err)
	}
	if !tx.Success() {
		s.metrics.RecordPaymentFailure(ctx, tx.Status)
		return nil, fmt.Errorf("%w: gateway status %q", ErrPaymentNotSuccessful, tx.Status)
	}

	order, err := s.submitOrder(ctx, session, reference)
	if err != nil {
		return nil, err
	}

	session.PendingReference = ""
	session.PendingAmount = 0
	session.PaymentInitiatedAt = time.Time{}
	return order, nil
}

// submitOrder runs the persistence sequence of a paid checkout. The three
// writes (customer, order header, items) are sequential and not wrapped in
// one transaction, matching how the store has always placed orders; a
// failure part-way is surfaced and the cart is not cleared.
func (s *CheckoutService) submitOrder(ctx context.Context, session *models.CheckoutSession, reference string) (*models.Order, error) {
	cart, err := s.carts.Get(ctx, session.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	// 1. Resolve the customer by email, creating one on first purchase.
	customer, err := s.customers.GetByEmail(session.Shipping.Email)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to resolve customer: %w", err)
		}
		customer = &models.Customer{
			Email:    session.Shipping.Email,
			FullName: session.Shipping.FullName,
			Phone:    session.Shipping.Phone,
		}
		if err := s.customers.Create(customer); err != nil {
			return nil, fmt.Errorf("failed to create customer: %w", err)
		}
	}

	// 2. Order header, pending status, totals and address snapshotted.
	order := &models.Order{
		ID:               uuid.New().String(),
		CustomerID:       &customer.ID,
		TotalAmount:      session.PendingAmount,
		Status:           models.StatusPending,
		PaymentReference: reference,
		ShippingAddress:  session.Shipping,
	}
	if err := s.orders.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// 3. One item per cart line, unit price snapshotted from the cart so
	// later catalog changes never touch historical orders.
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, models.OrderItem{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
			Price:     line.Product.Price,
		})
	}
	if err := s.orders.CreateItems(order.ID, items); err != nil {
		return nil, fmt.Errorf("order %s was created but its items failed to persist: %w", order.ID, err)
	}
	order.Items = items

	// 4. Clear the cart only now that the order fully exists.
	if err := s.carts.Clear(ctx, session.SessionID); err != nil {
		return nil, fmt.Errorf("order %s was placed but the cart could not be cleared: %w", order.ID, err)
	}

	s.metrics.RecordOrder(ctx, order.TotalAmount)
	s.publishOrderCreated(order, customer)

	s.logger.Info().
		Str("order_id", order.ID).
		Str("reference", reference).
		Float64("total", order.TotalAmount).
		Msg("order placed")

	return order, nil
}

func (s *CheckoutService) publishOrderCreated(order *models.Order, customer *models.Customer) {
	if s.events == nil {
		return
	}
	payload := map[string]interface{}{
		"order_id":          order.ID,
		"customer_id":       customer.ID,
		"customer_email":    customer.Email,
		"total_amount":      order.TotalAmount,
		"payment_reference": order.PaymentReference,
		"status":            order.Status,
	}
	if err := s.events.Publish(rabbitmq.EventOrderCreated, payload); err != nil {
		// Event delivery is best effort; the order is already placed.
		s.logger.Warn().Err(err).Str("order_id", order.ID).Msg("failed to publish order created event")
	}
}
