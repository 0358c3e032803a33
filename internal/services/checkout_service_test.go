package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"deeskinstore/internal/models"
	"deeskinstore/internal/repositories"
	"deeskinstore/pkg/paystack"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// fakeGateway drives the checkout tests without HTTP. Initialize echoes the
// request reference; Verify reports the configured status.
type fakeGateway struct {
	initErr      error
	verifyErr    error
	verifyStatus string
	initialized  []paystack.InitializeRequest
}

func (g *fakeGateway) Initialize(_ context.Context, req paystack.InitializeRequest) (*paystack.Authorization, error) {
	if g.initErr != nil {
		return nil, g.initErr
	}
	g.initialized = append(g.initialized, req)
	return &paystack.Authorization{
		AuthorizationURL: "https://checkout.example.test/" + req.Reference,
		AccessCode:       "access-" + req.Reference,
		Reference:        req.Reference,
	}, nil
}

func (g *fakeGateway) Verify(_ context.Context, reference string) (*paystack.Transaction, error) {
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	status := g.verifyStatus
	if status == "" {
		status = "success"
	}
	return &paystack.Transaction{Reference: reference, Status: status}, nil
}

type checkoutFixture struct {
	service   *CheckoutService
	carts     *CartService
	customers *repositories.MockCustomerRepository
	orders    repositories.OrderRepository
	gateway   *fakeGateway
}

func newCheckoutFixture(t *testing.T, orders repositories.OrderRepository) *checkoutFixture {
	t.Helper()

	carts := newTestCartService(t, serumProduct(), cleanserProduct())
	customers := repositories.NewMockCustomerRepository()
	gateway := &fakeGateway{}

	service := NewCheckoutService(
		carts,
		customers,
		orders,
		gateway,
		nil,
		nil,
		DefaultCheckoutConfig(),
		zerolog.Nop(),
	)
	return &checkoutFixture{
		service:   service,
		carts:     carts,
		customers: customers,
		orders:    orders,
		gateway:   gateway,
	}
}

func validShipping() models.ShippingDetails {
	return models.ShippingDetails{
		FullName:   "Ada Obi",
		Email:      "ada@example.com",
		Phone:      "08012345678",
		Street:     "12 Marina Road",
		City:       "Ikeja",
		State:      "Lagos",
		PostalCode: "100001",
	}
}

// driveToPendingPayment walks a session through cart review and shipping,
// then initiates a payment and returns the session with the gateway
// authorization.
func (f *checkoutFixture) driveToPendingPayment(t *testing.T, ctx context.Context, sessionID string) (*models.CheckoutSession, *paystack.Authorization) {
	t.Helper()

	session := f.service.NewSession(sessionID)
	assert.NoError(t, f.service.Begin(ctx, session))
	assert.NoError(t, f.service.SubmitShipping(session, validShipping()))

	auth, err := f.service.InitiatePayment(ctx, session)
	assert.NoError(t, err)
	return session, auth
}

func TestBeginRejectsEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t, repositories.NewMockOrderRepository())
	ctx := context.Background()

	session := f.service.NewSession("sess-1")
	err := f.service.Begin(ctx, session)

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, models.StepCart, session.Step, "session stays at cart review")
}

func TestSubmitShippingRejectsMissingField(t *testing.T) {
	orders := repositories.NewMockOrderRepository()
	f := newCheckoutFixture(t, orders)
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, "sess-1", "prod-serum", "150ml", 1)
	assert.NoError(t, err)

	session := f.service.NewSession("sess-1")
	assert.NoError(t, f.service.Begin(ctx, session))

	details := validShipping()
	details.State = ""
	err = f.service.SubmitShipping(session, details)

	var fieldErrs ValidationErrors
	assert.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 1, "exactly one message for the one invalid field")
	assert.Contains(t, fieldErrs, "state")
	assert.Equal(t, models.StepShipping, session.Step, "no partial advance")
	assert.False(t, session.ShippingSubmitted)
}

func TestSubmitShippingRejectsUnknownState(t *testing.T) {
	f := newCheckoutFixture(t, repositories.NewMockOrderRepository())
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, "sess-1", "prod-serum", "150ml", 1)
	assert.NoError(t, err)

	session := f.service.NewSession("sess-1")
	assert.NoError(t, f.service.Begin(ctx, session))

	details := validShipping()
	details.State = "Atlantis"
	err = f.service.SubmitShipping(session, details)

	var fieldErrs ValidationErrors
	assert.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs["state"], "supported shipping regions")
	assert.Equal(t, models.StepShipping, session.Step)
}

func TestBackNavigationPreservesData(t *testing.T) {
	f := newCheckoutFixture(t, repositories.NewMockOrderRepository())
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, "sess-1", "prod-serum", "150ml", 1)
	assert.NoError(t, err)

	session := f.service.NewSession("sess-1")
	assert.NoError(t, f.service.Begin(ctx, session))
	assert.NoError(t, f.service.SubmitShipping(session, validShipping()))
	assert.Equal(t, models.StepPayment, session.Step)

	assert.NoError(t, f.service.Back(session))
	assert.Equal(t, models.StepShipping, session.Step)
	assert.Equal(t, validShipping(), session.Shipping, "shipping details survive backward navigation")
	assert.True(t, session.ShippingSubmitted)

	assert.NoError(t, f.service.Back(session))
	assert.Equal(t, models.StepCart, session.Step)

	err = f.service.Back(session)
	assert.ErrorIs(t, err, ErrInvalidTransition, "no step before cart review")

	cart, err := f.carts.Get(ctx, "sess-1")
	assert.NoError(t, err)
	assert.Equal(t, 1, cart.ItemCount, "cart is untouched by navigation")
}

func TestInitiatePaymentRequiresSubmittedShipping(t *testing.T) {
	f := newCheckoutFixture(t, repositories.NewMockOrderRepository())
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, "sess-1", "prod-serum", "150ml", 1)
	assert.NoError(t, err)

	session := f.service.NewSession("sess-1")
	assert.NoError(t, f.service.Begin(ctx, session))

	_, err = f.service.InitiatePayment(ctx, session)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestInitiatePaymentChargesGrandTotalInKobo(t *testing.T) {
	f := newCheckoutFixture(t, repositories.NewMockOrderRepository())
	ctx := context.Background()

	// 2 x 4200 = 8400 subtotal, below free shipping: +1500 shipping,
	// +630 tax = 10530 grand total.
	_, err := f.carts.AddItem(ctx, "sess-1", "prod-serum", "150ml", 2)
	assert.NoError(t, err)

	session, auth := f.driveToPendingPayment(t, ctx, "sess-1")

	assert.Len(t, f.gateway.initialized, 1)
	req := f.gateway.initialized[0]
	assert.Equal(t, int64(1053000), req.Amount, "gateway amount is integer kobo")
	assert.Equal(t, "NGN", req.Currency)
	assert.Equal(t, "ada@example.com", req.Email)
	assert.True(t, strings.HasPrefix(req.Reference, "DSS-"))

	assert.Equal(t, req.Reference, auth.Reference)
	assert.Equal(t, req.Reference, session.PendingReference)
	assert.Equal(t, 10530.0, session.PendingAmount)
	assert.False(t, session.PaymentInitiatedAt.IsZero())
}

func TestInitiatePaymentRetryGetsFreshReference(t *testing.T) {
	f := newCheckoutFixture(t, repositories.NewMockOrderRepository())
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, "sess-1", "prod-serum", "150ml", 2)
	assert.NoError(t, err)

	session, first := f.driveToPendingPayment(t, ctx, "sess-1")
	assert.NoError(t, f.service.CancelPayment(ctx, session))

	second, err := f.service.InitiatePayment(ctx, session)
	assert.NoError(t, err)
	assert.NotEqual(t, first.Reference, second.Reference, "each attempt gets its own reference")
}

func TestConfirmPaymentPlacesOrder(t *testing.T) {
	orders := repositories.NewMockOrderRepository()
	f := newCheckoutFixture(t, orders)
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, "sess-1", "prod-serum", "150ml", 2)
	assert.NoError(t, err)

	session, auth := f.driveToPendingPayment(t, ctx, "sess-1")

	order, err := f.service.ConfirmPayment(ctx, session, auth.Reference)
	assert.NoError(t, err)

	assert.Equal(t, 10530.0, order.TotalAmount, "order total includes shipping and tax")
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, auth.Reference, order.PaymentReference)
	assert.Equal(t, validShipping(), order.ShippingAddress)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, "prod-serum", order.Items[0].ProductID)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, 4200.0, order.Items[0].Price, "unit price snapshotted from the cart")

	stored, err := orders.GetAll()
	assert.NoError(t, err)
	assert.Len(t, stored, 1, "exactly one order persisted")

	customer, err := f.customers.GetByEmail("ada@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "Ada Obi", customer.FullName)
	assert.Equal(t, &customer.ID, order.CustomerID)

	cart, err := f.carts.Get(ctx, "sess-1")
	assert.NoError(t, err)
	assert.True(t, cart.IsEmpty(), "cart is cleared after the order is placed")

	assert.Empty(t, session.PendingReference, "pending attempt is consumed")
}

func TestConfirmPaymentReusesExistingCustomer(t *testing.T) {
	f := newCheckoutFixture(t, repositories.NewMockOrderRepository())
	ctx := context.Background()

	existing := &models.Customer{Email: "ada@example.com", FullName: "Ada Obi"}
	assert.NoError(t, f.customers.Create(existing))

	_, err := f.carts.AddItem(ctx, "sess-1", "prod-serum", "150ml", 2)
	assert.NoError(t, err)

	session, auth := f.driveToPendingPayment(t, ctx, "sess-1")
	order, err := f.service.ConfirmPayment(ctx, session, auth.Reference)
	assert.NoError(t, err)

	assert.Equal(t, &existing.ID, order.CustomerID, "repeat purchases attach to the same customer")
}

func TestConfirmPaymentRejectsMismatchedReference(t *testing.T) {
	f := newCheckoutFixture(t, repositories.NewMockOrderRepository())
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, "sess-1", "prod-serum", "150ml", 2)
	assert.NoError(t, err)

	session, _ := f.driveToPendingPayment(t, ctx, "sess-1")

	_, err = f.service.ConfirmPayment(ctx, session, "DSS-someone-elses-reference")
	assert.ErrorIs(t, err, ErrReferenceMismatch)

	cart, err := f.carts.Get(ctx, "sess-1")
	assert.NoError(t, err)
	assert.False(t, cart.IsEmpty())
}

func TestConfirmPaymentWithoutPendingAttempt(t *testing.T) {
	f := newCheckoutFixture(t, repositories.NewMockOrderRepository())
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, "sess-1", "prod-serum", "150ml", 2)
	assert.NoError(t, err)

	session := f.service.NewSession("sess-1")
	assert.NoError(t, f.service.Begin(ctx, session))
	assert.NoError(t, f.service.SubmitShipping(session, validShipping()))

	_, err = f.service.ConfirmPayment(ctx, session, "DSS-anything")
	assert.ErrorIs(t, err, ErrNoPendingPayment)
}

func TestConfirmPaymentExpiresStaleAttempt(t *testing.T) {
	f := newCheckoutFixture(t, repositories.NewMockOrderRepository())
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, "sess-1", "prod-serum", "150ml", 2)
	assert.NoError(t, err)

	session, auth := f.driveToPendingPayment(t, ctx, "sess-1")
	session.PaymentInitiatedAt = time.Now().Add(-10 * time.Minute)

	_, err = f.service.ConfirmPayment(ctx, session, auth.Reference)
	assert.ErrorIs(t, err, ErrPaymentExpired)
	assert.Empty(t, session.PendingReference, "expired attempt is discarded")

	cart, err := f.carts.Get(ctx, "sess-1")
	assert.NoError(t, err)
	assert.False(t, cart.IsEmpty(), "cart survives an abandoned payment")
}

func TestConfirmPaymentRejectsFailedTransaction(t *testing.T) {
	orders := repositories.NewMockOrderRepository()
	f := newCheckoutFixture(t, orders)
	f.gateway.verifyStatus = "failed"
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, "sess-1", "prod-serum", "150ml", 2)
	assert.NoError(t, err)

	session, auth := f.driveToPendingPayment(t, ctx, "sess-1")

	_, err = f.service.ConfirmPayment(ctx, session, auth.Reference)
	assert.ErrorIs(t, err, ErrPaymentNotSuccessful)

	stored, err := orders.GetAll()
	assert.NoError(t, err)
	assert.Empty(t, stored, "no order is written for an unverified payment")

	cart, err := f.carts.Get(ctx, "sess-1")
	assert.NoError(t, err)
	assert.False(t, cart.IsEmpty())
	assert.Equal(t, models.StepPayment, session.Step, "session stays in payment for a retry")
}

func TestCancelPaymentKeepsCartForRetry(t *testing.T) {
	f := newCheckoutFixture(t, repositories.NewMockOrderRepository())
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, "sess-1", "prod-serum", "150ml", 2)
	assert.NoError(t, err)

	session, _ := f.driveToPendingPayment(t, ctx, "sess-1")
	assert.NoError(t, f.service.CancelPayment(ctx, session))

	assert.Equal(t, models.StepPayment, session.Step)
	assert.Empty(t, session.PendingReference)
	assert.Zero(t, session.PendingAmount)

	cart, err := f.carts.Get(ctx, "sess-1")
	assert.NoError(t, err)
	assert.Equal(t, 2, cart.ItemCount, "cart is exactly as it was")

	assert.ErrorIs(t, f.service.CancelPayment(ctx, session), ErrNoPendingPayment)
}

// failingItemsOrderRepo persists the order header but refuses the item rows,
// simulating a connection dropped between the two writes.
type failingItemsOrderRepo struct {
	*repositories.MockOrderRepository
}

func (r *failingItemsOrderRepo) CreateItems(string, []models.OrderItem) error {
	return errors.New("connection reset by peer")
}

func TestConfirmPaymentSurfacesPersistenceFailure(t *testing.T) {
	orders := &failingItemsOrderRepo{repositories.NewMockOrderRepository()}
	f := newCheckoutFixture(t, orders)
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, "sess-1", "prod-serum", "150ml", 2)
	assert.NoError(t, err)

	session, auth := f.driveToPendingPayment(t, ctx, "sess-1")

	_, err = f.service.ConfirmPayment(ctx, session, auth.Reference)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "items failed to persist")

	cart, err := f.carts.Get(ctx, "sess-1")
	assert.NoError(t, err)
	assert.False(t, cart.IsEmpty(), "cart is not cleared when the order did not fully persist")
}

func TestVerifyFailureSurfacesGatewayError(t *testing.T) {
	f := newCheckoutFixture(t, repositories.NewMockOrderRepository())
	f.gateway.verifyErr = fmt.Errorf("paystack error (HTTP 503): service unavailable")
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, "sess-1", "prod-serum", "150ml", 2)
	assert.NoError(t, err)

	session, auth := f.driveToPendingPayment(t, ctx, "sess-1")

	_, err = f.service.ConfirmPayment(ctx, session, auth.Reference)
	assert.Error(t, err)
	assert.NotEmpty(t, session.PendingReference, "attempt stays pending for a retry")
}
