package models

import "time"

// CheckoutStep identifies where a session is in the checkout flow.
type CheckoutStep string

const (
	StepCart     CheckoutStep = "cart"
	StepShipping CheckoutStep = "shipping"
	StepPayment  CheckoutStep = "payment"
)

func (s CheckoutStep) String() string {
	return string(s)
}

// ShippingDetails carries the customer info and shipping address collected
// during checkout. All fields are declared and validated at the boundary;
// the same shape is snapshotted onto the order.
type ShippingDetails struct {
	FullName   string `json:"full_name" validate:"required,min=2,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,min=7,max=20"`
	Street     string `json:"street" validate:"required,max=200"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"required,ngstate"`
	PostalCode string `json:"postal_code" validate:"omitempty,max=20"`
}

// NigerianStates is the fixed list of regions the store ships to. The
// shipping form's state field must match one of these exactly.
var NigerianStates = []string{
	"Abia", "Adamawa", "Akwa Ibom", "Anambra", "Bauchi", "Bayelsa", "Benue",
	"Borno", "Cross River", "Delta", "Ebonyi", "Edo", "Ekiti", "Enugu",
	"FCT", "Gombe", "Imo", "Jigawa", "Kaduna", "Kano", "Katsina", "Kebbi",
	"Kogi", "Kwara", "Lagos", "Nasarawa", "Niger", "Ogun", "Ondo", "Osun",
	"Oyo", "Plateau", "Rivers", "Sokoto", "Taraba", "Yobe", "Zamfara",
}

// IsNigerianState reports whether state is in the shipping region list.
func IsNigerianState(state string) bool {
	for _, s := range NigerianStates {
		if s == state {
			return true
		}
	}
	return false
}

// CheckoutSession is the per-session state of one checkout attempt. It is
// created when the customer proceeds to checkout and discarded when the
// flow completes or is abandoned; the cart itself lives separately and
// survives abandonment.
type CheckoutSession struct {
	SessionID          string          `json:"session_id"`
	Step               CheckoutStep    `json:"step"`
	Shipping           ShippingDetails `json:"shipping"`
	ShippingSubmitted  bool            `json:"shipping_submitted"`
	PendingReference   string          `json:"pending_reference"`
	PendingAmount      float64         `json:"pending_amount"`
	PaymentInitiatedAt time.Time       `json:"payment_initiated_at"`
}
