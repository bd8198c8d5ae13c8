package domain

// CheckoutStep is the current position in the multi-step checkout flow.
type CheckoutStep string

const (
	StepCollectingInfo       CheckoutStep = "COLLECTING_INFO"
	StepChoosingPayment      CheckoutStep = "CHOOSING_PAYMENT_METHOD"
	StepMobileMoneyForm      CheckoutStep = "MOBILE_MONEY_FORM"
	StepCardPaymentForm      CheckoutStep = "CARD_PAYMENT_FORM"
	StepDeliveryBankInfoForm CheckoutStep = "DELIVERY_BANK_INFO_FORM"
	StepInvoiceDisplay       CheckoutStep = "INVOICE_DISPLAY"
)

// IsTerminal reports whether the flow has reached its final step.
func (s CheckoutStep) IsTerminal() bool {
	return s == StepInvoiceDisplay
}

// String representation (for logging)
func (s CheckoutStep) String() string {
	return string(s)
}
