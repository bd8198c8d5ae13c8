package gateway

import "errors"

var (
	// ErrConnectivity stands in for any transport-level failure reaching
	// the backend; callers surface it as a generic connectivity message.
	ErrConnectivity = errors.New("ordering service unreachable")
	// ErrPaymentIntentTimeout is the distinct case of the payment intent
	// call exceeding its deadline.
	ErrPaymentIntentTimeout = errors.New("payment service timed out")
)

// BackendError carries a message reported by the backend's error field.
type BackendError struct {
	Message string
}

func (e *BackendError) Error() string {
	return e.Message
}
