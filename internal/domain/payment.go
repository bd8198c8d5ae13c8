package domain

import "github.com/shopspring/decimal"

// PaymentMethod selects which invoice flow an order goes through.
type PaymentMethod string

const (
	PaymentCard           PaymentMethod = "card"
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentMobileMoney    PaymentMethod = "mobile_money"
)

// MobileMoneyOperator is one of the phone-payment carriers the backend accepts.
type MobileMoneyOperator string

const (
	OperatorAirtel MobileMoneyOperator = "airtel"
	OperatorMoov   MobileMoneyOperator = "moov"
)

// Invoice is the backend-issued payment record tied to one order.
type Invoice struct {
	ID      int64           `json:"id"`
	OrderID int64           `json:"commande_id"`
	Method  PaymentMethod   `json:"methode"`
	Statut  string          `json:"statut"`
	Montant decimal.Decimal `json:"montant"`
}

// BankInfo is the optional banking capture on the cash-on-delivery path.
type BankInfo struct {
	CardNumber string `json:"numero_carte"`
	Expiry     string `json:"expiration"`
	CVV        string `json:"cvv"`
	HolderName string `json:"titulaire"`
}

// Empty reports whether no field was filled in at all (the skip case).
func (b BankInfo) Empty() bool {
	return b.CardNumber == "" && b.Expiry == "" && b.CVV == "" && b.HolderName == ""
}
