package checkout

import (
	"errors"
	"regexp"
	"strings"

	"restofront/internal/domain"
)

var (
	mobilePhoneRe = regexp.MustCompile(`^(06|07)\d{7}$`)
	expiryRe      = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvvRe         = regexp.MustCompile(`^\d{3,4}$`)
)

// ValidateMobileMoney checks the operator and the local 9-digit number.
func ValidateMobileMoney(operator domain.MobileMoneyOperator, phone string) error {
	if operator != domain.OperatorAirtel && operator != domain.OperatorMoov {
		return errors.New("mobile money operator must be airtel or moov")
	}
	if !mobilePhoneRe.MatchString(phone) {
		return errors.New("mobile money number must match 06/07 followed by 7 digits")
	}
	return nil
}

// ValidateBankInfo applies the all-or-none rule: a fully empty form is the
// skip case and passes; once any field is filled, all four must validate.
func ValidateBankInfo(info domain.BankInfo) error {
	if info.Empty() {
		return nil
	}
	if info.CardNumber == "" || info.Expiry == "" || info.CVV == "" || info.HolderName == "" {
		return errors.New("all banking fields are required once one is filled")
	}
	number := strings.Join(strings.Fields(info.CardNumber), "")
	if len(number) < 13 || len(number) > 19 || !digitsOnly(number) {
		return errors.New("card number must be 13 to 19 digits")
	}
	if !expiryRe.MatchString(info.Expiry) {
		return errors.New("expiry must match MM/YY")
	}
	if !cvvRe.MatchString(info.CVV) {
		return errors.New("cvv must be 3 or 4 digits")
	}
	return nil
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
