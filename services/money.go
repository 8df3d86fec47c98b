package services

import "github.com/shopspring/decimal"

// maxMoney is the first value a numeric(12,2) column cannot hold.
var maxMoney = decimal.New(1, 10)

// checkMoney rejects amounts that would be rounded or overflow when stored.
func checkMoney(field string, d decimal.Decimal) error {
	if !d.Equal(d.Round(2)) {
		return newError(KindValidation, "%s must have at most 2 decimal places", field)
	}
	if d.Abs().GreaterThanOrEqual(maxMoney) {
		return newError(KindValidation, "%s must be less than %s", field, maxMoney.String())
	}
	return nil
}
