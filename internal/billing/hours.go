package billing

import "github.com/shopspring/decimal"

// RoundHours rounds raw logged hours UP to the next billing-increment
// boundary. The increment is configured in minutes (e.g. 15 → quarter
// hours). Rounding is always upward so the billable quantity never
// undercuts the time actually worked, and the function is idempotent:
// an already-rounded value comes back unchanged.
func RoundHours(hours decimal.Decimal, incrementMinutes int) decimal.Decimal {
	if incrementMinutes <= 0 || hours.IsZero() {
		return hours
	}
	increment := decimal.NewFromInt(int64(incrementMinutes)).Div(decimal.NewFromInt(60))
	steps := hours.Div(increment).Ceil()
	return steps.Mul(increment)
}
