package money

import "errors"

// CoinRate is the currency value of one coin: R0.05.
const CoinRate Cents = 5

var ErrInvalidAmount = errors.New("amount must be positive")

// CurrencyToCoins returns how many whole coins amount buys. The remainder
// below one coin is dropped, so CoinsToCurrency(CurrencyToCoins(a)) <= a.
func CurrencyToCoins(amount Cents) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return int64(amount / CoinRate), nil
}

func CoinsToCurrency(coins int64) Cents {
	return Cents(coins) * CoinRate
}
