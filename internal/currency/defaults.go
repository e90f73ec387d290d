package currency

import "time"

// defaultRateTable is the bundled last-resort fallback, used until the first
// successful refresh and when both the remote feed and the persisted
// snapshot are unavailable. Values are approximate by nature; they only
// have to be sane, not fresh.
func defaultRateTable() RateTable {
	return RateTable{
		LastUpdate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Rates: map[string]float64{
			"USD": 1,
			"EUR": 0.92,
			"GBP": 0.79,
			"CNY": 7.1,
			"RUB": 90.0,
			"PLN": 4.0,
			"BRL": 4.9,
			"CAD": 1.33,
			"AUD": 1.5,
			"JPY": 142.0,
			"KRW": 1300.0,
			"SEK": 10.2,
			"NOK": 10.4,
			"DKK": 6.9,
			"CHF": 0.87,
			"TRY": 29.0,
			"UAH": 38.0,
			"CZK": 22.4,
			"HUF": 350.0,
			"INR": 83.0,
		},
	}
}
