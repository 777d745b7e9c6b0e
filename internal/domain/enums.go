package domain

import "fmt"

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyCAD Currency = "CAD"
	CurrencyAUD Currency = "AUD"
	CurrencyJPY Currency = "JPY"
	CurrencyCHF Currency = "CHF"
	CurrencyCNY Currency = "CNY"
	CurrencyINR Currency = "INR"
	CurrencyBRL Currency = "BRL"
	CurrencyVEF Currency = "VEF"
)

// ValidCurrencies is the canonical set of accepted currency codes.
var ValidCurrencies = map[Currency]string{
	CurrencyUSD: "$", CurrencyEUR: "€", CurrencyGBP: "£",
	CurrencyCAD: "$", CurrencyAUD: "$", CurrencyJPY: "¥",
	CurrencyCHF: "CHF", CurrencyCNY: "¥", CurrencyINR: "₹",
	CurrencyBRL: "R$", CurrencyVEF: "Bs",
}

// ParseCurrency validates a currency code.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(s)
	if _, ok := ValidCurrencies[c]; !ok {
		return "", fmt.Errorf("unknown currency %q", s)
	}
	return c, nil
}

// Symbol returns the short display symbol, falling back to the code itself.
func (c Currency) Symbol() string {
	if s, ok := ValidCurrencies[c]; ok {
		return s
	}
	return string(c)
}

type FinanceInterval string

const (
	IntervalDay      FinanceInterval = "day"
	IntervalWeek     FinanceInterval = "week"
	IntervalMonth    FinanceInterval = "month"
	IntervalQuarter  FinanceInterval = "quarter"
	IntervalHalfYear FinanceInterval = "half_year"
	IntervalYear     FinanceInterval = "year"
)

// ValidFinanceIntervals is the canonical set of accepted recurrence cadences.
var ValidFinanceIntervals = map[FinanceInterval]bool{
	IntervalDay: true, IntervalWeek: true, IntervalMonth: true,
	IntervalQuarter: true, IntervalHalfYear: true, IntervalYear: true,
}

// ParseFinanceInterval validates a recurrence cadence.
func ParseFinanceInterval(s string) (FinanceInterval, error) {
	i := FinanceInterval(s)
	if !ValidFinanceIntervals[i] {
		return "", fmt.Errorf("unknown interval %q (day, week, month, quarter, half_year, year)", s)
	}
	return i, nil
}

type RoundingDirection string

const (
	RoundUp      RoundingDirection = "up"
	RoundDown    RoundingDirection = "down"
	RoundNearest RoundingDirection = "nearest"
)

// ParseRoundingDirection validates a rounding direction.
func ParseRoundingDirection(s string) (RoundingDirection, error) {
	switch d := RoundingDirection(s); d {
	case RoundUp, RoundDown, RoundNearest:
		return d, nil
	}
	return "", fmt.Errorf("unknown rounding direction %q (up, down, nearest)", s)
}
