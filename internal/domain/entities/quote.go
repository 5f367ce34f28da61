package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the result of pricing a source amount into a destination
// currency: conversion rate, fee breakdown, and the amount the recipient
// receives. Display fields are rounded to 2 decimal places half-up; the
// unrounded values stay in the decimals until settlement.
type Quote struct {
	SourceCurrency string          `json:"sourceCurrency"`
	DestCurrency   string          `json:"destCurrency"`
	SourceAmount   decimal.Decimal `json:"sourceAmount"`
	Rate           decimal.Decimal `json:"rate"`
	NetworkFee     decimal.Decimal `json:"networkFee"`
	ServiceFee     decimal.Decimal `json:"serviceFee"`
	TotalFee       decimal.Decimal `json:"totalFee"`
	NetSource      decimal.Decimal `json:"netSource"`
	NetAmount      string          `json:"netAmount"`
	QuotedAt       time.Time       `json:"quotedAt"`
}

// Equivalent reports whether two quotes price the same inputs to the same
// outcome. Used at Review to detect a rate-table change since AmountEntry.
func (q *Quote) Equivalent(other *Quote) bool {
	if q == nil || other == nil {
		return false
	}
	return q.SourceCurrency == other.SourceCurrency &&
		q.DestCurrency == other.DestCurrency &&
		q.SourceAmount.Equal(other.SourceAmount) &&
		q.Rate.Equal(other.Rate) &&
		q.TotalFee.Equal(other.TotalFee) &&
		q.NetAmount == other.NetAmount
}

// RateTable maps currency codes to their value against a common reference
// unit. Read-only to the quote path; refreshed out-of-band.
type RateTable struct {
	Rates     map[string]decimal.Decimal `json:"rates"`
	Timestamp time.Time                  `json:"timestamp"`
}

// Lookup returns the rate for a currency code, and whether it is known.
func (t *RateTable) Lookup(currency string) (decimal.Decimal, bool) {
	if t == nil {
		return decimal.Zero, false
	}
	r, ok := t.Rates[currency]
	return r, ok
}
