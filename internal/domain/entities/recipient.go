package entities

import (
	"strings"

	domainerrors "remittease.backend/internal/domain/errors"
)

// RecipientKind discriminates the recipient descriptor variants.
type RecipientKind string

const (
	RecipientBank        RecipientKind = "bank"
	RecipientWallet      RecipientKind = "wallet"
	RecipientMobileMoney RecipientKind = "mobile_money"
)

// BankRecipient is a bank-account payout destination.
type BankRecipient struct {
	RecipientName string `json:"recipientName"`
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	SortCode      string `json:"sortCode"`
	SwiftCode     string `json:"swiftCode"`
	IBAN          string `json:"iban"`
	Reference     string `json:"reference"`
}

// WalletRecipient is an on-chain payout destination.
type WalletRecipient struct {
	Address string `json:"address"`
}

// MobileMoneyRecipient is a mobile-money payout destination.
type MobileMoneyRecipient struct {
	PhoneNumber string `json:"phoneNumber"`
	Provider    string `json:"provider"`
}

// Recipient is a tagged union: Kind selects exactly one populated variant.
type Recipient struct {
	Kind        RecipientKind         `json:"kind"`
	Bank        *BankRecipient        `json:"bank,omitempty"`
	Wallet      *WalletRecipient      `json:"wallet,omitempty"`
	MobileMoney *MobileMoneyRecipient `json:"mobileMoney,omitempty"`
}

var isHexAddress = func(s string) bool {
	s = strings.TrimPrefix(s, "0x")
	if len(s) != 40 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// Validate enforces the exactly-one-variant invariant and the per-variant
// field rules.
func (r *Recipient) Validate() error {
	if r == nil {
		return domainerrors.BadRequest("recipient is required")
	}

	populated := 0
	if r.Bank != nil {
		populated++
	}
	if r.Wallet != nil {
		populated++
	}
	if r.MobileMoney != nil {
		populated++
	}
	if populated != 1 {
		return domainerrors.BadRequest("recipient must hold exactly one variant")
	}

	switch r.Kind {
	case RecipientBank:
		if r.Bank == nil {
			return domainerrors.BadRequest("bank details are required")
		}
		return r.Bank.validate()
	case RecipientWallet:
		if r.Wallet == nil {
			return domainerrors.BadRequest("wallet address is required")
		}
		return r.Wallet.validate()
	case RecipientMobileMoney:
		if r.MobileMoney == nil {
			return domainerrors.BadRequest("mobile money details are required")
		}
		return r.MobileMoney.validate()
	default:
		return domainerrors.BadRequest("unknown recipient kind")
	}
}

// Descriptor is a short human-readable counterparty label for records.
func (r *Recipient) Descriptor() string {
	switch r.Kind {
	case RecipientBank:
		if r.Bank != nil {
			return r.Bank.RecipientName + " / " + r.Bank.BankName
		}
	case RecipientWallet:
		if r.Wallet != nil {
			return NormalizeAddress(r.Wallet.Address)
		}
	case RecipientMobileMoney:
		if r.MobileMoney != nil {
			return r.MobileMoney.Provider + " " + r.MobileMoney.PhoneNumber
		}
	}
	return ""
}

func (b *BankRecipient) validate() error {
	switch {
	case len(strings.TrimSpace(b.RecipientName)) < 2:
		return domainerrors.BadRequest("Name must be at least 2 characters")
	case len(strings.TrimSpace(b.BankName)) < 2:
		return domainerrors.BadRequest("Bank name is required")
	case len(strings.TrimSpace(b.AccountNumber)) < 8:
		return domainerrors.BadRequest("Invalid account number")
	case len(strings.TrimSpace(b.SortCode)) < 6:
		return domainerrors.BadRequest("Sort code must be 6 digits")
	case len(strings.TrimSpace(b.SwiftCode)) < 8 || len(strings.TrimSpace(b.SwiftCode)) > 11:
		return domainerrors.BadRequest("SWIFT/BIC code must be 8-11 characters")
	case len(strings.TrimSpace(b.IBAN)) < 15:
		return domainerrors.BadRequest("Invalid IBAN")
	case len(strings.TrimSpace(b.Reference)) < 2:
		return domainerrors.BadRequest("Reference is required")
	}
	return nil
}

func (w *WalletRecipient) validate() error {
	if !isHexAddress(w.Address) {
		return domainerrors.BadRequest("Invalid recipient address")
	}
	return nil
}

func (m *MobileMoneyRecipient) validate() error {
	digits := 0
	for _, c := range m.PhoneNumber {
		if c >= '0' && c <= '9' {
			digits++
		}
	}
	switch {
	case digits < 7:
		return domainerrors.BadRequest("Invalid phone number")
	case strings.TrimSpace(m.Provider) == "":
		return domainerrors.BadRequest("Mobile money provider is required")
	}
	return nil
}
