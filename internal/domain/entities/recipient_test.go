package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validBank() *BankRecipient {
	return &BankRecipient{
		RecipientName: "Thabo Mokoena",
		BankName:      "Standard Bank",
		AccountNumber: "12345678",
		SortCode:      "051001",
		SwiftCode:     "SBZAZAJJ",
		IBAN:          "ZA12345678901234567",
		Reference:     "Rent",
	}
}

func TestRecipient_Validate_ExactlyOneVariant(t *testing.T) {
	assert.Error(t, (&Recipient{Kind: RecipientBank}).Validate())

	both := &Recipient{
		Kind:   RecipientBank,
		Bank:   validBank(),
		Wallet: &WalletRecipient{Address: "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"},
	}
	assert.Error(t, both.Validate())

	var nilRecipient *Recipient
	assert.Error(t, nilRecipient.Validate())
}

func TestRecipient_Validate_KindMustMatchVariant(t *testing.T) {
	mismatched := &Recipient{Kind: RecipientWallet, Bank: validBank()}
	assert.Error(t, mismatched.Validate())

	unknown := &Recipient{Kind: "paypal", Bank: validBank()}
	assert.Error(t, unknown.Validate())
}

func TestRecipient_Validate_Bank(t *testing.T) {
	ok := &Recipient{Kind: RecipientBank, Bank: validBank()}
	assert.NoError(t, ok.Validate())

	cases := []struct {
		name   string
		mutate func(*BankRecipient)
	}{
		{"short name", func(b *BankRecipient) { b.RecipientName = "T" }},
		{"missing bank", func(b *BankRecipient) { b.BankName = "" }},
		{"short account", func(b *BankRecipient) { b.AccountNumber = "1234" }},
		{"short sort code", func(b *BankRecipient) { b.SortCode = "051" }},
		{"short swift", func(b *BankRecipient) { b.SwiftCode = "SBZA" }},
		{"long swift", func(b *BankRecipient) { b.SwiftCode = "SBZAZAJJXXXX" }},
		{"short iban", func(b *BankRecipient) { b.IBAN = "ZA123" }},
		{"missing reference", func(b *BankRecipient) { b.Reference = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := validBank()
			tc.mutate(b)
			r := &Recipient{Kind: RecipientBank, Bank: b}
			assert.Error(t, r.Validate())
		})
	}
}

func TestRecipient_Validate_Wallet(t *testing.T) {
	ok := &Recipient{Kind: RecipientWallet, Wallet: &WalletRecipient{Address: "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"}}
	assert.NoError(t, ok.Validate())

	for _, addr := range []string{"", "0x1234", "742d35Cc6634C0532925a3b844Bc454e4438f44e00", "0xZZZd35Cc6634C0532925a3b844Bc454e4438f44e"} {
		r := &Recipient{Kind: RecipientWallet, Wallet: &WalletRecipient{Address: addr}}
		assert.Error(t, r.Validate(), "address %q", addr)
	}
}

func TestRecipient_Validate_MobileMoney(t *testing.T) {
	ok := &Recipient{Kind: RecipientMobileMoney, MobileMoney: &MobileMoneyRecipient{PhoneNumber: "+254712345678", Provider: "M-Pesa"}}
	assert.NoError(t, ok.Validate())

	short := &Recipient{Kind: RecipientMobileMoney, MobileMoney: &MobileMoneyRecipient{PhoneNumber: "12345", Provider: "M-Pesa"}}
	assert.Error(t, short.Validate())

	noProvider := &Recipient{Kind: RecipientMobileMoney, MobileMoney: &MobileMoneyRecipient{PhoneNumber: "+254712345678"}}
	assert.Error(t, noProvider.Validate())
}

func TestRecipient_Descriptor(t *testing.T) {
	bank := &Recipient{Kind: RecipientBank, Bank: validBank()}
	assert.Equal(t, "Thabo Mokoena / Standard Bank", bank.Descriptor())

	wallet := &Recipient{Kind: RecipientWallet, Wallet: &WalletRecipient{Address: "0x742D35Cc6634C0532925a3b844Bc454e4438F44E"}}
	assert.Equal(t, "0x742d35cc6634c0532925a3b844bc454e4438f44e", wallet.Descriptor())

	momo := &Recipient{Kind: RecipientMobileMoney, MobileMoney: &MobileMoneyRecipient{PhoneNumber: "+254712345678", Provider: "M-Pesa"}}
	assert.Equal(t, "M-Pesa +254712345678", momo.Descriptor())
}

func TestNormalizeAddress(t *testing.T) {
	assert.Equal(t, "0x742d35cc6634c0532925a3b844bc454e4438f44e", NormalizeAddress("  0x742D35Cc6634C0532925a3b844Bc454e4438F44E "))
	assert.Equal(t, "", NormalizeAddress("   "))
}

func TestQuote_Equivalent(t *testing.T) {
	a := testQuote("100")
	b := testQuote("100")
	assert.True(t, a.Equivalent(b))

	c := testQuote("100")
	c.Rate = c.Rate.Add(c.Rate)
	assert.False(t, a.Equivalent(c))

	assert.False(t, a.Equivalent(nil))
	var nilQuote *Quote
	assert.False(t, nilQuote.Equivalent(a))
}
