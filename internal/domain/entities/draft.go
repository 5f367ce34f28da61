package entities

import (
	"time"

	"github.com/shopspring/decimal"
	domainerrors "remittease.backend/internal/domain/errors"
)

// WizardState is a step of the send-money wizard.
type WizardState string

const (
	StateAmountEntry    WizardState = "amount_entry"
	StateRecipientEntry WizardState = "recipient_entry"
	StateReview         WizardState = "review"
	StateSubmitting     WizardState = "submitting"
	StateSuccess        WizardState = "success"
	StateFailed         WizardState = "failed"
)

// Terminal reports whether the wizard can no longer move forward.
// Failed is not terminal: it allows a retry back into Submitting.
func (s WizardState) Terminal() bool {
	return s == StateSuccess
}

// TransferDraft is the ephemeral, server-held state of one wizard run.
// It is owned by a single wallet for its lifetime and is only converted
// into a TransferRecord on a successful submission.
type TransferDraft struct {
	ID             string      `json:"id"`
	Owner          string      `json:"owner"`
	State          WizardState `json:"state"`
	SourceCurrency string      `json:"sourceCurrency,omitempty"`
	DestCurrency   string      `json:"destCurrency,omitempty"`
	SourceAmount   string      `json:"sourceAmount,omitempty"`
	Recipient      *Recipient  `json:"recipient,omitempty"`
	Quote          *Quote      `json:"quote,omitempty"`
	RequestID      string      `json:"requestId"`
	TxHash         string      `json:"txHash,omitempty"`
	FailureReason  string      `json:"failureReason,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// NewTransferDraft opens a wizard run for a wallet. The request id is fixed
// at creation so a retried submission stays idempotent across the draft's
// whole life.
func NewTransferDraft(id, owner, requestID string) *TransferDraft {
	now := time.Now().UTC()
	return &TransferDraft{
		ID:        id,
		Owner:     NormalizeAddress(owner),
		State:     StateAmountEntry,
		RequestID: requestID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetAmount records currencies and amount together with their quote.
// Allowed while editing (AmountEntry, RecipientEntry, Review); editing
// returns the wizard to AmountEntry without discarding recipient data.
func (d *TransferDraft) SetAmount(sourceCurrency, destCurrency, amount string, quote *Quote) error {
	switch d.State {
	case StateAmountEntry, StateRecipientEntry, StateReview:
	default:
		return domainerrors.ErrInvalidStateChange
	}

	if sourceCurrency == "" || destCurrency == "" {
		return domainerrors.BadRequest("source and destination currencies are required")
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil || !parsed.IsPositive() {
		return domainerrors.BadRequest("amount must be a positive number")
	}
	if quote == nil {
		return domainerrors.BadRequest("quote is required")
	}

	d.SourceCurrency = sourceCurrency
	d.DestCurrency = destCurrency
	d.SourceAmount = amount
	d.Quote = quote
	d.State = StateAmountEntry
	d.touch()
	return nil
}

// AdvanceToRecipient moves forward from AmountEntry once an amount and
// quote are held.
func (d *TransferDraft) AdvanceToRecipient() error {
	if d.State != StateAmountEntry {
		return domainerrors.ErrInvalidStateChange
	}
	if d.SourceAmount == "" || d.Quote == nil {
		return domainerrors.BadRequest("amount must be entered first")
	}
	d.State = StateRecipientEntry
	d.touch()
	return nil
}

// SetRecipient records the payout destination. Allowed in RecipientEntry
// and Review (editing from Review drops back to RecipientEntry).
func (d *TransferDraft) SetRecipient(r *Recipient) error {
	switch d.State {
	case StateRecipientEntry, StateReview:
	default:
		return domainerrors.ErrInvalidStateChange
	}
	if err := r.Validate(); err != nil {
		return err
	}
	d.Recipient = r
	d.State = StateRecipientEntry
	d.touch()
	return nil
}

// AdvanceToReview moves forward once a valid recipient is held.
func (d *TransferDraft) AdvanceToReview() error {
	if d.State != StateRecipientEntry {
		return domainerrors.ErrInvalidStateChange
	}
	if d.Recipient == nil {
		return domainerrors.BadRequest("recipient must be entered first")
	}
	d.State = StateReview
	d.touch()
	return nil
}

// Back steps the wizard one step backwards, preserving all entered data.
func (d *TransferDraft) Back() error {
	switch d.State {
	case StateRecipientEntry:
		d.State = StateAmountEntry
	case StateReview:
		d.State = StateRecipientEntry
	default:
		return domainerrors.ErrInvalidStateChange
	}
	d.touch()
	return nil
}

// BeginSubmit enters Submitting from Review, or re-enters it from Failed
// (retry keeps all entered data).
func (d *TransferDraft) BeginSubmit() error {
	switch d.State {
	case StateReview, StateFailed:
	default:
		return domainerrors.ErrInvalidStateChange
	}
	d.State = StateSubmitting
	d.FailureReason = ""
	d.touch()
	return nil
}

// Complete finishes the wizard successfully. Success is terminal.
func (d *TransferDraft) Complete(txHash string) error {
	if d.State != StateSubmitting {
		return domainerrors.ErrInvalidStateChange
	}
	d.State = StateSuccess
	d.TxHash = txHash
	d.touch()
	return nil
}

// Fail records a submission failure. The draft keeps its data so the user
// can retry.
func (d *TransferDraft) Fail(reason string) error {
	if d.State != StateSubmitting {
		return domainerrors.ErrInvalidStateChange
	}
	d.State = StateFailed
	d.FailureReason = reason
	d.touch()
	return nil
}

func (d *TransferDraft) touch() {
	d.UpdatedAt = time.Now().UTC()
}
