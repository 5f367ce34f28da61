package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// TransferStatus is the lifecycle state of a submitted transfer.
// Transitions only move forward: pending -> completed | failed.
type TransferStatus string

const (
	TransferPending   TransferStatus = "pending"
	TransferCompleted TransferStatus = "completed"
	TransferFailed    TransferStatus = "failed"
)

// CanTransitionTo reports whether moving to next is a legal forward step.
// Terminal states never reopen.
func (s TransferStatus) CanTransitionTo(next TransferStatus) bool {
	if s == next {
		return false
	}
	switch s {
	case TransferPending:
		return next == TransferCompleted || next == TransferFailed
	default:
		return false
	}
}

// TransferDirection marks a record as outgoing or incoming for its owner.
type TransferDirection string

const (
	DirectionSent     TransferDirection = "sent"
	DirectionReceived TransferDirection = "received"
)

// TransferRecord is the durable record of a submitted transfer. Amounts are
// decimal strings to keep full precision on the wire and at rest.
type TransferRecord struct {
	ID               uuid.UUID         `json:"id"`
	RequestID        string            `json:"requestId"`
	TxHash           null.String       `json:"txHash,omitempty"`
	WalletAddress    string            `json:"walletAddress"`
	Direction        TransferDirection `json:"direction"`
	Counterparty     string            `json:"counterparty"`
	CounterpartyName null.String       `json:"counterpartyName,omitempty"`
	RecipientKind    RecipientKind     `json:"recipientKind,omitempty"`
	Amount           string            `json:"amount"`
	Currency         string            `json:"currency"`
	DestAmount       null.String       `json:"destAmount,omitempty"`
	DestCurrency     string            `json:"destCurrency,omitempty"`
	Fee              null.String       `json:"fee,omitempty"`
	Status           TransferStatus    `json:"status"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
	CompletedAt      null.Time         `json:"completedAt,omitempty"`
}
