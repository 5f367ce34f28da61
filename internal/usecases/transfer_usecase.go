package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"remittease.backend/internal/domain/entities"
	domainerrors "remittease.backend/internal/domain/errors"
	"remittease.backend/internal/domain/repositories"
	"remittease.backend/internal/infrastructure/blockchain"
	"remittease.backend/pkg/redis"
)

// NativeCurrency labels direct on-chain sends, which are denominated in
// the chain's native coin rather than a fiat currency.
const NativeCurrency = "ETH"

// DraftStore keeps wizard drafts between steps.
type DraftStore interface {
	Save(ctx context.Context, draftID string, draft interface{}) error
	Load(ctx context.Context, draftID string, out interface{}) error
	Delete(ctx context.Context, draftID string) error
}

// ChainGateway estimates and submits on-chain value transfers.
type ChainGateway interface {
	EstimateTransferFee(ctx context.Context, from, to, value string) (*blockchain.FeeEstimate, error)
	SendTransfer(ctx context.Context, from, to, value, secret string) (string, error)
}

// SendResult is the outcome of a direct send: the broadcast transaction
// and the fee quoted just before submission.
type SendResult struct {
	TransactionID string `json:"transactionId"`
	EstimatedFee  string `json:"estimatedFee"`
}

// TransferUsecase drives the send-money wizard and on-chain submission.
type TransferUsecase struct {
	drafts       DraftStore
	quotes       *QuoteUsecase
	chain        ChainGateway
	transferRepo repositories.TransferRepository
	treasury     string
}

// NewTransferUsecase creates a new transfer usecase. treasury is the
// settlement address for bank and mobile-money payouts.
func NewTransferUsecase(
	drafts DraftStore,
	quotes *QuoteUsecase,
	chain ChainGateway,
	transferRepo repositories.TransferRepository,
	treasury string,
) *TransferUsecase {
	return &TransferUsecase{
		drafts:       drafts,
		quotes:       quotes,
		chain:        chain,
		transferRepo: transferRepo,
		treasury:     entities.NormalizeAddress(treasury),
	}
}

// CreateDraft opens a wizard run for the wallet.
func (u *TransferUsecase) CreateDraft(ctx context.Context, owner string) (*entities.TransferDraft, error) {
	draft := entities.NewTransferDraft(uuid.NewString(), owner, uuid.NewString())
	if err := u.drafts.Save(ctx, draft.ID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// GetDraft loads a draft owned by the wallet. Someone else's draft id
// reads as not found.
func (u *TransferUsecase) GetDraft(ctx context.Context, owner, draftID string) (*entities.TransferDraft, error) {
	var draft entities.TransferDraft
	if err := u.drafts.Load(ctx, draftID, &draft); err != nil {
		if errors.Is(err, redis.ErrDraftNotFound) {
			return nil, domainerrors.NotFound("draft not found")
		}
		return nil, err
	}
	if draft.Owner != entities.NormalizeAddress(owner) {
		return nil, domainerrors.NotFound("draft not found")
	}
	return &draft, nil
}

// SetAmount records currencies and amount with a fresh quote, then moves
// the wizard to recipient entry.
func (u *TransferUsecase) SetAmount(ctx context.Context, owner, draftID, sourceCurrency, destCurrency, amount string) (*entities.TransferDraft, error) {
	draft, err := u.GetDraft(ctx, owner, draftID)
	if err != nil {
		return nil, err
	}

	quote, err := u.quotes.Quote(sourceCurrency, destCurrency, amount)
	if err != nil {
		return nil, err
	}
	if err := draft.SetAmount(sourceCurrency, destCurrency, amount, quote); err != nil {
		return nil, err
	}
	if err := draft.AdvanceToRecipient(); err != nil {
		return nil, err
	}

	if err := u.drafts.Save(ctx, draft.ID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// SetRecipient records a validated recipient and moves the wizard to
// review.
func (u *TransferUsecase) SetRecipient(ctx context.Context, owner, draftID string, recipient *entities.Recipient) (*entities.TransferDraft, error) {
	draft, err := u.GetDraft(ctx, owner, draftID)
	if err != nil {
		return nil, err
	}

	if err := draft.SetRecipient(recipient); err != nil {
		return nil, err
	}
	if err := draft.AdvanceToReview(); err != nil {
		return nil, err
	}

	if err := u.drafts.Save(ctx, draft.ID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Back steps the wizard one step backwards, keeping entered data.
func (u *TransferUsecase) Back(ctx context.Context, owner, draftID string) (*entities.TransferDraft, error) {
	draft, err := u.GetDraft(ctx, owner, draftID)
	if err != nil {
		return nil, err
	}
	if err := draft.Back(); err != nil {
		return nil, err
	}
	if err := u.drafts.Save(ctx, draft.ID, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Confirm submits the reviewed draft on-chain. The quote is recomputed
// from the frozen inputs first; a drifted rate table updates the draft
// and demands explicit re-confirmation instead of silently repricing.
// Retries are idempotent on the draft's request id.
func (u *TransferUsecase) Confirm(ctx context.Context, owner, draftID, secret string) (*entities.TransferRecord, *entities.TransferDraft, error) {
	draft, err := u.GetDraft(ctx, owner, draftID)
	if err != nil {
		return nil, nil, err
	}

	// Replay: the submission already went through.
	if existing, err := u.transferRepo.GetByRequestID(ctx, draft.RequestID); err == nil {
		return existing, draft, nil
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, nil, err
	}

	// A successful draft whose record write failed gets repaired here
	// instead of resubmitting on-chain.
	if draft.State == entities.StateSuccess {
		record := u.recordFromDraft(draft)
		if err := u.transferRepo.Create(ctx, record); err != nil {
			return nil, nil, err
		}
		return record, draft, nil
	}

	fresh, err := u.quotes.Quote(draft.SourceCurrency, draft.DestCurrency, draft.SourceAmount)
	if err != nil {
		return nil, nil, err
	}
	if !fresh.Equivalent(draft.Quote) {
		draft.Quote = fresh
		if err := u.drafts.Save(ctx, draft.ID, draft); err != nil {
			return nil, nil, err
		}
		return nil, draft, domainerrors.Conflict("exchange rate changed; review the updated quote and confirm again")
	}

	dest, err := u.resolveDestination(draft.Recipient)
	if err != nil {
		return nil, nil, err
	}

	if err := draft.BeginSubmit(); err != nil {
		return nil, nil, err
	}
	if err := u.drafts.Save(ctx, draft.ID, draft); err != nil {
		return nil, nil, err
	}

	// The fee-net source amount settles on-chain in native units. The
	// destination-currency payout happens off-chain at the settlement
	// destination; converting the fiat figure to a chain-priced one is
	// that rail's concern.
	txHash, err := u.chain.SendTransfer(ctx, draft.Owner, dest, draft.Quote.NetSource.String(), secret)
	if err != nil {
		_ = draft.Fail("on-chain submission failed")
		_ = u.drafts.Save(ctx, draft.ID, draft)
		return nil, draft, domainerrors.SubmissionFailed("transfer submission failed", err)
	}

	if err := draft.Complete(txHash); err != nil {
		return nil, nil, err
	}
	if err := u.drafts.Save(ctx, draft.ID, draft); err != nil {
		return nil, nil, err
	}

	record := u.recordFromDraft(draft)
	if err := u.transferRepo.Create(ctx, record); err != nil {
		// The transfer is on-chain; surface the write failure so the
		// client retries Confirm, which lands in the repair path.
		return nil, draft, err
	}
	return record, draft, nil
}

// EstimateSend prices a direct send without side effects.
func (u *TransferUsecase) EstimateSend(ctx context.Context, from, to, value string) (*blockchain.FeeEstimate, error) {
	est, err := u.chain.EstimateTransferFee(ctx, from, to, value)
	if err != nil {
		if errors.Is(err, blockchain.ErrInvalidAmount) {
			return nil, domainerrors.BadRequest(err.Error())
		}
		return nil, domainerrors.ProviderUnavailable("blockchain provider unreachable")
	}
	return est, nil
}

// Send performs a direct two-phase submission: estimate, then sign and
// broadcast. No record is written when any phase fails. requestID makes
// retries idempotent.
func (u *TransferUsecase) Send(ctx context.Context, requestID, from, to, value, secret string) (*SendResult, error) {
	from = entities.NormalizeAddress(from)
	to = entities.NormalizeAddress(to)

	if requestID != "" {
		if existing, err := u.transferRepo.GetByRequestID(ctx, requestID); err == nil {
			return &SendResult{
				TransactionID: existing.TxHash.String,
				EstimatedFee:  existing.Fee.String,
			}, nil
		} else if !errors.Is(err, domainerrors.ErrNotFound) {
			return nil, err
		}
	} else {
		requestID = uuid.NewString()
	}

	est, err := u.chain.EstimateTransferFee(ctx, from, to, value)
	if err != nil {
		if errors.Is(err, blockchain.ErrInvalidAmount) {
			return nil, domainerrors.BadRequest(err.Error())
		}
		return nil, domainerrors.SubmissionFailed("fee estimation failed", err)
	}

	txHash, err := u.chain.SendTransfer(ctx, from, to, value, secret)
	if err != nil {
		return nil, domainerrors.SubmissionFailed("transfer submission failed", err)
	}

	now := time.Now().UTC()
	record := &entities.TransferRecord{
		ID:            uuid.New(),
		RequestID:     requestID,
		TxHash:        null.StringFrom(txHash),
		WalletAddress: from,
		Direction:     entities.DirectionSent,
		Counterparty:  to,
		RecipientKind: entities.RecipientWallet,
		Amount:        value,
		Currency:      NativeCurrency,
		Fee:           null.StringFrom(est.EstimatedFee),
		Status:        entities.TransferPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := u.transferRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	return &SendResult{TransactionID: txHash, EstimatedFee: est.EstimatedFee}, nil
}

func (u *TransferUsecase) resolveDestination(r *entities.Recipient) (string, error) {
	if r == nil {
		return "", domainerrors.BadRequest("recipient is required")
	}
	if r.Kind == entities.RecipientWallet && r.Wallet != nil {
		return entities.NormalizeAddress(r.Wallet.Address), nil
	}
	if u.treasury == "" {
		return "", domainerrors.BadRequest("payout route not configured for this recipient type")
	}
	return u.treasury, nil
}

func (u *TransferUsecase) recordFromDraft(draft *entities.TransferDraft) *entities.TransferRecord {
	now := time.Now().UTC()
	counterparty := ""
	var counterpartyName null.String
	kind := entities.RecipientKind("")
	if draft.Recipient != nil {
		kind = draft.Recipient.Kind
		if draft.Recipient.Kind == entities.RecipientWallet && draft.Recipient.Wallet != nil {
			counterparty = entities.NormalizeAddress(draft.Recipient.Wallet.Address)
		} else {
			counterparty = u.treasury
			counterpartyName = null.StringFrom(draft.Recipient.Descriptor())
		}
	}

	return &entities.TransferRecord{
		ID:               uuid.New(),
		RequestID:        draft.RequestID,
		TxHash:           null.StringFrom(draft.TxHash),
		WalletAddress:    draft.Owner,
		Direction:        entities.DirectionSent,
		Counterparty:     counterparty,
		CounterpartyName: counterpartyName,
		RecipientKind:    kind,
		Amount:           draft.SourceAmount,
		Currency:         draft.SourceCurrency,
		DestAmount:       null.StringFrom(draft.Quote.NetAmount),
		DestCurrency:     draft.DestCurrency,
		Fee:              null.StringFrom(draft.Quote.TotalFee.StringFixed(2)),
		Status:           entities.TransferPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
