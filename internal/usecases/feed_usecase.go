package usecases

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"remittease.backend/internal/domain/entities"
	domainerrors "remittease.backend/internal/domain/errors"
	"remittease.backend/internal/domain/repositories"
	"remittease.backend/internal/infrastructure/blockchain"
)

// HistoryProvider reads transfer activity and balances from the chain.
type HistoryProvider interface {
	TransferHistory(ctx context.Context, address string, direction entities.TransferDirection) ([]blockchain.ChainTransfer, error)
	GetTransactionDetail(ctx context.Context, txHash string) (*blockchain.TransactionDetail, error)
	GetBalance(ctx context.Context, address string) (string, error)
}

// FeedResult is a page of the wallet's transaction feed. ProviderDegraded
// marks a chain outage: the page then holds persisted records only.
type FeedResult struct {
	Items            []*entities.TransferRecord `json:"items"`
	Total            int                        `json:"total"`
	ProviderDegraded bool                       `json:"providerDegraded"`
}

// TransactionDetail is a persisted record (when one exists) enriched with
// its on-chain execution data.
type TransactionDetail struct {
	Record *entities.TransferRecord      `json:"record,omitempty"`
	Chain  *blockchain.TransactionDetail `json:"chain"`
}

// FeedUsecase assembles the transaction feed from persisted records and
// recent on-chain history.
type FeedUsecase struct {
	transferRepo repositories.TransferRepository
	provider     HistoryProvider
}

// NewFeedUsecase creates a new feed usecase
func NewFeedUsecase(transferRepo repositories.TransferRepository, provider HistoryProvider) *FeedUsecase {
	return &FeedUsecase{transferRepo: transferRepo, provider: provider}
}

// Feed returns the wallet's transfers, most recent first with ties broken
// by transaction hash. The sent and received chain scans run concurrently;
// chain transfers the store has no record of are merged in. A provider
// outage degrades to the persisted records instead of failing the page.
func (u *FeedUsecase) Feed(ctx context.Context, address string, limit, offset int) (*FeedResult, error) {
	owner := entities.NormalizeAddress(address)

	records, total, err := u.transferRepo.ListByWallet(ctx, owner, limit, offset)
	if err != nil {
		return nil, err
	}

	directions := []entities.TransferDirection{entities.DirectionSent, entities.DirectionReceived}
	histories := make([][]blockchain.ChainTransfer, len(directions))
	errs := make([]error, len(directions))

	var wg sync.WaitGroup
	for i, direction := range directions {
		wg.Add(1)
		go func(i int, direction entities.TransferDirection) {
			defer wg.Done()
			histories[i], errs[i] = u.provider.TransferHistory(ctx, owner, direction)
		}(i, direction)
	}
	wg.Wait()

	result := &FeedResult{Items: records, Total: total}
	for _, err := range errs {
		if err != nil {
			result.ProviderDegraded = true
		}
	}
	if result.ProviderDegraded {
		sortFeed(result.Items)
		return result, nil
	}

	known := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r.TxHash.Valid {
			known[r.TxHash.String] = struct{}{}
		}
	}
	for _, history := range histories {
		for _, ct := range history {
			if _, ok := known[ct.TxHash]; ok {
				continue
			}
			known[ct.TxHash] = struct{}{}
			result.Items = append(result.Items, chainTransferRecord(owner, ct))
			result.Total++
		}
	}

	sortFeed(result.Items)
	// Merging can overfill the page; Total still counts what was merged.
	if limit > 0 && len(result.Items) > limit {
		result.Items = result.Items[:limit]
	}
	return result, nil
}

// TransactionByHash returns one transfer enriched from the chain. The
// persisted record is optional; the chain detail is not.
func (u *FeedUsecase) TransactionByHash(ctx context.Context, txHash string) (*TransactionDetail, error) {
	record, err := u.transferRepo.GetByTxHash(ctx, txHash)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	chain, err := u.provider.GetTransactionDetail(ctx, txHash)
	if err != nil {
		if record != nil {
			return &TransactionDetail{Record: record}, nil
		}
		return nil, domainerrors.NotFound("transaction not found")
	}

	return &TransactionDetail{Record: record, Chain: chain}, nil
}

// Balance reads the wallet's formatted native balance.
func (u *FeedUsecase) Balance(ctx context.Context, address string) (string, error) {
	balance, err := u.provider.GetBalance(ctx, address)
	if err != nil {
		return "", domainerrors.ProviderUnavailable("balance unavailable")
	}
	return balance, nil
}

func sortFeed(items []*entities.TransferRecord) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].TxHash.String < items[j].TxHash.String
	})
}

func chainTransferRecord(owner string, ct blockchain.ChainTransfer) *entities.TransferRecord {
	counterparty := ct.To
	if ct.Direction == entities.DirectionReceived {
		counterparty = ct.From
	}
	return &entities.TransferRecord{
		ID:            uuid.New(),
		TxHash:        null.StringFrom(ct.TxHash),
		WalletAddress: owner,
		Direction:     ct.Direction,
		Counterparty:  counterparty,
		RecipientKind: entities.RecipientWallet,
		Amount:        ct.Value,
		Currency:      NativeCurrency,
		Status:        entities.TransferCompleted,
		CreatedAt:     ct.Timestamp,
		UpdatedAt:     ct.Timestamp,
		CompletedAt:   null.TimeFrom(ct.Timestamp),
	}
}
