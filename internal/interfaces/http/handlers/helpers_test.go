package handlers

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"remittease.backend/internal/domain/entities"
	domainerrors "remittease.backend/internal/domain/errors"
	"remittease.backend/internal/infrastructure/blockchain"
	"remittease.backend/internal/usecases"
	redispkg "remittease.backend/pkg/redis"
)

// In-memory stand-ins for the Redis/Postgres/RPC backed components,
// mirroring their error contracts.

type userRepoStub struct {
	mu    sync.Mutex
	users map[string]*entities.UserProfile
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{users: map[string]*entities.UserProfile{}}
}

func (s *userRepoStub) Create(_ context.Context, user *entities.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := entities.NormalizeAddress(user.WalletAddress)
	if _, ok := s.users[key]; ok {
		return domainerrors.ErrAlreadyExists
	}
	cpy := *user
	s.users[key] = &cpy
	return nil
}

func (s *userRepoStub) GetByWallet(_ context.Context, walletAddress string) (*entities.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[entities.NormalizeAddress(walletAddress)]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	cpy := *user
	return &cpy, nil
}

func (s *userRepoStub) GetOrCreate(ctx context.Context, user *entities.UserProfile) (*entities.UserProfile, error) {
	if existing, err := s.GetByWallet(ctx, user.WalletAddress); err == nil {
		return existing, nil
	}
	if err := s.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userRepoStub) Update(_ context.Context, user *entities.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := entities.NormalizeAddress(user.WalletAddress)
	if _, ok := s.users[key]; !ok {
		return domainerrors.ErrNotFound
	}
	cpy := *user
	s.users[key] = &cpy
	return nil
}

func (s *userRepoStub) TouchLogin(_ context.Context, walletAddress string) error {
	return nil
}

type transferRepoStub struct {
	mu      sync.Mutex
	records []*entities.TransferRecord
}

func (s *transferRepoStub) Create(_ context.Context, record *entities.TransferRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.RequestID == record.RequestID {
			return domainerrors.ErrAlreadyExists
		}
	}
	cpy := *record
	s.records = append(s.records, &cpy)
	return nil
}

func (s *transferRepoStub) GetByID(_ context.Context, id uuid.UUID) (*entities.TransferRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == id {
			cpy := *r
			return &cpy, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (s *transferRepoStub) GetByRequestID(_ context.Context, requestID string) (*entities.TransferRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.RequestID == requestID {
			cpy := *r
			return &cpy, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (s *transferRepoStub) GetByTxHash(_ context.Context, txHash string) (*entities.TransferRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.TxHash.String == txHash {
			cpy := *r
			return &cpy, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (s *transferRepoStub) ListByWallet(_ context.Context, walletAddress string, limit, offset int) ([]*entities.TransferRecord, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner := entities.NormalizeAddress(walletAddress)
	var matched []*entities.TransferRecord
	for _, r := range s.records {
		if r.WalletAddress == owner {
			cpy := *r
			matched = append(matched, &cpy)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := len(matched)
	if offset >= len(matched) {
		return []*entities.TransferRecord{}, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (s *transferRepoStub) UpdateStatus(_ context.Context, id uuid.UUID, status entities.TransferStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == id {
			r.Status = status
			return nil
		}
	}
	return domainerrors.ErrNotFound
}

type draftStoreStub struct {
	mu     sync.Mutex
	drafts map[string][]byte
}

func newDraftStoreStub() *draftStoreStub {
	return &draftStoreStub{drafts: map[string][]byte{}}
}

func (s *draftStoreStub) Save(_ context.Context, draftID string, draft interface{}) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[draftID] = data
	return nil
}

func (s *draftStoreStub) Load(_ context.Context, draftID string, out interface{}) error {
	s.mu.Lock()
	data, ok := s.drafts[draftID]
	s.mu.Unlock()
	if !ok {
		return redispkg.ErrDraftNotFound
	}
	return json.Unmarshal(data, out)
}

func (s *draftStoreStub) Delete(_ context.Context, draftID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, draftID)
	return nil
}

// chainStub covers the gateway, balance and history surfaces at once.
type chainStub struct {
	balance     string
	balanceErr  error
	estimate    *blockchain.FeeEstimate
	estimateErr error
	sendHash    string
	sendErr     error
	sendCalls   int
	detail      *blockchain.TransactionDetail
	detailErr   error
	history     map[entities.TransferDirection][]blockchain.ChainTransfer
	historyErr  error
}

func newChainStub() *chainStub {
	return &chainStub{
		balance:  "1.5",
		estimate: &blockchain.FeeEstimate{GasLimit: 21000, GasPrice: "2", EstimatedFee: "0.000042"},
		sendHash: "0xdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef",
		history:  map[entities.TransferDirection][]blockchain.ChainTransfer{},
	}
}

func (s *chainStub) GetBalance(context.Context, string) (string, error) {
	return s.balance, s.balanceErr
}

func (s *chainStub) EstimateTransferFee(context.Context, string, string, string) (*blockchain.FeeEstimate, error) {
	return s.estimate, s.estimateErr
}

func (s *chainStub) SendTransfer(context.Context, string, string, string, string) (string, error) {
	s.sendCalls++
	return s.sendHash, s.sendErr
}

func (s *chainStub) GetTransactionDetail(context.Context, string) (*blockchain.TransactionDetail, error) {
	return s.detail, s.detailErr
}

func (s *chainStub) TransferHistory(_ context.Context, _ string, direction entities.TransferDirection) ([]blockchain.ChainTransfer, error) {
	if s.historyErr != nil {
		return nil, s.historyErr
	}
	return s.history[direction], nil
}

type sessionStoreStub struct {
	mu       sync.Mutex
	sessions map[string]*redispkg.SessionData
}

func newSessionStoreStub() *sessionStoreStub {
	return &sessionStoreStub{sessions: map[string]*redispkg.SessionData{}}
}

func (s *sessionStoreStub) CreateSession(_ context.Context, sessionID string, data *redispkg.SessionData, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = data
	return nil
}

func (s *sessionStoreStub) GetSession(_ context.Context, sessionID string) (*redispkg.SessionData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.sessions[sessionID]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return data, nil
}

func (s *sessionStoreStub) UpdateSession(_ context.Context, sessionID string, data *redispkg.SessionData, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = data
	return nil
}

func (s *sessionStoreStub) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func testRateTable() *entities.RateTable {
	return &entities.RateTable{
		Rates: map[string]decimal.Decimal{
			"USD": decimal.NewFromInt(1),
			"ZAR": decimal.RequireFromString("18.5"),
			"NGN": decimal.RequireFromString("1600"),
		},
		Timestamp: time.Now().UTC(),
	}
}

func newQuoteUsecase(t *testing.T) *usecases.QuoteUsecase {
	t.Helper()
	uc, err := usecases.NewQuoteUsecase(testRateTable(), usecases.DefaultNetworkFeeRate, usecases.DefaultServiceFeeRate)
	require.NoError(t, err)
	return uc
}
