package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"remittease.backend/internal/domain/entities"
	"remittease.backend/internal/infrastructure/blockchain"
	redispkg "remittease.backend/pkg/redis"
)

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.UserProfile) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByWallet(ctx context.Context, walletAddress string) (*entities.UserProfile, error) {
	args := m.Called(ctx, walletAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserProfile), args.Error(1)
}

func (m *MockUserRepository) GetOrCreate(ctx context.Context, user *entities.UserProfile) (*entities.UserProfile, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		if args.Error(1) == nil {
			// Return(nil, nil) echoes the input: the store created it as given.
			return user, nil
		}
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserProfile), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entities.UserProfile) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) TouchLogin(ctx context.Context, walletAddress string) error {
	return m.Called(ctx, walletAddress).Error(0)
}

// Mock TransferRepository
type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) Create(ctx context.Context, transfer *entities.TransferRecord) error {
	return m.Called(ctx, transfer).Error(0)
}

func (m *MockTransferRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.TransferRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TransferRecord), args.Error(1)
}

func (m *MockTransferRepository) GetByRequestID(ctx context.Context, requestID string) (*entities.TransferRecord, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TransferRecord), args.Error(1)
}

func (m *MockTransferRepository) GetByTxHash(ctx context.Context, txHash string) (*entities.TransferRecord, error) {
	args := m.Called(ctx, txHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TransferRecord), args.Error(1)
}

func (m *MockTransferRepository) ListByWallet(ctx context.Context, walletAddress string, limit, offset int) ([]*entities.TransferRecord, int, error) {
	args := m.Called(ctx, walletAddress, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entities.TransferRecord), args.Int(1), args.Error(2)
}

func (m *MockTransferRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TransferStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

// Mock SessionStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) CreateSession(ctx context.Context, sessionID string, data *redispkg.SessionData, expiration time.Duration) error {
	return m.Called(ctx, sessionID, data, expiration).Error(0)
}

func (m *MockSessionStore) GetSession(ctx context.Context, sessionID string) (*redispkg.SessionData, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redispkg.SessionData), args.Error(1)
}

func (m *MockSessionStore) UpdateSession(ctx context.Context, sessionID string, data *redispkg.SessionData, expiration time.Duration) error {
	return m.Called(ctx, sessionID, data, expiration).Error(0)
}

func (m *MockSessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

// Mock DraftStore
type MockDraftStore struct {
	mock.Mock
}

func (m *MockDraftStore) Save(ctx context.Context, draftID string, draft interface{}) error {
	return m.Called(ctx, draftID, draft).Error(0)
}

func (m *MockDraftStore) Load(ctx context.Context, draftID string, out interface{}) error {
	return m.Called(ctx, draftID, out).Error(0)
}

func (m *MockDraftStore) Delete(ctx context.Context, draftID string) error {
	return m.Called(ctx, draftID).Error(0)
}

// Mock ChainGateway
type MockChainGateway struct {
	mock.Mock
}

func (m *MockChainGateway) EstimateTransferFee(ctx context.Context, from, to, value string) (*blockchain.FeeEstimate, error) {
	args := m.Called(ctx, from, to, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blockchain.FeeEstimate), args.Error(1)
}

func (m *MockChainGateway) SendTransfer(ctx context.Context, from, to, value, secret string) (string, error) {
	args := m.Called(ctx, from, to, value, secret)
	return args.String(0), args.Error(1)
}

// Mock HistoryProvider (also covers BalanceProvider)
type MockHistoryProvider struct {
	mock.Mock
}

func (m *MockHistoryProvider) TransferHistory(ctx context.Context, address string, direction entities.TransferDirection) ([]blockchain.ChainTransfer, error) {
	args := m.Called(ctx, address, direction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]blockchain.ChainTransfer), args.Error(1)
}

func (m *MockHistoryProvider) GetTransactionDetail(ctx context.Context, txHash string) (*blockchain.TransactionDetail, error) {
	args := m.Called(ctx, txHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blockchain.TransactionDetail), args.Error(1)
}

func (m *MockHistoryProvider) GetBalance(ctx context.Context, address string) (string, error) {
	args := m.Called(ctx, address)
	return args.String(0), args.Error(1)
}
