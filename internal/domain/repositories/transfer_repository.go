package repositories

import (
	"context"

	"github.com/google/uuid"
	"remittease.backend/internal/domain/entities"
)

// TransferRepository defines transfer record data operations
type TransferRepository interface {
	Create(ctx context.Context, transfer *entities.TransferRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.TransferRecord, error)
	GetByRequestID(ctx context.Context, requestID string) (*entities.TransferRecord, error)
	GetByTxHash(ctx context.Context, txHash string) (*entities.TransferRecord, error)
	ListByWallet(ctx context.Context, walletAddress string, limit, offset int) ([]*entities.TransferRecord, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TransferStatus) error
}
