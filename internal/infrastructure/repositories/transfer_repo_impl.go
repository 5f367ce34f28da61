package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"remittease.backend/internal/domain/entities"
	domainerrors "remittease.backend/internal/domain/errors"
	"remittease.backend/internal/infrastructure/models"
)

// TransferRepository implements transfer record data operations
type TransferRepository struct {
	db *gorm.DB
}

// NewTransferRepository creates a new transfer repository
func NewTransferRepository(db *gorm.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

// Create creates a new transfer record
func (r *TransferRepository) Create(ctx context.Context, transfer *entities.TransferRecord) error {
	m := &models.Transfer{
		ID:               transfer.ID,
		RequestID:        transfer.RequestID,
		TxHash:           transfer.TxHash.Ptr(),
		WalletAddress:    entities.NormalizeAddress(transfer.WalletAddress),
		Direction:        string(transfer.Direction),
		Counterparty:     transfer.Counterparty,
		CounterpartyName: transfer.CounterpartyName.Ptr(),
		RecipientKind:    string(transfer.RecipientKind),
		Amount:           transfer.Amount,
		Currency:         transfer.Currency,
		DestAmount:       transfer.DestAmount.Ptr(),
		DestCurrency:     transfer.DestCurrency,
		Fee:              transfer.Fee.Ptr(),
		Status:           string(transfer.Status),
		CreatedAt:        transfer.CreatedAt,
		UpdatedAt:        transfer.UpdatedAt,
	}
	if transfer.CompletedAt.Valid {
		m.CompletedAt = &transfer.CompletedAt.Time
	}

	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	transfer.ID = m.ID
	return nil
}

// GetByID gets a transfer by ID
func (r *TransferRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.TransferRecord, error) {
	var m models.Transfer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByRequestID gets a transfer by its client request id. Used for
// idempotent replay of a retried submission.
func (r *TransferRepository) GetByRequestID(ctx context.Context, requestID string) (*entities.TransferRecord, error) {
	var m models.Transfer
	if err := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByTxHash gets a transfer by its transaction hash
func (r *TransferRepository) GetByTxHash(ctx context.Context, txHash string) (*entities.TransferRecord, error) {
	var m models.Transfer
	if err := r.db.WithContext(ctx).Where("tx_hash = ?", txHash).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// ListByWallet gets transfers owned by a wallet with pagination, newest first
func (r *TransferRepository) ListByWallet(ctx context.Context, walletAddress string, limit, offset int) ([]*entities.TransferRecord, int, error) {
	wallet := entities.NormalizeAddress(walletAddress)

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Transfer{}).
		Where("wallet_address = ?", wallet).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Transfer
	if err := r.db.WithContext(ctx).
		Where("wallet_address = ?", wallet).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	var transfers []*entities.TransferRecord
	for _, m := range ms {
		model := m
		transfers = append(transfers, r.toEntity(&model))
	}
	return transfers, int(total), nil
}

// UpdateStatus moves a transfer forward in its lifecycle. Illegal
// transitions (reopening a terminal record) are rejected.
func (r *TransferRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TransferStatus) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !current.Status.CanTransitionTo(status) {
		return domainerrors.ErrInvalidStateChange
	}

	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if status == entities.TransferCompleted {
		updates["completed_at"] = time.Now()
	}

	result := r.db.WithContext(ctx).Model(&models.Transfer{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *TransferRepository) toEntity(m *models.Transfer) *entities.TransferRecord {
	t := &entities.TransferRecord{
		ID:               m.ID,
		RequestID:        m.RequestID,
		TxHash:           null.StringFromPtr(m.TxHash),
		WalletAddress:    m.WalletAddress,
		Direction:        entities.TransferDirection(m.Direction),
		Counterparty:     m.Counterparty,
		CounterpartyName: null.StringFromPtr(m.CounterpartyName),
		RecipientKind:    entities.RecipientKind(m.RecipientKind),
		Amount:           m.Amount,
		Currency:         m.Currency,
		DestAmount:       null.StringFromPtr(m.DestAmount),
		DestCurrency:     m.DestCurrency,
		Fee:              null.StringFromPtr(m.Fee),
		Status:           entities.TransferStatus(m.Status),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		CompletedAt:      null.TimeFromPtr(m.CompletedAt),
	}
	return t
}
