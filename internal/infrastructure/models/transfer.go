package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Transfer struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	RequestID        string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	TxHash           *string   `gorm:"type:varchar(255);index"`
	WalletAddress    string    `gorm:"type:varchar(255);not null;index"`
	Direction        string    `gorm:"type:varchar(20);not null"`
	Counterparty     string    `gorm:"type:varchar(255);not null"`
	CounterpartyName *string   `gorm:"type:varchar(255)"`
	RecipientKind    string    `gorm:"type:varchar(50)"`
	Amount           string    `gorm:"type:varchar(100);not null"` // decimal string
	Currency         string    `gorm:"type:varchar(10);not null"`
	DestAmount       *string   `gorm:"type:varchar(100)"` // decimal string, nullable
	DestCurrency     string    `gorm:"type:varchar(10)"`
	Fee              *string   `gorm:"type:varchar(100)"`
	Status           string    `gorm:"type:varchar(50);not null;index"`
	CompletedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}
