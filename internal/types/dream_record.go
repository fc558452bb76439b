package types

import (
	"time"

	"github.com/google/uuid"
)

// DreamRecord is one stored interpretation. UserID is a free-form string so
// anonymous requests can be recorded without a registered account.
type DreamRecord struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          string    `gorm:"index;not null;column:user_id" json:"user_id"`
	DreamText       string    `gorm:"not null;column:dream_text" json:"dream_text"`
	Interpretations string    `gorm:"not null;column:interpretations" json:"-"`
	ModelUsed       string    `gorm:"column:model_used" json:"model_used"`
	CreatedAt       time.Time `gorm:"index;not null" json:"created_at"`
}

func (DreamRecord) TableName() string {
	return "dream_record"
}
