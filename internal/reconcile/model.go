// File: internal/reconcile/model.go
package reconcile

import (
	"time"

	"gamehub_backend/internal/common"
	"gamehub_backend/internal/domain"
)

// Status is the lifecycle state of a ledger entry.
type Status string

const (
	StatusPending   Status = "pending"
	StatusResolved  Status = "resolved"
	StatusAbandoned Status = "abandoned"
)

// Entry is one identity whose follow-up write did not land.
type Entry struct {
	common.BaseModel
	UID          string                   `gorm:"column:uid;type:varchar(128);not null;index"`
	Email        string                   `gorm:"type:varchar(255);not null"`
	Step         domain.InconsistencyStep `gorm:"type:varchar(32);not null"`
	Status       Status                   `gorm:"type:varchar(16);not null;default:'pending';index"`
	Attempts     int                      `gorm:"not null;default:0"`
	LastError    string                   `gorm:"type:text"`
	DisplayName  string                   `gorm:"type:varchar(255)"`
	DocumentJSON string                   `gorm:"column:document_json;type:text"`
	ResolvedAt   *time.Time
}

// TableName specifies the table name for GORM.
func (Entry) TableName() string {
	return "provisioning_inconsistencies"
}
