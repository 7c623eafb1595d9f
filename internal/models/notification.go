// internal/models/notification.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a persisted entry for the admin panel's notification feed.
type Notification struct {
	BaseModel
	Type      string               `json:"type" gorm:"type:varchar(50);not null;index"`
	Title     string               `json:"title" gorm:"size:255;not null"`
	Message   string               `json:"message" gorm:"type:text;not null"`
	Severity  NotificationSeverity `json:"severity" gorm:"type:varchar(20);default:'info';index"`
	Status    NotificationStatus   `json:"status" gorm:"type:varchar(20);default:'unread';index"`
	ProductID *uuid.UUID           `json:"product_id,omitempty" gorm:"type:uuid"`
	ReadAt    *time.Time           `json:"read_at"`
}
