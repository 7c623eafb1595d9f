// internal/services/main_test.go
package services

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/opencatalog/catalog-backend/internal/models"
)

// setupTestDB opens a fresh in-memory sqlite database per test. The database
// is named after the test so parallel suites never share state, and
// cache=shared keeps it alive across gorm's pooled connections.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.AdminUser{},
		&models.Category{},
		&models.Product{},
		&models.Notification{},
	))

	return db
}

type notifyEvent struct {
	Title     string
	Message   string
	Severity  models.NotificationSeverity
	ProductID *uuid.UUID
}

// recordingNotifier captures emitted alerts for assertions.
type recordingNotifier struct {
	mtx    sync.Mutex
	events []notifyEvent
	err    error
}

func (n *recordingNotifier) Notify(title, message string, severity models.NotificationSeverity, productID *uuid.UUID) error {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, notifyEvent{
		Title:     title,
		Message:   message,
		Severity:  severity,
		ProductID: productID,
	})
	return nil
}

func (n *recordingNotifier) Events() []notifyEvent {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	out := make([]notifyEvent, len(n.events))
	copy(out, n.events)
	return out
}
