// internal/services/notification_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/opencatalog/catalog-backend/internal/config"
	"github.com/opencatalog/catalog-backend/internal/models"
	"github.com/opencatalog/catalog-backend/internal/utils"
)

type NotificationServiceSuite struct {
	suite.Suite
	db      *gorm.DB
	service *NotificationService
}

func (s *NotificationServiceSuite) SetupTest() {
	s.db = setupTestDB(s.T())
	// AlertEmail left empty so no delivery goroutine runs during tests.
	s.service = NewNotificationService(s.db, &config.Config{})
}

func (s *NotificationServiceSuite) TestNotifyPersistsUnreadRow() {
	productID := uuid.New()
	err := s.service.Notify("Low Stock", "Product 'Blue Mug' has fewer than 5 units available.", models.SeverityDanger, &productID)
	s.Require().NoError(err)

	var notification models.Notification
	s.Require().NoError(s.db.First(&notification).Error)
	s.Equal("stock_alert", notification.Type)
	s.Equal("Low Stock", notification.Title)
	s.Equal("Product 'Blue Mug' has fewer than 5 units available.", notification.Message)
	s.Equal(models.SeverityDanger, notification.Severity)
	s.Equal(models.NotificationStatusUnread, notification.Status)
	s.Require().NotNil(notification.ProductID)
	s.Equal(productID, *notification.ProductID)
	s.Nil(notification.ReadAt)
}

func (s *NotificationServiceSuite) TestMarkRead() {
	s.Require().NoError(s.service.Notify("Low Stock", "msg", models.SeverityDanger, nil))

	var notification models.Notification
	s.Require().NoError(s.db.First(&notification).Error)

	marked, err := s.service.MarkRead(notification.ID)
	s.Require().NoError(err)

	reloaded, err := s.service.GetNotification(marked.ID)
	s.Require().NoError(err)
	s.Equal(models.NotificationStatusRead, reloaded.Status)
	s.Require().NotNil(reloaded.ReadAt)
}

func (s *NotificationServiceSuite) TestMarkReadUnknownID() {
	_, err := s.service.MarkRead(uuid.New())
	s.Require().ErrorIs(err, ErrNotificationNotFound)
}

func (s *NotificationServiceSuite) TestListUnreadOnly() {
	s.Require().NoError(s.service.Notify("First", "msg", models.SeverityWarning, nil))
	s.Require().NoError(s.service.Notify("Second", "msg", models.SeverityDanger, nil))

	var first models.Notification
	s.Require().NoError(s.db.Where("title = ?", "First").First(&first).Error)
	_, err := s.service.MarkRead(first.ID)
	s.Require().NoError(err)

	params := utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}

	all, total, err := s.service.ListNotifications(params, false)
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Len(all, 2)

	unread, total, err := s.service.ListNotifications(params, true)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(unread, 1)
	s.Equal("Second", unread[0].Title)
}

func TestNotificationServiceSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceSuite))
}
