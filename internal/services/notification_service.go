// internal/services/notification_service.go
package services

import (
	"errors"
	"fmt"
	"net/smtp"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/opencatalog/catalog-backend/internal/config"
	"github.com/opencatalog/catalog-backend/internal/models"
	"github.com/opencatalog/catalog-backend/internal/utils"
)

// NotificationService persists admin notifications and optionally fans them
// out over email. It implements the Notifier capability the catalog service
// depends on.
type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

// Notify stores the notification synchronously so the admin feed is
// consistent with the write that triggered it. Email delivery happens in the
// background; a delivery failure is only logged.
func (s *NotificationService) Notify(title, message string, severity models.NotificationSeverity, productID *uuid.UUID) error {
	notification := &models.Notification{
		Type:      "stock_alert",
		Title:     title,
		Message:   message,
		Severity:  severity,
		Status:    models.NotificationStatusUnread,
		ProductID: productID,
	}

	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if s.config != nil && s.config.Email.AlertEmail != "" {
		go func() {
			if err := s.sendEmail(s.config.Email.AlertEmail, title, message); err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{
					"notification_id": notification.ID,
					"to":              s.config.Email.AlertEmail,
				}).Error("Failed to send alert email")
			}
		}()
	}

	return nil
}

func (s *NotificationService) GetNotification(id uuid.UUID) (*models.Notification, error) {
	var notification models.Notification
	if err := s.db.First(&notification, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &notification, nil
}

func (s *NotificationService) ListNotifications(params utils.PaginationParams, unreadOnly bool) ([]models.Notification, int64, error) {
	query := s.db.Model(&models.Notification{})

	if unreadOnly {
		query = query.Where("status = ?", models.NotificationStatusUnread)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	allowedSortFields := []string{"created_at", "severity"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var notifications []models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	return notifications, total, nil
}

func (s *NotificationService) MarkRead(id uuid.UUID) (*models.Notification, error) {
	notification, err := s.GetNotification(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":  models.NotificationStatusRead,
		"read_at": &now,
	}
	if err := s.db.Model(notification).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}

	return notification, nil
}

// Helper methods
func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		// Email not configured, just log
		logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("Email delivery skipped (SMTP not configured)")
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\n\r\n%s", to, subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}
