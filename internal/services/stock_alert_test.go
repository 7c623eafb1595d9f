// internal/services/stock_alert_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opencatalog/catalog-backend/internal/models"
)

func TestEvaluateStockAlert(t *testing.T) {
	tests := []struct {
		name      string
		stock     int
		threshold int
		fires     bool
	}{
		{"well below threshold", 0, 5, true},
		{"just below threshold", 4, 5, true},
		{"at threshold", 5, 5, false},
		{"above threshold", 10, 5, false},
		{"custom threshold", 7, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert, ok := EvaluateStockAlert("Widget", tt.stock, tt.threshold)
			assert.Equal(t, tt.fires, ok)
			if tt.fires {
				assert.Equal(t, "Low Stock", alert.Title)
				assert.Contains(t, alert.Message, "Widget")
				assert.Equal(t, models.SeverityDanger, alert.Severity)
			}
		})
	}
}

func TestEvaluateStockAlertMessage(t *testing.T) {
	alert, ok := EvaluateStockAlert("Blue Mug", 3, 5)
	assert.True(t, ok)
	assert.Equal(t, "Product 'Blue Mug' has fewer than 5 units available.", alert.Message)
}

func TestEvaluateStockAlertRepeats(t *testing.T) {
	// The rule is stateless: evaluating the same low value twice fires twice.
	_, first := EvaluateStockAlert("Widget", 2, 5)
	_, second := EvaluateStockAlert("Widget", 2, 5)
	assert.True(t, first)
	assert.True(t, second)
}
