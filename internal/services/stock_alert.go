// internal/services/stock_alert.go
package services

import (
	"fmt"

	"github.com/opencatalog/catalog-backend/internal/models"
)

// LowStockThreshold is the stock level below which an alert is raised.
const LowStockThreshold = 5

// StockAlert is the notification payload produced when a product's stock
// falls below the threshold.
type StockAlert struct {
	Title    string
	Message  string
	Severity models.NotificationSeverity
}

// EvaluateStockAlert applies the low-stock rule to a product's new stock
// value. It returns the alert to emit and true when stock is strictly below
// the threshold. The rule is stateless: it fires on every qualifying update,
// including repeated updates that leave stock below the threshold.
func EvaluateStockAlert(productName string, stock, threshold int) (StockAlert, bool) {
	if stock >= threshold {
		return StockAlert{}, false
	}

	return StockAlert{
		Title:    "Low Stock",
		Message:  fmt.Sprintf("Product '%s' has fewer than %d units available.", productName, threshold),
		Severity: models.SeverityDanger,
	}, true
}
