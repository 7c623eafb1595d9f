// internal/handlers/product_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/opencatalog/catalog-backend/internal/config"
	"github.com/opencatalog/catalog-backend/internal/models"
	"github.com/opencatalog/catalog-backend/internal/services"
)

type ProductHandlerSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func (s *ProductHandlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(s.T().Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)
	s.Require().NoError(db.AutoMigrate(
		&models.AdminUser{},
		&models.Category{},
		&models.Product{},
		&models.Notification{},
	))
	s.db = db

	notificationService := services.NewNotificationService(db, &config.Config{})
	catalogService := services.NewCatalogService(db, notificationService, services.LowStockThreshold)
	handler := NewProductHandler(catalogService, nil)

	router := gin.New()
	v1 := router.Group("/v1")
	{
		v1.GET("/products", handler.GetProducts)
		v1.POST("/products", handler.CreateProduct)
		v1.GET("/products/:id", handler.GetProduct)
		v1.PUT("/products/:id", handler.UpdateProduct)
		v1.DELETE("/products/:id", handler.DeleteProduct)
	}
	s.router = router
}

func (s *ProductHandlerSuite) request(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, req)
	return recorder
}

func (s *ProductHandlerSuite) decode(recorder *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	s.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func (s *ProductHandlerSuite) createProduct(name, sku string, stock int) uuid.UUID {
	recorder := s.request(http.MethodPost, "/v1/products", gin.H{
		"name":  name,
		"sku":   sku,
		"stock": stock,
	})
	s.Require().Equal(http.StatusCreated, recorder.Code, recorder.Body.String())

	body := s.decode(recorder)
	product := body["data"].(map[string]interface{})["product"].(map[string]interface{})
	id, err := uuid.Parse(product["id"].(string))
	s.Require().NoError(err)
	return id
}

func (s *ProductHandlerSuite) TestCreateProduct() {
	recorder := s.request(http.MethodPost, "/v1/products", gin.H{
		"name":  "Blue Mug",
		"sku":   "MUG-001",
		"price": "19.99",
		"stock": 10,
	})
	s.Require().Equal(http.StatusCreated, recorder.Code, recorder.Body.String())

	body := s.decode(recorder)
	s.Equal(true, body["success"])
	product := body["data"].(map[string]interface{})["product"].(map[string]interface{})
	s.Equal("Blue Mug", product["name"])
	s.Equal("MUG-001", product["sku"])
	s.Equal("active", product["status"])
}

func (s *ProductHandlerSuite) TestCreateDuplicateReturnsConflict() {
	s.createProduct("Blue Mug", "MUG-001", 10)

	recorder := s.request(http.MethodPost, "/v1/products", gin.H{
		"name": "Blue Mug",
		"sku":  "MUG-002",
	})
	s.Require().Equal(http.StatusConflict, recorder.Code)

	body := s.decode(recorder)
	s.Equal(false, body["success"])
	apiErr := body["error"].(map[string]interface{})
	s.Equal("CONFLICT", apiErr["code"])
	details := apiErr["details"].(map[string]interface{})
	s.Equal("name", details["field"])
}

func (s *ProductHandlerSuite) TestCreateValidationError() {
	recorder := s.request(http.MethodPost, "/v1/products", gin.H{
		"name":  "Blue Mug",
		"sku":   "MUG-001",
		"stock": -3,
	})
	s.Require().Equal(http.StatusBadRequest, recorder.Code)

	body := s.decode(recorder)
	apiErr := body["error"].(map[string]interface{})
	s.Equal("VALIDATION_ERROR", apiErr["code"])
}

func (s *ProductHandlerSuite) TestGetUnknownProduct() {
	recorder := s.request(http.MethodGet, "/v1/products/"+uuid.NewString(), nil)
	s.Require().Equal(http.StatusNotFound, recorder.Code)

	body := s.decode(recorder)
	apiErr := body["error"].(map[string]interface{})
	s.Equal("NOT_FOUND", apiErr["code"])
}

func (s *ProductHandlerSuite) TestGetProductInvalidID() {
	recorder := s.request(http.MethodGet, "/v1/products/not-a-uuid", nil)
	s.Require().Equal(http.StatusBadRequest, recorder.Code)
}

func (s *ProductHandlerSuite) TestUpdateStockPersistsLowStockNotification() {
	id := s.createProduct("Blue Mug", "MUG-001", 10)

	recorder := s.request(http.MethodPut, "/v1/products/"+id.String(), gin.H{
		"stock": 3,
	})
	s.Require().Equal(http.StatusOK, recorder.Code, recorder.Body.String())

	var notifications []models.Notification
	s.Require().NoError(s.db.Find(&notifications).Error)
	s.Require().Len(notifications, 1)
	s.Equal("Low Stock", notifications[0].Title)
	s.Equal(models.SeverityDanger, notifications[0].Severity)
	s.Require().NotNil(notifications[0].ProductID)
	s.Equal(id, *notifications[0].ProductID)
}

func (s *ProductHandlerSuite) TestDeleteProduct() {
	id := s.createProduct("Blue Mug", "MUG-001", 10)

	recorder := s.request(http.MethodDelete, "/v1/products/"+id.String(), nil)
	s.Require().Equal(http.StatusOK, recorder.Code)

	recorder = s.request(http.MethodGet, "/v1/products/"+id.String(), nil)
	s.Require().Equal(http.StatusNotFound, recorder.Code)
}

func (s *ProductHandlerSuite) TestListFiltersLowStock() {
	s.createProduct("Blue Mug", "MUG-001", 2)
	s.createProduct("Red Mug", "MUG-002", 20)

	recorder := s.request(http.MethodGet, "/v1/products?low_stock=true", nil)
	s.Require().Equal(http.StatusOK, recorder.Code)

	body := s.decode(recorder)
	data := body["data"].([]interface{})
	s.Require().Len(data, 1)
	s.Equal("Blue Mug", data[0].(map[string]interface{})["name"])
}

func TestProductHandlerSuite(t *testing.T) {
	suite.Run(t, new(ProductHandlerSuite))
}
