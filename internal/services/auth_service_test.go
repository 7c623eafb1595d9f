// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/opencatalog/catalog-backend/internal/config"
	"github.com/opencatalog/catalog-backend/internal/models"
	"github.com/opencatalog/catalog-backend/internal/utils"
)

type AuthServiceSuite struct {
	suite.Suite
	db      *gorm.DB
	service *AuthService
}

func (s *AuthServiceSuite) SetupTest() {
	s.db = setupTestDB(s.T())
	s.service = NewAuthService(s.db, &config.Config{
		JWT: config.JWTConfig{AccessTokenTTL: 24},
	})
}

func (s *AuthServiceSuite) createUser(email, password string, active bool) *models.AdminUser {
	user := &models.AdminUser{
		Username: "admin",
		Email:    email,
		Active:   active,
	}
	s.Require().NoError(user.SetPassword(password))
	s.Require().NoError(s.db.Create(user).Error)
	return user
}

func (s *AuthServiceSuite) TestLoginSuccess() {
	user := s.createUser("admin@catalog.local", "secret-pass", true)

	resp, err := s.service.Login(&LoginRequest{Email: "admin@catalog.local", Password: "secret-pass"})
	s.Require().NoError(err)
	s.Equal("Bearer", resp.TokenType)
	s.Equal(24*3600, resp.ExpiresIn)
	s.NotEmpty(resp.AccessToken)

	claims, err := utils.ValidateJWT(resp.AccessToken)
	s.Require().NoError(err)
	s.Equal(user.ID.String(), claims.UserID)
	s.Equal("admin", claims.Username)

	// Login stamps last_login_at.
	profile, err := s.service.GetProfile(user.ID)
	s.Require().NoError(err)
	s.NotNil(profile.LastLoginAt)
}

func (s *AuthServiceSuite) TestLoginWrongPassword() {
	s.createUser("admin@catalog.local", "secret-pass", true)

	_, err := s.service.Login(&LoginRequest{Email: "admin@catalog.local", Password: "wrong"})
	s.Require().ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthServiceSuite) TestLoginUnknownEmail() {
	_, err := s.service.Login(&LoginRequest{Email: "ghost@catalog.local", Password: "whatever"})
	s.Require().ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthServiceSuite) TestLoginDisabledAccount() {
	s.createUser("admin@catalog.local", "secret-pass", false)

	_, err := s.service.Login(&LoginRequest{Email: "admin@catalog.local", Password: "secret-pass"})
	s.Require().ErrorIs(err, ErrAccountDisabled)
}

func (s *AuthServiceSuite) TestLoginValidation() {
	_, err := s.service.Login(&LoginRequest{Email: "not-an-email", Password: "x"})
	var verrs ValidationErrors
	s.Require().ErrorAs(err, &verrs)
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}
