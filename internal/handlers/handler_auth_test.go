package handlers_test

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/splitledger/bill_split_app/internal/apperrors"
	"github.com/splitledger/bill_split_app/internal/core/domain"
	"github.com/splitledger/bill_split_app/internal/dto"
)

func (suite *HandlerTestSuite) TestRegister() {
	user := &domain.User{UserID: "user-1", DisplayName: "Ana", Email: "ana@example.com"}
	suite.mockUsers.On("CreateUser", mock.Anything, mock.AnythingOfType("dto.RegisterUserRequest")).Return(user, nil)

	w := suite.doRequest(http.MethodPost, "/api/v1/auth/register", "", dto.RegisterUserRequest{
		DisplayName: "Ana",
		Email:       "ana@example.com",
		Password:    "secret-password",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.UserResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("user-1", resp.UserID)
	suite.mockUsers.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestRegisterDuplicateEmail() {
	suite.mockUsers.On("CreateUser", mock.Anything, mock.Anything).Return(nil, apperrors.ErrDuplicate)

	w := suite.doRequest(http.MethodPost, "/api/v1/auth/register", "", dto.RegisterUserRequest{
		DisplayName: "Ana",
		Email:       "ana@example.com",
		Password:    "secret-password",
	})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestRegisterRejectsShortPassword() {
	w := suite.doRequest(http.MethodPost, "/api/v1/auth/register", "", dto.RegisterUserRequest{
		DisplayName: "Ana",
		Email:       "ana@example.com",
		Password:    "short",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockUsers.AssertNotCalled(suite.T(), "CreateUser")
}

func (suite *HandlerTestSuite) TestLogin() {
	user := &domain.User{UserID: "user-1", DisplayName: "Ana", Email: "ana@example.com"}
	expiresAt := time.Now().Add(time.Hour)
	suite.mockUsers.On("VerifyCredentials", mock.Anything, "ana@example.com", "secret-password").Return(user, nil)
	suite.mockTokens.On("GenerateAccessToken", mock.Anything, user).Return("access-token", expiresAt, nil)
	suite.mockTokens.On("GenerateRefreshToken", mock.Anything, user).Return("refresh-token", expiresAt, nil)

	w := suite.doRequest(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		Email:    "ana@example.com",
		Password: "secret-password",
	})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.LoginResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("access-token", resp.AccessToken)
	suite.Equal("refresh-token", resp.RefreshToken)
	suite.Equal("user-1", resp.User.UserID)
}

func (suite *HandlerTestSuite) TestLoginInvalidCredentials() {
	suite.mockUsers.On("VerifyCredentials", mock.Anything, "ana@example.com", "wrong-password").Return(nil, apperrors.ErrValidation)

	w := suite.doRequest(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		Email:    "ana@example.com",
		Password: "wrong-password",
	})

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Contains(w.Body.String(), "Invalid email or password")
}

func (suite *HandlerTestSuite) TestRefreshRejectsUnknownToken() {
	suite.mockTokens.On("ValidateRefreshToken", mock.Anything, "user-1", "stale-token").Return(nil, apperrors.ErrUnauthorized)

	w := suite.doRequest(http.MethodPost, "/api/v1/auth/refresh", "", dto.RefreshTokenRequest{
		UserID:       "user-1",
		RefreshToken: "stale-token",
	})

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestLogout() {
	suite.mockUsers.On("ClearRefreshToken", mock.Anything, "user-1").Return(nil)

	w := suite.doRequest(http.MethodPost, "/api/v1/auth/logout", suite.generateTestToken("user-1"), nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockUsers.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestLogoutWithoutToken() {
	w := suite.doRequest(http.MethodPost, "/api/v1/auth/logout", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}
