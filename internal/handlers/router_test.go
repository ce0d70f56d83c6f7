package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"

	portssvc "github.com/splitledger/bill_split_app/internal/core/ports/services"
	"github.com/splitledger/bill_split_app/internal/handlers"
	"github.com/splitledger/bill_split_app/internal/platform/config"
)

// HandlerTestSuite wires the full router against mocked services so tests
// exercise routing, auth middleware and error mapping end to end.
type HandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	jwtSecret    string
	mockUsers    *MockUserService
	mockTokens   *MockTokenService
	mockGroups   *MockGroupService
	mockReceipts *MockReceiptService
	mockPayments *MockPaymentService
	mockBalances *MockBalanceService
	mockStats    *MockStatsService
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockUsers = new(MockUserService)
	suite.mockTokens = new(MockTokenService)
	suite.mockGroups = new(MockGroupService)
	suite.mockReceipts = new(MockReceiptService)
	suite.mockPayments = new(MockPaymentService)
	suite.mockBalances = new(MockBalanceService)
	suite.mockStats = new(MockStatsService)

	cfg := &config.Config{
		JWTSecret:    suite.jwtSecret,
		IsProduction: true, // skip swagger routes
	}
	services := &portssvc.ServiceContainer{
		User:    suite.mockUsers,
		Token:   suite.mockTokens,
		Group:   suite.mockGroups,
		Receipt: suite.mockReceipts,
		Payment: suite.mockPayments,
		Balance: suite.mockBalances,
		Stats:   suite.mockStats,
	}
	handlers.RegisterRoutes(suite.router, cfg, services)
}

// generateTestToken creates a signed JWT for the given user.
func (suite *HandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "bsa-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

// doRequest performs a request against the test router. A non-empty token is
// sent as a bearer credential; body may be nil.
func (suite *HandlerTestSuite) doRequest(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
