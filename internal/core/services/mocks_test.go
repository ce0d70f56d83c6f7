package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/splitledger/bill_split_app/internal/core/domain"
	"github.com/splitledger/bill_split_app/internal/dto"
)

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User, passwordHash string) error {
	args := m.Called(ctx, user, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash *string, expiryTime *time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, expiryTime)
	return args.Error(0)
}

func (m *MockUserRepository) FindCredentialsByEmail(ctx context.Context, email string) (*domain.User, string, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}

func (m *MockUserRepository) FindRefreshToken(ctx context.Context, userID string) (*string, *time.Time, error) {
	args := m.Called(ctx, userID)
	var hash *string
	var expiry *time.Time
	if args.Get(0) != nil {
		hash = args.Get(0).(*string)
	}
	if args.Get(1) != nil {
		expiry = args.Get(1).(*time.Time)
	}
	return hash, expiry, args.Error(2)
}

// --- Mock GroupRepository ---

type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) FindGroupByID(ctx context.Context, groupID string) (*domain.Group, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) FindGroupByInviteCode(ctx context.Context, inviteCode string) (*domain.Group, error) {
	args := m.Called(ctx, inviteCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) ListGroupsByUser(ctx context.Context, userID string) ([]domain.Group, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Group), args.Error(1)
}

func (m *MockGroupRepository) ListMembers(ctx context.Context, groupID string) ([]domain.GroupMember, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GroupMember), args.Error(1)
}

func (m *MockGroupRepository) FindMember(ctx context.Context, groupID string, userID string) (*domain.GroupMember, error) {
	args := m.Called(ctx, groupID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GroupMember), args.Error(1)
}

func (m *MockGroupRepository) SaveGroup(ctx context.Context, group domain.Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockGroupRepository) AddMember(ctx context.Context, member domain.GroupMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockGroupRepository) UpdateBaseCurrency(ctx context.Context, groupID string, baseCurrency string, updaterUserID string) error {
	args := m.Called(ctx, groupID, baseCurrency, updaterUserID)
	return args.Error(0)
}

// --- Mock ReceiptRepository ---

type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) FindReceiptByID(ctx context.Context, receiptID string) (*domain.Receipt, error) {
	args := m.Called(ctx, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) ListReceiptsByGroup(ctx context.Context, groupID string, limit int, nextToken *string) ([]domain.Receipt, *string, error) {
	args := m.Called(ctx, groupID, limit, nextToken)
	var receipts []domain.Receipt
	var token *string
	if args.Get(0) != nil {
		receipts = args.Get(0).([]domain.Receipt)
	}
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return receipts, token, args.Error(2)
}

func (m *MockReceiptRepository) ListReceiptsWithDetails(ctx context.Context, groupID string) ([]domain.Receipt, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) SaveReceipt(ctx context.Context, receipt domain.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepository) UpdateReceipt(ctx context.Context, receipt domain.Receipt, expectedVersion int64) (*domain.Receipt, error) {
	args := m.Called(ctx, receipt, expectedVersion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) UpdateReceiptStatus(ctx context.Context, receiptID string, status domain.ReceiptStatus, updaterUserID string) error {
	args := m.Called(ctx, receiptID, status, updaterUserID)
	return args.Error(0)
}

func (m *MockReceiptRepository) DeleteReceipt(ctx context.Context, receiptID string) error {
	args := m.Called(ctx, receiptID)
	return args.Error(0)
}

func (m *MockReceiptRepository) ReplaceAssignments(ctx context.Context, receiptID string, expectedVersion *int64, byLineItem map[string][]domain.ItemAssignment) (int64, error) {
	args := m.Called(ctx, receiptID, expectedVersion, byLineItem)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock PaymentRepository ---

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListPaymentsByReceipt(ctx context.Context, receiptID string) ([]domain.Payment, error) {
	args := m.Called(ctx, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) UpdatePayment(ctx context.Context, payment domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) DeletePayment(ctx context.Context, paymentID string) error {
	args := m.Called(ctx, paymentID)
	return args.Error(0)
}

func (m *MockPaymentRepository) SumPaymentsByReceipt(ctx context.Context, receiptID string, excludePaymentID *string) (decimal.Decimal, error) {
	args := m.Called(ctx, receiptID, excludePaymentID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock SettlementRepository ---

type MockSettlementRepository struct {
	mock.Mock
}

func (m *MockSettlementRepository) SaveSettlement(ctx context.Context, settlement domain.Settlement) error {
	args := m.Called(ctx, settlement)
	return args.Error(0)
}

func (m *MockSettlementRepository) ListSettlementsByGroup(ctx context.Context, groupID string) ([]domain.Settlement, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Settlement), args.Error(1)
}

func (m *MockSettlementRepository) DeleteSettlementsByGroup(ctx context.Context, groupID string) (int64, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock GroupAuthorizer ---

type MockGroupAuthorizer struct {
	mock.Mock
}

func (m *MockGroupAuthorizer) AuthorizeMember(ctx context.Context, userID string, groupID string, requiredRole domain.GroupRole) error {
	args := m.Called(ctx, userID, groupID, requiredRole)
	return args.Error(0)
}

// --- Mock ReceiptExtractor ---

type MockReceiptExtractor struct {
	mock.Mock
}

func (m *MockReceiptExtractor) Extract(ctx context.Context, imageURL string) (*dto.ExtractedReceipt, error) {
	args := m.Called(ctx, imageURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ExtractedReceipt), args.Error(1)
}

// --- Mock RateProvider ---

type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) GetRate(ctx context.Context, fromCurrency string, toCurrency string) (decimal.Decimal, error) {
	args := m.Called(ctx, fromCurrency, toCurrency)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
