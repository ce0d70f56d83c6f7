package handlers_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/splitledger/bill_split_app/internal/core/domain"
	portssvc "github.com/splitledger/bill_split_app/internal/core/ports/services"
	"github.com/splitledger/bill_split_app/internal/dto"
)

// --- Mock UserService ---

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) CreateUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserService) VerifyCredentials(ctx context.Context, email string, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) FindOrCreateOAuthUser(ctx context.Context, email string, displayName string) (*domain.User, error) {
	args := m.Called(ctx, email, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) SetRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiry time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, expiry)
	return args.Error(0)
}

func (m *MockUserService) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserService) GetRefreshToken(ctx context.Context, userID string) (*string, *time.Time, error) {
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

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Mock TokenService ---

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockTokenService) GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockTokenService) ValidateRefreshToken(ctx context.Context, userID string, rawToken string) (*domain.User, error) {
	args := m.Called(ctx, userID, rawToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.TokenSvcFacade = (*MockTokenService)(nil)

// --- Mock GroupService ---

type MockGroupService struct {
	mock.Mock
}

func (m *MockGroupService) AuthorizeMember(ctx context.Context, userID string, groupID string, requiredRole domain.GroupRole) error {
	args := m.Called(ctx, userID, groupID, requiredRole)
	return args.Error(0)
}

func (m *MockGroupService) GetGroupByID(ctx context.Context, groupID string, requestingUserID string) (*domain.Group, error) {
	args := m.Called(ctx, groupID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupService) ListMembers(ctx context.Context, groupID string) ([]domain.GroupMember, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GroupMember), args.Error(1)
}

func (m *MockGroupService) CreateGroup(ctx context.Context, req dto.CreateGroupRequest, creatorUserID string) (*domain.Group, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupService) ListGroupsForUser(ctx context.Context, userID string) ([]domain.Group, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Group), args.Error(1)
}

func (m *MockGroupService) JoinByInviteCode(ctx context.Context, inviteCode string, userID string, displayName string) (*domain.Group, error) {
	args := m.Called(ctx, inviteCode, userID, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupService) UpdateBaseCurrency(ctx context.Context, groupID string, baseCurrency string, requestingUserID string) (*domain.Group, error) {
	args := m.Called(ctx, groupID, baseCurrency, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

var _ portssvc.GroupSvcFacade = (*MockGroupService)(nil)

// --- Mock ReceiptService ---

type MockReceiptService struct {
	mock.Mock
}

func (m *MockReceiptService) CreateReceipt(ctx context.Context, req dto.CreateReceiptRequest, groupID string, uploaderUserID string) (*domain.Receipt, error) {
	args := m.Called(ctx, req, groupID, uploaderUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockReceiptService) GetReceipt(ctx context.Context, receiptID string, requestingUserID string) (*domain.Receipt, error) {
	args := m.Called(ctx, receiptID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockReceiptService) ListReceipts(ctx context.Context, groupID string, requestingUserID string, limit int, nextToken *string) ([]domain.Receipt, *string, error) {
	args := m.Called(ctx, groupID, requestingUserID, limit, nextToken)
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

func (m *MockReceiptService) UpdateReceipt(ctx context.Context, receiptID string, req dto.UpdateReceiptRequest, requestingUserID string) (*domain.Receipt, error) {
	args := m.Called(ctx, receiptID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockReceiptService) ConfirmReceipt(ctx context.Context, receiptID string, requestingUserID string) (*domain.Receipt, error) {
	args := m.Called(ctx, receiptID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockReceiptService) DeleteReceipt(ctx context.Context, receiptID string, requestingUserID string) error {
	args := m.Called(ctx, receiptID, requestingUserID)
	return args.Error(0)
}

func (m *MockReceiptService) ReplaceAssignments(ctx context.Context, receiptID string, req dto.BulkAssignRequest, requestingUserID string) (int64, error) {
	args := m.Called(ctx, receiptID, req, requestingUserID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReceiptService) ToggleAssignment(ctx context.Context, receiptID string, lineItemID string, req dto.ToggleAssignmentRequest, requestingUserID string) (bool, int64, error) {
	args := m.Called(ctx, receiptID, lineItemID, req, requestingUserID)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}

var _ portssvc.ReceiptSvcFacade = (*MockReceiptService)(nil)

// --- Mock PaymentService ---

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) RecordPayment(ctx context.Context, receiptID string, req dto.CreatePaymentRequest, requestingUserID string) (*domain.Payment, error) {
	args := m.Called(ctx, receiptID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) ListPayments(ctx context.Context, receiptID string, requestingUserID string) ([]domain.Payment, error) {
	args := m.Called(ctx, receiptID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentService) UpdatePayment(ctx context.Context, paymentID string, req dto.UpdatePaymentRequest, requestingUserID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) DeletePayment(ctx context.Context, paymentID string, requestingUserID string) error {
	args := m.Called(ctx, paymentID, requestingUserID)
	return args.Error(0)
}

var _ portssvc.PaymentSvcFacade = (*MockPaymentService)(nil)

// --- Mock BalanceService ---

type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) ComputeLedger(ctx context.Context, groupID string, requestingUserID string, period domain.Period) (*domain.Ledger, error) {
	args := m.Called(ctx, groupID, requestingUserID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}

func (m *MockBalanceService) ComputeTransfers(balances []domain.MemberBalance) []domain.Transfer {
	args := m.Called(balances)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Transfer)
}

func (m *MockBalanceService) RecordSettlement(ctx context.Context, groupID string, req dto.SettleRequest, requestingUserID string) (*domain.Settlement, error) {
	args := m.Called(ctx, groupID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settlement), args.Error(1)
}

func (m *MockBalanceService) ClearSettlements(ctx context.Context, groupID string, requestingUserID string) (int64, error) {
	args := m.Called(ctx, groupID, requestingUserID)
	return args.Get(0).(int64), args.Error(1)
}

var _ portssvc.BalanceSvcFacade = (*MockBalanceService)(nil)

// --- Mock StatsService ---

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) GetGroupStats(ctx context.Context, groupID string, requestingUserID string, period domain.Period) (*domain.GroupStats, error) {
	args := m.Called(ctx, groupID, requestingUserID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GroupStats), args.Error(1)
}

var _ portssvc.StatsSvcFacade = (*MockStatsService)(nil)
