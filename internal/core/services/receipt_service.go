package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/splitledger/bill_split_app/internal/apperrors"
	"github.com/splitledger/bill_split_app/internal/core/domain"
	portsrepo "github.com/splitledger/bill_split_app/internal/core/ports/repositories"
	portssvc "github.com/splitledger/bill_split_app/internal/core/ports/services"
	"github.com/splitledger/bill_split_app/internal/dto"
	"github.com/splitledger/bill_split_app/internal/utils/accounting"
)

// ReceiptService handles business logic related to receipts, their line items
// and assignments.
type ReceiptService struct {
	BaseService
	receiptRepo  portsrepo.ReceiptRepositoryFacade
	groupRepo    portsrepo.GroupReader
	extractor    portssvc.ReceiptExtractor
	rateProvider portssvc.RateProviderSvc
}

// NewReceiptService creates a new ReceiptService. extractor and rateProvider
// may be nil; receipts then stay in the processing state until entered
// manually, and omitted exchange rates stay unset.
func NewReceiptService(
	receiptRepo portsrepo.ReceiptRepositoryFacade,
	groupRepo portsrepo.GroupReader,
	authorizer portssvc.GroupAuthorizerSvc,
	extractor portssvc.ReceiptExtractor,
	rateProvider portssvc.RateProviderSvc,
) portssvc.ReceiptSvcFacade {
	return &ReceiptService{
		BaseService:  BaseService{GroupAuthorizer: authorizer},
		receiptRepo:  receiptRepo,
		groupRepo:    groupRepo,
		extractor:    extractor,
		rateProvider: rateProvider,
	}
}

var _ portssvc.ReceiptSvcFacade = (*ReceiptService)(nil)

// buildLineItems converts request items to domain line items with fresh IDs,
// preserving request order.
func buildLineItems(receiptID string, items []dto.CreateLineItemRequest) []domain.LineItem {
	built := make([]domain.LineItem, len(items))
	for i, item := range items {
		quantity := item.Quantity
		if quantity.IsZero() {
			quantity = decimal.NewFromInt(1)
		}
		built[i] = domain.LineItem{
			LineItemID:  uuid.NewString(),
			ReceiptID:   receiptID,
			Description: item.Description,
			Quantity:    quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
			SortOrder:   i,
			Assignments: []domain.ItemAssignment{},
		}
	}
	return built
}

func sumLineItems(items []domain.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Amount)
	}
	return sum
}

// CreateReceipt records a new receipt for the group. Line items may come from
// the request, from the extraction collaborator when only an image is given,
// or later via UpdateReceipt.
func (s *ReceiptService) CreateReceipt(ctx context.Context, req dto.CreateReceiptRequest, groupID string, uploaderUserID string) (*domain.Receipt, error) {
	logger := s.GetLogger(ctx)

	if err := s.AuthorizeMember(ctx, uploaderUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}

	group, err := s.groupRepo.FindGroupByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load group: %w", err)
	}

	if req.ImageURL == "" && len(req.LineItems) == 0 {
		return nil, fmt.Errorf("%w: a receipt needs an image or line items", apperrors.ErrValidation)
	}
	for _, item := range req.LineItems {
		if item.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: line item amount must not be negative", apperrors.ErrValidation)
		}
	}

	now := time.Now()
	receipt := domain.Receipt{
		ReceiptID:     uuid.NewString(),
		GroupID:       groupID,
		UploadedBy:    uploaderUserID,
		ImageURL:      req.ImageURL,
		MerchantName:  req.MerchantName,
		ReceiptDate:   req.ReceiptDate,
		Currency:      req.Currency,
		ExchangeRate:  req.ExchangeRate,
		Tax:           req.Tax,
		ServiceCharge: req.ServiceCharge,
		Total:         req.Total,
		Status:        domain.ReceiptProcessing,
		Version:       1,
		LineItems:     buildLineItems("", req.LineItems),
		Payments:      []domain.Payment{},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     uploaderUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: uploaderUserID,
		},
	}
	for i := range receipt.LineItems {
		receipt.LineItems[i].ReceiptID = receipt.ReceiptID
	}

	if len(receipt.LineItems) == 0 && s.extractor != nil {
		extracted, err := s.extractor.Extract(ctx, req.ImageURL)
		if err != nil {
			logger.Warn("Receipt extraction failed", slog.String("error", err.Error()), slog.String("receipt_id", receipt.ReceiptID))
			receipt.Status = domain.ReceiptFailed
		} else {
			s.applyExtraction(&receipt, extracted)
		}
	}

	if len(receipt.LineItems) > 0 && receipt.Status == domain.ReceiptProcessing {
		receipt.Status = domain.ReceiptExtracted
	}

	receipt.Subtotal = sumLineItems(receipt.LineItems)
	if receipt.Total.IsZero() {
		receipt.Total = receipt.Subtotal.Add(receipt.Tax).Add(receipt.ServiceCharge)
	}

	s.fillExchangeRate(ctx, &receipt, group.BaseCurrency)

	if err := s.receiptRepo.SaveReceipt(ctx, receipt); err != nil {
		logger.Error("Failed to save receipt", slog.String("error", err.Error()), slog.String("group_id", groupID))
		return nil, fmt.Errorf("failed to create receipt: %w", err)
	}

	logger.Info("Receipt created", slog.String("receipt_id", receipt.ReceiptID), slog.String("group_id", groupID), slog.String("status", string(receipt.Status)))
	return &receipt, nil
}

// applyExtraction fills receipt fields from the extraction result without
// clobbering values the uploader supplied explicitly.
func (s *ReceiptService) applyExtraction(receipt *domain.Receipt, extracted *dto.ExtractedReceipt) {
	if receipt.MerchantName == "" {
		receipt.MerchantName = extracted.MerchantName
	}
	if receipt.ReceiptDate == nil {
		receipt.ReceiptDate = extracted.ReceiptDate
	}
	if receipt.Tax.IsZero() {
		receipt.Tax = extracted.Tax
	}
	if receipt.ServiceCharge.IsZero() {
		receipt.ServiceCharge = extracted.ServiceCharge
	}
	if receipt.Total.IsZero() {
		receipt.Total = extracted.Total
	}

	items := make([]dto.CreateLineItemRequest, len(extracted.LineItems))
	for i, item := range extracted.LineItems {
		items[i] = dto.CreateLineItemRequest{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
	}
	receipt.LineItems = buildLineItems(receipt.ReceiptID, items)
	receipt.Status = domain.ReceiptExtracted
}

// fillExchangeRate resolves a missing exchange rate. Base-currency receipts
// always get 1; for foreign currencies the external provider is consulted and
// a lookup failure leaves the rate at zero for the ledger to flag.
func (s *ReceiptService) fillExchangeRate(ctx context.Context, receipt *domain.Receipt, baseCurrency string) {
	if receipt.Currency == baseCurrency {
		receipt.ExchangeRate = decimal.NewFromInt(1)
		return
	}
	if receipt.ExchangeRate.IsPositive() || s.rateProvider == nil {
		return
	}

	rate, err := s.rateProvider.GetRate(ctx, receipt.Currency, baseCurrency)
	if err != nil {
		s.GetLogger(ctx).Warn("Exchange rate lookup failed", slog.String("error", err.Error()), slog.String("currency", receipt.Currency))
		return
	}
	receipt.ExchangeRate = rate
}

// GetReceipt returns the full receipt after verifying group membership.
func (s *ReceiptService) GetReceipt(ctx context.Context, receiptID string, requestingUserID string) (*domain.Receipt, error) {
	receipt, err := s.receiptRepo.FindReceiptByID(ctx, receiptID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	if err := s.AuthorizeMember(ctx, requestingUserID, receipt.GroupID, domain.RoleMember); err != nil {
		return nil, err
	}

	return receipt, nil
}

// ListReceipts returns a page of receipt headers for the group, newest first.
func (s *ReceiptService) ListReceipts(ctx context.Context, groupID string, requestingUserID string, limit int, nextToken *string) ([]domain.Receipt, *string, error) {
	if err := s.AuthorizeMember(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	receipts, token, err := s.receiptRepo.ListReceiptsByGroup(ctx, groupID, limit, nextToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	return receipts, token, nil
}

// UpdateReceipt replaces header fields and, when given, the full line item
// list under the optimistic version precondition. Replacing line items drops
// their assignments.
func (s *ReceiptService) UpdateReceipt(ctx context.Context, receiptID string, req dto.UpdateReceiptRequest, requestingUserID string) (*domain.Receipt, error) {
	logger := s.GetLogger(ctx)

	receipt, err := s.receiptRepo.FindReceiptByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeMember(ctx, requestingUserID, receipt.GroupID, domain.RoleMember); err != nil {
		return nil, err
	}

	expectedVersion := receipt.Version
	if req.ExpectedVersion != nil {
		expectedVersion = *req.ExpectedVersion
	}

	if req.MerchantName != nil {
		receipt.MerchantName = *req.MerchantName
	}
	if req.ReceiptDate != nil {
		receipt.ReceiptDate = req.ReceiptDate
	}
	if req.Currency != nil {
		receipt.Currency = *req.Currency
	}
	if req.ExchangeRate != nil {
		if req.ExchangeRate.IsNegative() {
			return nil, fmt.Errorf("%w: exchange rate must not be negative", apperrors.ErrValidation)
		}
		receipt.ExchangeRate = *req.ExchangeRate
	}
	if req.Tax != nil {
		receipt.Tax = *req.Tax
	}
	if req.ServiceCharge != nil {
		receipt.ServiceCharge = *req.ServiceCharge
	}
	if req.Total != nil {
		receipt.Total = *req.Total
	}
	if req.LineItems != nil {
		for _, item := range req.LineItems {
			if item.Amount.IsNegative() {
				return nil, fmt.Errorf("%w: line item amount must not be negative", apperrors.ErrValidation)
			}
		}
		receipt.LineItems = buildLineItems(receiptID, req.LineItems)
		if receipt.Status == domain.ReceiptProcessing || receipt.Status == domain.ReceiptFailed {
			receipt.Status = domain.ReceiptExtracted
		}
	}

	receipt.Subtotal = sumLineItems(receipt.LineItems)
	receipt.LastUpdatedAt = time.Now()
	receipt.LastUpdatedBy = requestingUserID

	updated, err := s.receiptRepo.UpdateReceipt(ctx, *receipt, expectedVersion)
	if err != nil {
		if errors.Is(err, apperrors.ErrVersionConflict) {
			return nil, err
		}
		logger.Error("Failed to update receipt", slog.String("error", err.Error()), slog.String("receipt_id", receiptID))
		return nil, fmt.Errorf("failed to update receipt: %w", err)
	}

	logger.Info("Receipt updated", slog.String("receipt_id", receiptID), slog.Int64("version", updated.Version))
	return updated, nil
}

// ConfirmReceipt marks an extracted receipt as verified by a human. Confirming
// requires at least one line item.
func (s *ReceiptService) ConfirmReceipt(ctx context.Context, receiptID string, requestingUserID string) (*domain.Receipt, error) {
	receipt, err := s.receiptRepo.FindReceiptByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeMember(ctx, requestingUserID, receipt.GroupID, domain.RoleMember); err != nil {
		return nil, err
	}

	if receipt.Status == domain.ReceiptConfirmed {
		return receipt, nil
	}
	if len(receipt.LineItems) == 0 {
		return nil, fmt.Errorf("%w: cannot confirm a receipt without line items", apperrors.ErrValidation)
	}

	if err := s.receiptRepo.UpdateReceiptStatus(ctx, receiptID, domain.ReceiptConfirmed, requestingUserID); err != nil {
		return nil, fmt.Errorf("failed to confirm receipt: %w", err)
	}

	receipt.Status = domain.ReceiptConfirmed
	s.LogInfo(ctx, "Receipt confirmed", slog.String("receipt_id", receiptID))
	return receipt, nil
}

// DeleteReceipt removes a receipt with its line items, assignments and
// payments. Allowed for the uploader or the group owner.
func (s *ReceiptService) DeleteReceipt(ctx context.Context, receiptID string, requestingUserID string) error {
	receipt, err := s.receiptRepo.FindReceiptByID(ctx, receiptID)
	if err != nil {
		return err
	}
	if err := s.AuthorizeMember(ctx, requestingUserID, receipt.GroupID, domain.RoleMember); err != nil {
		return err
	}

	if receipt.UploadedBy != requestingUserID {
		if err := s.AuthorizeMember(ctx, requestingUserID, receipt.GroupID, domain.RoleOwner); err != nil {
			return fmt.Errorf("%w: only the uploader or the group owner can delete a receipt", apperrors.ErrForbidden)
		}
	}

	if err := s.receiptRepo.DeleteReceipt(ctx, receiptID); err != nil {
		return fmt.Errorf("failed to delete receipt: %w", err)
	}

	s.LogInfo(ctx, "Receipt deleted", slog.String("receipt_id", receiptID))
	return nil
}

// ReplaceAssignments swaps the assignee sets of the given line items,
// recomputing exact shares per item. Items not listed keep their current
// assignments. Returns the receipt's new version.
func (s *ReceiptService) ReplaceAssignments(ctx context.Context, receiptID string, req dto.BulkAssignRequest, requestingUserID string) (int64, error) {
	logger := s.GetLogger(ctx)

	receipt, err := s.receiptRepo.FindReceiptByID(ctx, receiptID)
	if err != nil {
		return 0, err
	}
	if err := s.AuthorizeMember(ctx, requestingUserID, receipt.GroupID, domain.RoleMember); err != nil {
		return 0, err
	}

	memberSet, err := s.memberSet(ctx, receipt.GroupID)
	if err != nil {
		return 0, err
	}
	itemsByID := make(map[string]domain.LineItem, len(receipt.LineItems))
	for _, item := range receipt.LineItems {
		itemsByID[item.LineItemID] = item
	}

	byLineItem := make(map[string][]domain.ItemAssignment, len(req.Assignments))
	for _, assignment := range req.Assignments {
		item, ok := itemsByID[assignment.LineItemID]
		if !ok {
			return 0, fmt.Errorf("%w: line item %s not on receipt", apperrors.ErrValidation, assignment.LineItemID)
		}
		if _, dup := byLineItem[assignment.LineItemID]; dup {
			return 0, fmt.Errorf("%w: line item %s listed twice", apperrors.ErrValidation, assignment.LineItemID)
		}
		for _, userID := range assignment.UserIDs {
			if !memberSet[userID] {
				return 0, fmt.Errorf("%w: user %s is not a group member", apperrors.ErrValidation, userID)
			}
		}
		byLineItem[assignment.LineItemID] = buildAssignments(item, assignment.UserIDs)
	}

	version, err := s.receiptRepo.ReplaceAssignments(ctx, receiptID, req.ExpectedVersion, byLineItem)
	if err != nil {
		if errors.Is(err, apperrors.ErrVersionConflict) {
			return 0, err
		}
		logger.Error("Failed to replace assignments", slog.String("error", err.Error()), slog.String("receipt_id", receiptID))
		return 0, fmt.Errorf("failed to replace assignments: %w", err)
	}

	logger.Info("Assignments replaced", slog.String("receipt_id", receiptID), slog.Int64("version", version))
	return version, nil
}

// ToggleAssignment flips one (lineItem, user) assignment and rebalances the
// item's shares. Returns whether the user ended up assigned plus the
// receipt's new version.
func (s *ReceiptService) ToggleAssignment(ctx context.Context, receiptID string, lineItemID string, req dto.ToggleAssignmentRequest, requestingUserID string) (bool, int64, error) {
	receipt, err := s.receiptRepo.FindReceiptByID(ctx, receiptID)
	if err != nil {
		return false, 0, err
	}
	if err := s.AuthorizeMember(ctx, requestingUserID, receipt.GroupID, domain.RoleMember); err != nil {
		return false, 0, err
	}

	memberSet, err := s.memberSet(ctx, receipt.GroupID)
	if err != nil {
		return false, 0, err
	}
	if !memberSet[req.UserID] {
		return false, 0, fmt.Errorf("%w: user %s is not a group member", apperrors.ErrValidation, req.UserID)
	}

	var item *domain.LineItem
	for i := range receipt.LineItems {
		if receipt.LineItems[i].LineItemID == lineItemID {
			item = &receipt.LineItems[i]
			break
		}
	}
	if item == nil {
		return false, 0, fmt.Errorf("%w: line item %s not on receipt", apperrors.ErrValidation, lineItemID)
	}

	userIDs := make([]string, 0, len(item.Assignments)+1)
	assigned := true
	for _, a := range item.Assignments {
		if a.UserID == req.UserID {
			assigned = false
			continue
		}
		userIDs = append(userIDs, a.UserID)
	}
	if assigned {
		userIDs = append(userIDs, req.UserID)
	}

	byLineItem := map[string][]domain.ItemAssignment{
		lineItemID: buildAssignments(*item, userIDs),
	}

	version, err := s.receiptRepo.ReplaceAssignments(ctx, receiptID, req.ExpectedVersion, byLineItem)
	if err != nil {
		if errors.Is(err, apperrors.ErrVersionConflict) {
			return false, 0, err
		}
		return false, 0, fmt.Errorf("failed to toggle assignment: %w", err)
	}

	s.LogInfo(ctx, "Assignment toggled", slog.String("receipt_id", receiptID), slog.String("line_item_id", lineItemID), slog.Bool("assigned", assigned))
	return assigned, version, nil
}

// buildAssignments splits the item amount evenly among userIDs, seeding the
// remainder distribution with the line item ID so repeated writes agree.
func buildAssignments(item domain.LineItem, userIDs []string) []domain.ItemAssignment {
	shares := accounting.SplitExact(item.Amount, userIDs, item.LineItemID)
	assignments := make([]domain.ItemAssignment, 0, len(userIDs))
	for _, userID := range userIDs {
		assignments = append(assignments, domain.ItemAssignment{
			AssignmentID: uuid.NewString(),
			LineItemID:   item.LineItemID,
			UserID:       userID,
			ShareAmount:  shares[userID],
		})
	}
	return assignments
}

func (s *ReceiptService) memberSet(ctx context.Context, groupID string) (map[string]bool, error) {
	members, err := s.groupRepo.ListMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	set := make(map[string]bool, len(members))
	for _, m := range members {
		set[m.UserID] = true
	}
	return set, nil
}
