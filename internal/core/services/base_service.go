package services

import (
	"context"
	"log/slog"

	"github.com/splitledger/bill_split_app/internal/core/domain"
	portssvc "github.com/splitledger/bill_split_app/internal/core/ports/services"
	"github.com/splitledger/bill_split_app/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	GroupAuthorizer portssvc.GroupAuthorizerSvc
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// AuthorizeMember checks if a user has the required role in a group
func (s *BaseService) AuthorizeMember(ctx context.Context, userID, groupID string, requiredRole domain.GroupRole) error {
	if s.GroupAuthorizer != nil {
		return s.GroupAuthorizer.AuthorizeMember(ctx, userID, groupID, requiredRole)
	}
	s.LogDebug(ctx, "No group authorizer provided, access granted by default",
		slog.String("user_id", userID),
		slog.String("group_id", groupID),
		slog.String("required_role", string(requiredRole)))
	return nil
}
