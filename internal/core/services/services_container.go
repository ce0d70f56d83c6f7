package services

import (
	portsrepo "github.com/splitledger/bill_split_app/internal/core/ports/repositories"
	portssvc "github.com/splitledger/bill_split_app/internal/core/ports/services"
	"github.com/splitledger/bill_split_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized
// dependencies. extractor and rateProvider are optional collaborators; nil
// disables automatic extraction and rate lookup respectively.
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	extractor portssvc.ReceiptExtractor,
	rateProvider portssvc.RateProviderSvc,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)

	// Group service first since the others depend on its authorizer
	container.Group = NewGroupService(repos.GroupRepo, repos.UserRepo)
	authorizer := container.Group.(portssvc.GroupAuthorizerSvc)

	container.Receipt = NewReceiptService(repos.ReceiptRepo, repos.GroupRepo, authorizer, extractor, rateProvider)
	container.Payment = NewPaymentService(repos.PaymentRepo, repos.ReceiptRepo, repos.GroupRepo, authorizer)
	container.Balance = NewBalanceService(repos.GroupRepo, repos.ReceiptRepo, repos.SettlementRepo, authorizer)
	container.Stats = NewStatsService(repos.GroupRepo, repos.ReceiptRepo, authorizer)

	container.Token = NewTokenService(cfg, container.User)
	container.GoogleOAuth = NewGoogleOAuthService(cfg)

	return container
}
