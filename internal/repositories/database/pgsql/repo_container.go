package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/splitledger/bill_split_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:       newPgxUserRepository(dbPool),
		GroupRepo:      newPgxGroupRepository(dbPool),
		ReceiptRepo:    newPgxReceiptRepository(dbPool),
		PaymentRepo:    newPgxPaymentRepository(dbPool),
		SettlementRepo: newPgxSettlementRepository(dbPool),
	}
}
