package waitlist

import (
	"context"
	"database/sql"

	"github.com/m04kA/SMC-WaitlistService/pkg/dbmetrics"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor

// TxBeginner интерфейс для начала транзакций
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error)
}

// TransactionManager интерфейс для выполнения сериализуемых транзакций.
// Enqueue вычисляет плотную позицию в очереди внутри транзакции.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}
