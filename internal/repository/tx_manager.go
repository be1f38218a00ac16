package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	CartLines() CartLineRepository
	Inventory() InventoryReader
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// Tx内のInventory().StockLevelは商品行をロックして読む（同じ商品へのカート更新を直列化）。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
