package database

import "github.com/google/wire"

// ProviderSet 暴露数据库连接池、事务管理器与就绪检查供 Wire 依赖注入使用。
var ProviderSet = wire.NewSet(
	NewPgxPool,
	NewTxManager,
	NewReadinessChecker,
)
