package messaging

import "github.com/google/wire"

// ProviderSet 暴露 Pub/Sub 发布端构造器。
var ProviderSet = wire.NewSet(NewPublisher)
