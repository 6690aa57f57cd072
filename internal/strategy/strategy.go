package strategy

import (
	"context"

	"vclear/resolver-service/internal/model"
)

// Strategy 单个解析策略: 把分享URL变成完整结果或错误
// 策略之间不共享可变状态, 单个策略失败由链路捕获后换下一个
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, rawURL string) (*model.ParseResult, error)
}
