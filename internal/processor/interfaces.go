package processor

import (
	"context"

	"resume-screener-go/internal/types"
)

// TextExtractor 文本提取接口
// 解析管道唯一持有外部依赖的阶段放在接口后面，便于测试替换
type TextExtractor interface {
	// Extract 将文档转换为归一化文本
	// 对未知类型或损坏内容降级为空文本，不用错误中断管道
	Extract(ctx context.Context, doc types.Document) (types.NormalizedText, error)
}
