package constants

import "time"

const (
	// DefaultParserVer 当前启发式解析器版本，写入每条提交记录
	DefaultParserVer = "1.0"

	// JDCacheDuration JD文本缓存时长
	JDCacheDuration = 24 * time.Hour

	// RankingCacheDuration 岗位排名缓存时长
	RankingCacheDuration = 10 * time.Minute
)

// 简历提交处理状态机
const (
	StatusPendingParsing        = "PENDING_PARSING"
	StatusAnalyzed              = "ANALYZED"
	StatusExtractionFailed      = "EXTRACTION_FAILED"
	StatusDuplicateFileSkipped  = "DUPLICATE_FILE_SKIPPED"
	StatusContentDupSkipped     = "CONTENT_DUPLICATE_SKIPPED"
	StatusUploadProcessingError = "UPLOAD_PROCESSING_ERROR"
)

// 岗位申请状态
const (
	ApplicationStatusSubmitted   = "SUBMITTED"
	ApplicationStatusShortlisted = "SHORTLISTED"
	ApplicationStatusRejected    = "REJECTED"
)
