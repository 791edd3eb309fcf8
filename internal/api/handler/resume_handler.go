package handler

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"resume-screener-go/internal/config"
	"resume-screener-go/internal/constants"
	"resume-screener-go/internal/logger"
	"resume-screener-go/internal/processor"
	"resume-screener-go/internal/storage"
	"resume-screener-go/internal/storage/models"
	"resume-screener-go/internal/tracing"
	"resume-screener-go/internal/types"

	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// ResumeHandler 简历处理器，负责协调简历的上传与分析流程
type ResumeHandler struct {
	cfg      *config.Config
	storage  *storage.Storage
	analyzer *processor.ResumeAnalyzer
}

// NewResumeHandler 创建一个新的简历处理器
func NewResumeHandler(
	cfg *config.Config,
	storage *storage.Storage,
	analyzer *processor.ResumeAnalyzer,
) *ResumeHandler {
	return &ResumeHandler{
		cfg:      cfg,
		storage:  storage,
		analyzer: analyzer,
	}
}

// ResumeUploadResponse 简历上传响应
type ResumeUploadResponse struct {
	SubmissionUUID string `json:"submission_uuid"`
	Status         string `json:"status"`
}

// calculateMD5 计算字节内容的MD5十六进制串
func calculateMD5(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// HandleResumeUpload 处理简历上传请求
// 流程: 文件MD5去重 -> 生成UUIDv7 -> 上传MinIO -> 落库 -> 发布消息
func (h *ResumeHandler) HandleResumeUpload(ctx context.Context, reader io.Reader, fileSize int64,
	filename string, targetJobID string, sourceChannel string) (*ResumeUploadResponse, error) {

	// reader只能读一次，先读出内容以便计算MD5
	fileBytes, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("读取上传文件内容失败: %w", err)
	}
	fileMD5Hex := calculateMD5(fileBytes)

	// 原子地检查并登记文件MD5
	exists, err := h.storage.Redis.CheckAndAddRawFileMD5(ctx, fileMD5Hex)
	if err != nil {
		logger.Error().
			Err(err).
			Str("md5", fileMD5Hex).
			Msg("查询Redis文件MD5 Set失败")
		return nil, fmt.Errorf("检查文件MD5重复性时Redis查询失败: %w", err)
	}

	if exists {
		// 查出首次提交的UUID，方便调用方定位已有记录
		existingUUID, lookupErr := h.storage.Redis.GetFileMD5ToSubmissionUUID(ctx, fileMD5Hex)
		if lookupErr != nil && lookupErr != storage.ErrNotFound {
			logger.Warn().Err(lookupErr).Str("md5", fileMD5Hex).Msg("查询MD5到UUID映射失败")
		}
		logger.Info().
			Str("md5", fileMD5Hex).
			Str("filename", filename).
			Msg("检测到重复的文件MD5，跳过处理")
		return &ResumeUploadResponse{
			SubmissionUUID: existingUUID,
			Status:         constants.StatusDuplicateFileSkipped,
		}, nil
	}

	// 生成UUIDv7，保证提交按时间有序
	uuidV7, err := uuid.NewV7()
	if err != nil {
		h.rollbackRawFileMD5(ctx, fileMD5Hex)
		return nil, fmt.Errorf("生成UUIDv7失败: %w", err)
	}
	submissionUUID := uuidV7.String()

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".pdf" // 默认为PDF
	}

	// 上传原始文件到MinIO
	originalObjectKey, err := h.storage.MinIO.UploadResumeFile(ctx, submissionUUID, ext, bytes.NewReader(fileBytes), int64(len(fileBytes)))
	if err != nil {
		h.rollbackRawFileMD5(ctx, fileMD5Hex)
		return nil, fmt.Errorf("上传简历到MinIO失败: %w", err)
	}

	// 记录MD5到UUID的映射，用于重复上传时回溯原始提交
	if err := h.storage.Redis.SetFileMD5ToSubmissionUUID(ctx, fileMD5Hex, submissionUUID); err != nil {
		logger.Warn().Err(err).Str("md5", fileMD5Hex).Msg("记录MD5到UUID映射失败")
	}

	// 落库简历提交记录
	now := time.Now()
	submission := &models.ResumeSubmission{
		SubmissionUUID:      submissionUUID,
		SubmissionTimestamp: now,
		SourceChannel:       sourceChannel,
		OriginalFilename:    filename,
		OriginalFilePathOSS: originalObjectKey,
		RawFileMD5:          fileMD5Hex,
		ProcessingStatus:    constants.StatusPendingParsing,
		ParserVersion:       h.cfg.ActiveParserVersion,
	}
	if targetJobID != "" {
		submission.TargetJobID = &targetJobID
	}
	if err := h.storage.MySQL.CreateResumeSubmission(ctx, submission); err != nil {
		h.rollbackRawFileMD5(ctx, fileMD5Hex)
		// 落库失败时清理已上传的对象，避免留下孤儿文件
		if delErr := h.storage.MinIO.DeleteResumeFile(ctx, originalObjectKey); delErr != nil {
			logger.Warn().Err(delErr).Str("object_key", originalObjectKey).Msg("清理MinIO对象失败")
		}
		return nil, fmt.Errorf("插入简历提交记录失败: %w", err)
	}

	// 构建消息并发布到RabbitMQ
	message := storage.ResumeUploadMessage{
		SubmissionUUID:      submissionUUID,
		SubmissionTimestamp: now,
		SourceChannel:       sourceChannel,
		TargetJobID:         targetJobID,
		OriginalFilename:    filename,
		OriginalFilePathOSS: originalObjectKey,
		RawFileMD5:          fileMD5Hex,
	}

	err = h.storage.RabbitMQ.PublishJSON(
		ctx,
		h.cfg.RabbitMQ.ResumeEventsExchange,
		h.cfg.RabbitMQ.UploadedRoutingKey,
		message,
		true, // 持久化
	)
	if err != nil {
		// 消息发布失败时记录状态，避免提交永远停留在PENDING_PARSING
		if dbErr := h.storage.MySQL.UpdateResumeProcessingStatus(ctx, submissionUUID, constants.StatusUploadProcessingError); dbErr != nil {
			logger.Error().Err(dbErr).Str("submission_uuid", submissionUUID).Msg("更新提交状态失败")
		}
		return nil, fmt.Errorf("发布消息到RabbitMQ失败: %w", err)
	}

	return &ResumeUploadResponse{
		SubmissionUUID: submissionUUID,
		Status:         "SUBMITTED_FOR_PROCESSING",
	}, nil
}

// rollbackRawFileMD5 上传流程失败时回滚已登记的文件MD5
func (h *ResumeHandler) rollbackRawFileMD5(ctx context.Context, md5Hex string) {
	if err := h.storage.Redis.RemoveRawFileMD5(ctx, md5Hex); err != nil {
		logger.Warn().Err(err).Str("md5", md5Hex).Msg("回滚文件MD5失败")
	}
}

// StartAnalysisConsumer 启动简历分析消费者
func (h *ResumeHandler) StartAnalysisConsumer(ctx context.Context) error {
	logger.Info().
		Str("exchange", h.cfg.RabbitMQ.ResumeEventsExchange).
		Str("routing_key", h.cfg.RabbitMQ.UploadedRoutingKey).
		Str("queue", h.cfg.RabbitMQ.RawResumeQueue).
		Msg("初始化RabbitMQ拓扑")

	if err := h.storage.RabbitMQ.EnsureExchange(h.cfg.RabbitMQ.ResumeEventsExchange, "direct", true); err != nil {
		return fmt.Errorf("确保交换机存在失败: %w", err)
	}
	if err := h.storage.RabbitMQ.EnsureQueue(h.cfg.RabbitMQ.RawResumeQueue, true); err != nil {
		return fmt.Errorf("确保队列存在失败: %w", err)
	}
	if err := h.storage.RabbitMQ.BindQueue(
		h.cfg.RabbitMQ.RawResumeQueue,
		h.cfg.RabbitMQ.ResumeEventsExchange,
		h.cfg.RabbitMQ.UploadedRoutingKey,
	); err != nil {
		return fmt.Errorf("绑定队列失败: %w", err)
	}

	workers := h.cfg.RabbitMQ.ConsumerWorkers
	if workers <= 0 {
		workers = 1
	}

	for i := 0; i < workers; i++ {
		_, err := h.storage.RabbitMQ.StartConsumer(h.cfg.RabbitMQ.RawResumeQueue, h.cfg.RabbitMQ.PrefetchCount, func(data []byte) bool {
			var message storage.ResumeUploadMessage
			if err := json.Unmarshal(data, &message); err != nil {
				logger.Error().Err(err).Msg("解析消息失败")
				// 消息格式错误，重试没有意义，确认后丢弃
				return true
			}

			if err := h.processResume(ctx, message); err != nil {
				logger.Error().
					Err(err).
					Str("submission_uuid", message.SubmissionUUID).
					Msg("处理简历失败")
				return false
			}
			return true
		})
		if err != nil {
			return fmt.Errorf("启动消费者失败: %w", err)
		}
	}

	return nil
}

// kindFromExt 根据文件扩展名推断文档类型
func kindFromExt(ext string) types.DocumentKind {
	switch strings.ToLower(ext) {
	case ".pdf":
		return types.KindPDF
	case ".docx", ".doc":
		return types.KindDOCX
	default:
		return types.KindTXT
	}
}

// processResume 消费端完整分析流程: 下载 -> 解析 -> 文本去重 -> 评分 -> 持久化
func (h *ResumeHandler) processResume(ctx context.Context, message storage.ResumeUploadMessage) error {
	ctx, span := otel.Tracer("resume-screener/handler").Start(ctx, "ResumeHandler.processResume")
	defer span.End()
	span.SetAttributes(
		attribute.String("submission.uuid", message.SubmissionUUID),
		attribute.String("job.id", message.TargetJobID),
	)

	if h.analyzer == nil {
		return fmt.Errorf("简历分析器未初始化")
	}

	// 1. 从MinIO下载原始文件内容
	fileContentBytes, err := h.storage.MinIO.GetResumeFile(ctx, message.OriginalFilePathOSS)
	if err != nil {
		tracing.RecordErrorWithInfo(span, err, tracing.ErrorTypeObjectStorage,
			attribute.String("object.key", message.OriginalFilePathOSS))
		return fmt.Errorf("从MinIO获取简历文件失败: %w", err)
	}

	doc := types.Document{
		Content: fileContentBytes,
		Kind:    kindFromExt(filepath.Ext(message.OriginalFilename)),
	}

	// 2. 加载岗位要求（如果指定了目标岗位）
	jobReq := h.loadJobRequirements(ctx, message.TargetJobID)

	// 3. 执行分析
	result, err := h.analyzer.Analyze(ctx, doc, jobReq)
	if err != nil {
		tracing.RecordErrorWithInfo(span, err, tracing.ErrorTypeParser,
			attribute.String("document.kind", string(doc.Kind)))
		if dbErr := h.storage.MySQL.UpdateResumeProcessingStatus(ctx, message.SubmissionUUID, constants.StatusExtractionFailed); dbErr != nil {
			logger.Error().Err(dbErr).Str("submission_uuid", message.SubmissionUUID).Msg("更新状态为EXTRACTION_FAILED失败")
		}
		return fmt.Errorf("分析简历失败: %w", err)
	}

	// 提取不到任何文本的提交按失败处理，不参与排名
	if strings.TrimSpace(result.Resume.RawText) == "" {
		logger.Warn().
			Str("submission_uuid", message.SubmissionUUID).
			Msg("文档未提取到文本，标记为提取失败")
		return h.storage.MySQL.UpdateResumeProcessingStatus(ctx, message.SubmissionUUID, constants.StatusExtractionFailed)
	}

	// 4. 解析文本级去重
	textMD5Hex := calculateMD5([]byte(result.Resume.RawText))

	// 无论是否重复都把文本MD5写回提交记录，方便追溯内容副本
	if err := h.storage.MySQL.UpdateResumeSubmissionFields(ctx, message.SubmissionUUID, map[string]interface{}{
		"raw_text_md5": textMD5Hex,
	}); err != nil {
		logger.Warn().
			Err(err).
			Str("submission_uuid", message.SubmissionUUID).
			Msg("更新 raw_text_md5 到数据库失败")
	}

	textExists, err := h.storage.Redis.CheckAndAddParsedTextMD5(ctx, textMD5Hex)
	if err != nil {
		// Redis查询失败时继续处理而不阻塞流程，文本去重在本次失效
		logger.Warn().
			Err(err).
			Str("submission_uuid", message.SubmissionUUID).
			Msg("查询Redis文本MD5 Set失败，本次跳过文本去重")
	} else if textExists {
		logger.Info().
			Str("text_md5", textMD5Hex).
			Str("submission_uuid", message.SubmissionUUID).
			Msg("检测到重复的文本内容，跳过后续分析")
		return h.storage.MySQL.UpdateResumeProcessingStatus(ctx, message.SubmissionUUID, constants.StatusContentDupSkipped)
	}

	// 5. 解析文本归档到MinIO
	textObjectKey, err := h.storage.MinIO.UploadParsedText(ctx, message.SubmissionUUID, result.Resume.RawText)
	if err != nil {
		return fmt.Errorf("上传解析文本到MinIO失败: %w", err)
	}

	// 6. 持久化分析结果
	if err := h.saveAnalysisResult(ctx, message, result); err != nil {
		return err
	}

	// 7. 更新提交记录为已分析
	return h.storage.MySQL.UpdateResumeSubmissionFields(ctx, message.SubmissionUUID, map[string]interface{}{
		"parsed_text_path_oss": textObjectKey,
		"processing_status":    constants.StatusAnalyzed,
	})
}

// loadJobRequirements 加载岗位要求，优先走Redis的JD缓存
// 岗位不存在或加载失败时返回nil，分析流程回落到完整度模式
func (h *ResumeHandler) loadJobRequirements(ctx context.Context, jobID string) *types.JobRequirements {
	if jobID == "" {
		return nil
	}

	job, err := h.storage.MySQL.GetJobByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn().Str("job_id", jobID).Msg("目标岗位不存在，回落到完整度评分")
		} else {
			logger.Warn().Err(err).Str("job_id", jobID).Msg("获取岗位信息失败，回落到完整度评分")
		}
		return nil
	}

	// JD文本优先读缓存，缓存未命中时用数据库文本并回填
	description := job.JobDescriptionText
	if cached, cacheErr := h.storage.Redis.GetJobDescriptionText(ctx, jobID); cacheErr == nil && cached != "" {
		description = cached
	} else if cacheErr == storage.ErrNotFound {
		if setErr := h.storage.Redis.SetJobDescriptionText(ctx, jobID, description); setErr != nil {
			logger.Warn().Err(setErr).Str("job_id", jobID).Msg("回填JD文本缓存失败")
		}
	}

	var requiredSkills []string
	if len(job.RequiredSkillsJSON) > 0 {
		if err := json.Unmarshal(job.RequiredSkillsJSON, &requiredSkills); err != nil {
			logger.Warn().Err(err).Str("job_id", jobID).Msg("解析岗位要求技能失败")
		}
	}

	return &types.JobRequirements{
		Description:    description,
		RequiredSkills: requiredSkills,
		RequiredDegree: job.RequiredDegree,
	}
}

// saveAnalysisResult 将分析结果写入MySQL，并按需登记岗位申请
func (h *ResumeHandler) saveAnalysisResult(ctx context.Context, message storage.ResumeUploadMessage, result *types.AnalysisResult) error {
	resume := result.Resume

	locationsJSON, err := models.MarshalToJSON(resume.Details.Location)
	if err != nil {
		return fmt.Errorf("序列化地点信息失败: %w", err)
	}
	skillsJSON, err := models.MarshalToJSON(resume.Skills)
	if err != nil {
		return fmt.Errorf("序列化技能信息失败: %w", err)
	}
	sectionsJSON, err := models.MarshalToJSON(resume.Sections)
	if err != nil {
		return fmt.Errorf("序列化章节信息失败: %w", err)
	}
	experienceJSON, err := models.MarshalToJSON(resume.Experience)
	if err != nil {
		return fmt.Errorf("序列化工作经历失败: %w", err)
	}
	projectsJSON, err := models.MarshalToJSON(resume.Projects)
	if err != nil {
		return fmt.Errorf("序列化项目经历失败: %w", err)
	}
	scoreDetailsJSON, err := models.MarshalToJSON(result.Score)
	if err != nil {
		return fmt.Errorf("序列化评分详情失败: %w", err)
	}
	feedbackJSON, err := models.MarshalToJSON(result.Feedback)
	if err != nil {
		return fmt.Errorf("序列化反馈信息失败: %w", err)
	}

	analysis := &models.ResumeAnalysis{
		SubmissionUUID:   message.SubmissionUUID,
		CandidateName:    resume.Details.Name,
		CandidateEmail:   resume.Details.Email,
		CandidatePhone:   resume.Details.Phone,
		LocationsJSON:    locationsJSON,
		SkillsJSON:       skillsJSON,
		SectionsJSON:     sectionsJSON,
		ExperienceJSON:   experienceJSON,
		ProjectsJSON:     projectsJSON,
		ScoreMode:        string(result.Score.Mode),
		OverallScore:     result.Score.Overall,
		ScoreDetailsJSON: scoreDetailsJSON,
		FeedbackJSON:     feedbackJSON,
		Summary:          resume.Summary,
		AnalyzedAt:       time.Now(),
	}
	if err := h.storage.MySQL.SaveAnalysis(ctx, analysis); err != nil {
		return fmt.Errorf("保存分析结果失败: %w", err)
	}

	// 指定了目标岗位时登记申请，唯一索引保证同一提交对同一岗位只有一条记录
	if message.TargetJobID != "" {
		score := result.Score.Overall
		application := &models.JobApplication{
			SubmissionUUID: message.SubmissionUUID,
			JobID:          message.TargetJobID,
			OverallScore:   &score,
			Status:         constants.ApplicationStatusSubmitted,
		}
		if err := h.storage.MySQL.UpsertJobApplication(ctx, application); err != nil {
			return fmt.Errorf("登记岗位申请失败: %w", err)
		}
	}

	return nil
}

// ErrParsedTextNotReady 提交尚未产出解析文本
var ErrParsedTextNotReady = errors.New("解析文本尚未生成")

// GetParsedTextContent 返回某条提交归档的解析文本
func (h *ResumeHandler) GetParsedTextContent(ctx context.Context, submissionUUID string) (string, error) {
	submission, err := h.storage.MySQL.GetResumeSubmission(ctx, submissionUUID)
	if err != nil {
		return "", err
	}
	if submission.ParsedTextPathOSS == "" {
		return "", ErrParsedTextNotReady
	}
	return h.storage.MinIO.GetParsedText(ctx, submission.ParsedTextPathOSS)
}

// downloadURLExpiry 原始文件下载链接的有效期
const downloadURLExpiry = 15 * time.Minute

// DownloadURLResponse 原始文件下载链接响应
type DownloadURLResponse struct {
	SubmissionUUID string `json:"submission_uuid"`
	URL            string `json:"url"`
	ExpiresIn      int64  `json:"expires_in_seconds"`
}

// GetDownloadURL 为原始简历文件生成限时预签名下载链接
func (h *ResumeHandler) GetDownloadURL(ctx context.Context, submissionUUID string) (*DownloadURLResponse, error) {
	submission, err := h.storage.MySQL.GetResumeSubmission(ctx, submissionUUID)
	if err != nil {
		return nil, err
	}

	url, err := h.storage.MinIO.GetPresignedURL(ctx, submission.OriginalFilePathOSS, downloadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("生成下载链接失败: %w", err)
	}

	return &DownloadURLResponse{
		SubmissionUUID: submissionUUID,
		URL:            url,
		ExpiresIn:      int64(downloadURLExpiry.Seconds()),
	}, nil
}

// AnalysisResponse 分析结果查询响应
type AnalysisResponse struct {
	SubmissionUUID string                `json:"submission_uuid"`
	Status         string                `json:"status"`
	CandidateName  string                `json:"candidate_name,omitempty"`
	CandidateEmail string                `json:"candidate_email,omitempty"`
	CandidatePhone string                `json:"candidate_phone,omitempty"`
	Locations      []string              `json:"locations,omitempty"`
	Skills         []types.SkillMatch    `json:"skills,omitempty"`
	ScoreMode      string                `json:"score_mode,omitempty"`
	OverallScore   float64               `json:"overall_score"`
	Score          *types.ScoreBreakdown `json:"score,omitempty"`
	Feedback       *types.FeedbackReport `json:"feedback,omitempty"`
	Summary        string                `json:"summary,omitempty"`
	AnalyzedAt     time.Time             `json:"analyzed_at"`
}

// GetAnalysis 查询某条提交的分析结果
func (h *ResumeHandler) GetAnalysis(ctx context.Context, submissionUUID string) (*AnalysisResponse, error) {
	submission, err := h.storage.MySQL.GetResumeSubmission(ctx, submissionUUID)
	if err != nil {
		return nil, err
	}

	resp := &AnalysisResponse{
		SubmissionUUID: submissionUUID,
		Status:         submission.ProcessingStatus,
	}

	analysis, err := h.storage.MySQL.GetAnalysisBySubmission(ctx, submissionUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 分析尚未完成或被跳过，仅返回状态
			return resp, nil
		}
		return nil, err
	}

	resp.CandidateName = analysis.CandidateName
	resp.CandidateEmail = analysis.CandidateEmail
	resp.CandidatePhone = analysis.CandidatePhone
	resp.ScoreMode = analysis.ScoreMode
	resp.OverallScore = analysis.OverallScore
	resp.Summary = analysis.Summary
	resp.AnalyzedAt = analysis.AnalyzedAt

	if len(analysis.LocationsJSON) > 0 {
		if err := json.Unmarshal(analysis.LocationsJSON, &resp.Locations); err != nil {
			logger.Warn().Err(err).Str("submission_uuid", submissionUUID).Msg("解析地点信息失败")
		}
	}
	if len(analysis.SkillsJSON) > 0 {
		if err := json.Unmarshal(analysis.SkillsJSON, &resp.Skills); err != nil {
			logger.Warn().Err(err).Str("submission_uuid", submissionUUID).Msg("解析技能信息失败")
		}
	}
	if len(analysis.ScoreDetailsJSON) > 0 {
		var score types.ScoreBreakdown
		if err := json.Unmarshal(analysis.ScoreDetailsJSON, &score); err == nil {
			resp.Score = &score
		}
	}
	if len(analysis.FeedbackJSON) > 0 {
		var feedback types.FeedbackReport
		if err := json.Unmarshal(analysis.FeedbackJSON, &feedback); err == nil {
			resp.Feedback = &feedback
		}
	}

	return resp, nil
}
