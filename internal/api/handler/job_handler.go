package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"resume-screener-go/internal/config"
	"resume-screener-go/internal/constants"
	"resume-screener-go/internal/export"
	"resume-screener-go/internal/logger"
	"resume-screener-go/internal/processor"
	"resume-screener-go/internal/storage"
	"resume-screener-go/internal/storage/models"
	"resume-screener-go/internal/types"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// jobPayloadSchema 创建岗位请求体的JSON Schema
const jobPayloadSchema = `{
	"type": "object",
	"required": ["job_title", "job_description"],
	"properties": {
		"job_title": {"type": "string", "minLength": 1, "maxLength": 255},
		"department": {"type": "string", "maxLength": 255},
		"location": {"type": "string", "maxLength": 255},
		"job_description": {"type": "string", "minLength": 1},
		"required_skills": {
			"type": "array",
			"items": {"type": "string", "minLength": 1},
			"maxItems": 100
		},
		"required_degree": {"type": "string", "maxLength": 100}
	},
	"additionalProperties": false
}`

// JobHandler 岗位处理器，负责岗位创建与排名查询
type JobHandler struct {
	cfg     *config.Config
	storage *storage.Storage
	schema  *jsonschema.Schema
}

// NewJobHandler 创建一个新的岗位处理器
func NewJobHandler(cfg *config.Config, storage *storage.Storage) (*JobHandler, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("job_payload.json", strings.NewReader(jobPayloadSchema)); err != nil {
		return nil, fmt.Errorf("加载岗位Schema失败: %w", err)
	}
	schema, err := compiler.Compile("job_payload.json")
	if err != nil {
		return nil, fmt.Errorf("编译岗位Schema失败: %w", err)
	}

	return &JobHandler{
		cfg:     cfg,
		storage: storage,
		schema:  schema,
	}, nil
}

// CreateJobRequest 创建岗位请求体
type CreateJobRequest struct {
	JobTitle       string   `json:"job_title"`
	Department     string   `json:"department,omitempty"`
	Location       string   `json:"location,omitempty"`
	JobDescription string   `json:"job_description"`
	RequiredSkills []string `json:"required_skills,omitempty"`
	RequiredDegree string   `json:"required_degree,omitempty"`
}

// CreateJobResponse 创建岗位响应
type CreateJobResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// HandleCreateJob 处理岗位创建请求，请求体先经过JSON Schema校验
func (h *JobHandler) HandleCreateJob(ctx context.Context, body []byte) (*CreateJobResponse, error) {
	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("请求体不是合法的JSON: %w", err)
	}
	if err := h.schema.Validate(payload); err != nil {
		return nil, fmt.Errorf("请求体校验失败: %w", err)
	}

	var req CreateJobRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("解析请求体失败: %w", err)
	}

	skillsJSON, err := models.MarshalToJSON(req.RequiredSkills)
	if err != nil {
		return nil, fmt.Errorf("序列化要求技能失败: %w", err)
	}

	jobID := uuid.NewString()
	job := &models.Job{
		JobID:              jobID,
		JobTitle:           req.JobTitle,
		Department:         req.Department,
		Location:           req.Location,
		JobDescriptionText: req.JobDescription,
		RequiredSkillsJSON: skillsJSON,
		RequiredDegree:     req.RequiredDegree,
		Status:             "ACTIVE",
	}
	if err := h.storage.MySQL.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("创建岗位失败: %w", err)
	}

	// 预热JD文本缓存，消费端分析时直接命中
	if err := h.storage.Redis.SetJobDescriptionText(ctx, jobID, req.JobDescription); err != nil {
		logger.Warn().Err(err).Str("job_id", jobID).Msg("缓存JD文本失败")
	}

	return &CreateJobResponse{
		JobID:  jobID,
		Status: "CREATED",
	}, nil
}

// RankingResponse 岗位排名响应
type RankingResponse struct {
	JobID      string                  `json:"job_id"`
	TotalCount int                     `json:"total_count"`
	Applicants []types.RankedApplicant `json:"applicants"`
}

// topSkillsFromJSON 从技能JSON中取置信度最高的前几项
func topSkillsFromJSON(skillsJSON []byte, limit int) []string {
	if len(skillsJSON) == 0 {
		return nil
	}
	var matches []types.SkillMatch
	if err := json.Unmarshal(skillsJSON, &matches); err != nil {
		return nil
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}
	skills := make([]string, 0, len(matches))
	for _, m := range matches {
		skills = append(skills, m.Skill)
	}
	return skills
}

// collectRanking 查库并构建按分数降序的排名列表
func (h *JobHandler) collectRanking(ctx context.Context, jobID string, limit int) ([]types.RankedApplicant, error) {
	// 确认岗位存在，不存在时让gorm.ErrRecordNotFound向上传播
	if _, err := h.storage.MySQL.GetJobByID(ctx, jobID); err != nil {
		return nil, err
	}

	rows, err := h.storage.MySQL.ListRankedApplications(ctx, jobID, limit)
	if err != nil {
		return nil, fmt.Errorf("查询岗位排名失败: %w", err)
	}

	applicants := make([]types.RankedApplicant, 0, len(rows))
	for _, row := range rows {
		applicants = append(applicants, types.RankedApplicant{
			SubmissionUUID: row.SubmissionUUID,
			CandidateName:  row.CandidateName,
			CandidateEmail: row.CandidateEmail,
			Score:          row.OverallScore,
			Status:         row.Status,
			TopSkills:      topSkillsFromJSON(row.SkillsJSON, 5),
		})
	}

	// SQL已按分数降序，这里再做一次稳定排序，保证同分条目顺序确定
	return processor.RankApplicants(applicants), nil
}

// HandleGetRanking 查询岗位排名并刷新Redis缓存
func (h *JobHandler) HandleGetRanking(ctx context.Context, jobID string, limit int) (*RankingResponse, error) {
	applicants, err := h.collectRanking(ctx, jobID, limit)
	if err != nil {
		return nil, err
	}

	// 将排名写入Redis ZSET，供后续分页读取
	ranked := make([]types.RankedSubmission, 0, len(applicants))
	for _, a := range applicants {
		ranked = append(ranked, types.RankedSubmission{
			SubmissionUUID: a.SubmissionUUID,
			Score:          a.Score,
			Status:         a.Status,
		})
	}
	if err := h.storage.Redis.CacheJobRanking(ctx, jobID, ranked, constants.RankingCacheDuration); err != nil {
		logger.Warn().Err(err).Str("job_id", jobID).Msg("缓存岗位排名失败")
	}

	return &RankingResponse{
		JobID:      jobID,
		TotalCount: len(applicants),
		Applicants: applicants,
	}, nil
}

// RankingPageResponse 排名分页响应，只含UUID，详情另行查询
type RankingPageResponse struct {
	JobID           string   `json:"job_id"`
	TotalCount      int64    `json:"total_count"`
	SubmissionUUIDs []string `json:"submission_uuids"`
}

// HandleGetRankingPage 从Redis排名缓存分页读取提交UUID
// 缓存未命中时从数据库重建排名并回填缓存
func (h *JobHandler) HandleGetRankingPage(ctx context.Context, jobID string, cursor, limit int64) (*RankingPageResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if cursor < 0 {
		cursor = 0
	}

	uuids, total, err := h.storage.Redis.GetCachedJobRanking(ctx, jobID, cursor, limit)
	if err != nil {
		logger.Warn().Err(err).Str("job_id", jobID).Msg("读取排名缓存失败，回落到数据库")
	}
	if err == nil && total > 0 {
		return &RankingPageResponse{
			JobID:           jobID,
			TotalCount:      total,
			SubmissionUUIDs: uuids,
		}, nil
	}

	applicants, err := h.collectRanking(ctx, jobID, 0)
	if err != nil {
		return nil, err
	}

	ranked := make([]types.RankedSubmission, 0, len(applicants))
	for _, a := range applicants {
		ranked = append(ranked, types.RankedSubmission{
			SubmissionUUID: a.SubmissionUUID,
			Score:          a.Score,
			Status:         a.Status,
		})
	}
	if cacheErr := h.storage.Redis.CacheJobRanking(ctx, jobID, ranked, constants.RankingCacheDuration); cacheErr != nil {
		logger.Warn().Err(cacheErr).Str("job_id", jobID).Msg("回填排名缓存失败")
	}

	start := cursor
	if start > int64(len(ranked)) {
		start = int64(len(ranked))
	}
	end := start + limit
	if end > int64(len(ranked)) {
		end = int64(len(ranked))
	}

	page := make([]string, 0, end-start)
	for _, r := range ranked[start:end] {
		page = append(page, r.SubmissionUUID)
	}

	return &RankingPageResponse{
		JobID:           jobID,
		TotalCount:      int64(len(ranked)),
		SubmissionUUIDs: page,
	}, nil
}

// HandleExportRanking 导出岗位排名为XLSX字节流
func (h *JobHandler) HandleExportRanking(ctx context.Context, jobID string) ([]byte, error) {
	applicants, err := h.collectRanking(ctx, jobID, 0)
	if err != nil {
		return nil, err
	}
	return export.BuildRankingWorkbook(applicants)
}

// UpdateApplicationStatusRequest 更新申请状态请求体
type UpdateApplicationStatusRequest struct {
	SubmissionUUID string `json:"submission_uuid"`
	Status         string `json:"status"`
}

// validApplicationStatuses 允许流转到的申请状态
var validApplicationStatuses = map[string]bool{
	constants.ApplicationStatusSubmitted:   true,
	constants.ApplicationStatusShortlisted: true,
	constants.ApplicationStatusRejected:    true,
}

// HandleUpdateApplicationStatus 更新某条岗位申请的状态
func (h *JobHandler) HandleUpdateApplicationStatus(ctx context.Context, jobID string, req UpdateApplicationStatusRequest) error {
	if req.SubmissionUUID == "" {
		return fmt.Errorf("submission_uuid不能为空")
	}
	if !validApplicationStatuses[req.Status] {
		return fmt.Errorf("不支持的申请状态: %s", req.Status)
	}
	return h.storage.MySQL.UpdateApplicationStatus(ctx, jobID, req.SubmissionUUID, req.Status)
}
