package router

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"resume-screener-go/internal/api/handler"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"gorm.io/gorm"
)

// RegisterRoutes 注册 API 路由
func RegisterRoutes(h *server.Hertz, resumeHandler *handler.ResumeHandler, jobHandler *handler.JobHandler) {
	api := h.Group("/api/v1")

	api.POST("/resume/upload", func(c context.Context, ctx *app.RequestContext) {
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "文件未找到"})
			return
		}

		targetJobID := ctx.PostForm("target_job_id")
		sourceChannel := ctx.PostForm("source_channel")
		if sourceChannel == "" {
			sourceChannel = "web_upload" // 默认值
		}

		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "打开文件失败"})
			return
		}
		defer file.Close()

		resp, err := resumeHandler.HandleResumeUpload(
			c,
			file,
			fileHeader.Size,
			fileHeader.Filename,
			targetJobID,
			sourceChannel,
		)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}

		ctx.JSON(consts.StatusOK, resp)
	})

	api.GET("/resume/:submission_uuid/analysis", func(c context.Context, ctx *app.RequestContext) {
		submissionUUID := ctx.Param("submission_uuid")
		if submissionUUID == "" {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "submission_uuid不能为空"})
			return
		}

		resp, err := resumeHandler.GetAnalysis(c, submissionUUID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.JSON(consts.StatusNotFound, utils.H{"error": "提交记录不存在"})
				return
			}
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}

		ctx.JSON(consts.StatusOK, resp)
	})

	api.GET("/resume/:submission_uuid/text", func(c context.Context, ctx *app.RequestContext) {
		submissionUUID := ctx.Param("submission_uuid")
		if submissionUUID == "" {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "submission_uuid不能为空"})
			return
		}

		text, err := resumeHandler.GetParsedTextContent(c, submissionUUID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.JSON(consts.StatusNotFound, utils.H{"error": "提交记录不存在"})
				return
			}
			if errors.Is(err, handler.ErrParsedTextNotReady) {
				ctx.JSON(consts.StatusConflict, utils.H{"error": "解析文本尚未生成"})
				return
			}
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}

		ctx.Data(consts.StatusOK, "text/plain; charset=utf-8", []byte(text))
	})

	api.GET("/resume/:submission_uuid/download", func(c context.Context, ctx *app.RequestContext) {
		submissionUUID := ctx.Param("submission_uuid")
		if submissionUUID == "" {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "submission_uuid不能为空"})
			return
		}

		resp, err := resumeHandler.GetDownloadURL(c, submissionUUID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.JSON(consts.StatusNotFound, utils.H{"error": "提交记录不存在"})
				return
			}
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}

		ctx.JSON(consts.StatusOK, resp)
	})

	api.POST("/job", func(c context.Context, ctx *app.RequestContext) {
		body, err := ctx.Body()
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "读取请求体失败"})
			return
		}

		resp, err := jobHandler.HandleCreateJob(c, body)
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
			return
		}

		ctx.JSON(consts.StatusOK, resp)
	})

	api.GET("/job/:job_id/ranking", func(c context.Context, ctx *app.RequestContext) {
		jobID := ctx.Param("job_id")
		if jobID == "" {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "job_id不能为空"})
			return
		}

		limit := 0
		if limitStr := ctx.Query("limit"); limitStr != "" {
			parsed, err := strconv.Atoi(limitStr)
			if err != nil || parsed < 0 {
				ctx.JSON(consts.StatusBadRequest, utils.H{"error": "limit参数不合法"})
				return
			}
			limit = parsed
		}

		resp, err := jobHandler.HandleGetRanking(c, jobID, limit)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.JSON(consts.StatusNotFound, utils.H{"error": "岗位不存在"})
				return
			}
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}

		ctx.JSON(consts.StatusOK, resp)
	})

	api.GET("/job/:job_id/ranking/ids", func(c context.Context, ctx *app.RequestContext) {
		jobID := ctx.Param("job_id")
		if jobID == "" {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "job_id不能为空"})
			return
		}

		cursor, _ := strconv.ParseInt(ctx.Query("cursor"), 10, 64)
		limit, _ := strconv.ParseInt(ctx.Query("limit"), 10, 64)

		resp, err := jobHandler.HandleGetRankingPage(c, jobID, cursor, limit)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.JSON(consts.StatusNotFound, utils.H{"error": "岗位不存在"})
				return
			}
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}

		ctx.JSON(consts.StatusOK, resp)
	})

	api.GET("/job/:job_id/ranking/export", func(c context.Context, ctx *app.RequestContext) {
		jobID := ctx.Param("job_id")
		if jobID == "" {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "job_id不能为空"})
			return
		}

		data, err := jobHandler.HandleExportRanking(c, jobID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.JSON(consts.StatusNotFound, utils.H{"error": "岗位不存在"})
				return
			}
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}

		ctx.Response.Header.Set("Content-Disposition", `attachment; filename="ranking.xlsx"`)
		ctx.Data(consts.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	})

	api.PUT("/job/:job_id/application/status", func(c context.Context, ctx *app.RequestContext) {
		jobID := ctx.Param("job_id")
		if jobID == "" {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "job_id不能为空"})
			return
		}

		body, err := ctx.Body()
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "读取请求体失败"})
			return
		}
		var req handler.UpdateApplicationStatusRequest
		if err := json.Unmarshal(body, &req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "解析请求体失败"})
			return
		}

		if err := jobHandler.HandleUpdateApplicationStatus(c, jobID, req); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.JSON(consts.StatusNotFound, utils.H{"error": "申请记录不存在"})
				return
			}
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
			return
		}

		ctx.JSON(consts.StatusOK, utils.H{"status": "updated"})
	})

	// 健康检查
	api.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})
}
