package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resume-screener-go/internal/api/handler"
	"resume-screener-go/internal/api/router"
	"resume-screener-go/internal/config"
	appCoreLogger "resume-screener-go/internal/logger"
	"resume-screener-go/internal/parser"
	"resume-screener-go/internal/processor"
	"resume-screener-go/internal/storage"
	"resume-screener-go/internal/tracing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	hzconfig "github.com/cloudwego/hertz/pkg/common/config"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel/trace"
)

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "", "配置文件路径")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		glog.Fatalf("加载配置失败: %v", err)
	}

	initLogger(cfg)
	glog.Info("配置加载成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 可选的OTLP追踪上报
	var shutdownTracing func(context.Context) error
	if cfg.Tracing.Enabled {
		shutdownTracing, err = tracing.InitTracerProvider(ctx, tracing.ProviderConfig{
			Endpoint:     cfg.Tracing.Endpoint,
			ServiceName:  cfg.Tracing.ServiceName,
			SamplerRatio: cfg.Tracing.SamplerRatio,
		})
		if err != nil {
			glog.Fatalf("初始化追踪提供者失败: %v", err)
		}
		glog.Infof("追踪已启用，上报端点: %s", cfg.Tracing.Endpoint)
	}

	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		glog.Fatalf("初始化存储失败: %v", err)
	}
	defer storageManager.Close()
	glog.Info("存储服务初始化成功")

	textExtractor, err := parser.NewTextExtractor(ctx)
	if err != nil {
		glog.Fatalf("初始化文本提取器失败: %v", err)
	}
	glog.Info("文本提取器初始化成功")

	analyzer, err := processor.NewResumeAnalyzer(
		&processor.Components{Extractor: textExtractor},
		processor.WithPhoneRegion(cfg.Screening.PhoneRegion),
		processor.WithSummaryLength(cfg.Screening.SummaryLength),
	)
	if err != nil {
		glog.Fatalf("初始化简历分析器失败: %v", err)
	}
	glog.Info("简历分析器初始化成功")

	resumeHandler := handler.NewResumeHandler(cfg, storageManager, analyzer)
	jobHandler, err := handler.NewJobHandler(cfg, storageManager)
	if err != nil {
		glog.Fatalf("初始化JobHandler失败: %v", err)
	}
	glog.Info("API处理器初始化成功")

	go func() {
		glog.Infof("启动简历分析消费者，工作线程数: %d", cfg.RabbitMQ.ConsumerWorkers)
		if err := resumeHandler.StartAnalysisConsumer(ctx); err != nil {
			glog.Fatalf("启动简历分析消费者失败: %v", err)
		}
	}()

	serverOpts := []hzconfig.Option{
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
	}

	var tracingCfg *hertztracing.Config
	if cfg.Tracing.Enabled {
		tracer, tCfg := hertztracing.NewServerTracer()
		tracingCfg = tCfg
		serverOpts = append(serverOpts, tracer)
	}

	h := server.New(serverOpts...)

	if tracingCfg != nil {
		h.Use(hertztracing.ServerMiddleware(tracingCfg))
	}
	h.Use(func(c context.Context, ctx *app.RequestContext) {
		glog.CtxInfof(c, "Request: %s %s", string(ctx.Method()), string(ctx.Path()))
		ctx.Next(c)
		status := ctx.Response.StatusCode()
		glog.CtxInfof(c, "Response: status %d", status)
		if status >= 400 {
			span := trace.SpanFromContext(c)
			tracing.RecordHTTPError(span, fmt.Errorf("%s %s 返回状态码 %d", ctx.Method(), ctx.Path(), status), status)
		}
	})

	router.RegisterRoutes(h, resumeHandler, jobHandler)
	glog.Info("HTTP路由注册成功")

	glog.Infof("HTTP 服务器启动中，监听地址: %s", cfg.Server.Address)
	go func() {
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Errorf("服务器关闭失败: %v", err)
	}
	if shutdownTracing != nil {
		if err := shutdownTracing(shutdownCtx); err != nil {
			glog.Errorf("追踪提供者关闭失败: %v", err)
		}
	}
	glog.Info("优雅退出完成")
}

// initLogger 初始化应用日志并接管Hertz的全局日志
func initLogger(cfg *config.Config) {
	appCoreLogger.Init(appCoreLogger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})

	hertzCompatibleLogger := hertzadapter.From(appCoreLogger.Logger)
	glog.SetLogger(hertzCompatibleLogger)
	switch cfg.Logger.Level {
	case "debug":
		glog.SetLevel(glog.LevelDebug)
	case "warn":
		glog.SetLevel(glog.LevelWarn)
	case "error":
		glog.SetLevel(glog.LevelError)
	default:
		glog.SetLevel(glog.LevelInfo)
	}
}
