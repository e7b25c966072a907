package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resume-aids-go/internal/api/handler"
	"resume-aids-go/internal/api/middleware"
	"resume-aids-go/internal/api/router"
	"resume-aids-go/internal/config"
	"resume-aids-go/internal/logger"
	"resume-aids-go/internal/outbox"
	"resume-aids-go/internal/processor"
	"resume-aids-go/internal/storage"
	"resume-aids-go/internal/tracing"

	"github.com/cloudwego/hertz/pkg/app/server"
	hertzconfig "github.com/cloudwego/hertz/pkg/common/config"
	"github.com/spf13/pflag"
)

var (
	version     = "1.0.0"          //nolint:gochecknoglobals
	serviceName = "resume-aids-go" //nolint:gochecknoglobals
)

func main() {
	var configPath, address string
	pflag.StringVarP(&configPath, "config", "c", "internal/config/config.yaml", "Path to config file")
	pflag.StringVar(&address, "address", "", "Override listen address, e.g. :8080")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", configPath).Msg("加载配置失败")
	}

	if address != "" {
		cfg.Server.Address = address
	}

	logger.Init(logger.Config(cfg.Logger))
	logger.SetupHertz()
	logger.Info().Str("service", serviceName).Str("version", version).Msg("配置加载成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.InitProvider(ctx, cfg.Tracing)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化链路追踪失败")
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn().Err(err).Msg("关闭链路追踪失败")
		}
	}()

	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化存储失败")
	}
	defer storageManager.Close()

	// 审计表和事件队列都可用时才启动消息中继
	var messageRelay *outbox.MessageRelay
	if storageManager.MySQL != nil && storageManager.RabbitMQ != nil {
		messageRelay = outbox.NewMessageRelay(storageManager.MySQL.DB(), storageManager.RabbitMQ, cfg.Outbox)
		messageRelay.Start()
		logger.Info().Msg("消息中继服务已启动")
	}

	resumeProcessor := processor.NewProcessorFromConfig(cfg, storageManager)
	parseHandler := handler.NewResumeParseHandler(resumeProcessor)

	opts := []hertzconfig.Option{
		server.WithHostPorts(cfg.Server.Address),
		server.WithMaxRequestBodySize(cfg.RequestBodyLimit()),
		server.WithHandleMethodNotAllowed(true),
	}
	tracerOpt, tracingMW := middleware.ServerTracing()
	if cfg.Tracing.Enabled {
		opts = append(opts, tracerOpt)
	}

	h := server.New(opts...)
	h.Use(middleware.Recovery(), middleware.RequestLogger())
	if cfg.Tracing.Enabled {
		h.Use(tracingMW)
	}
	router.RegisterRoutes(h, cfg, parseHandler)

	go func() {
		logger.Info().Str("address", cfg.Server.Address).Msg("HTTP 服务器启动中")
		if err := h.Run(); err != nil {
			logger.Fatal().Err(err).Msg("启动HTTP服务器失败")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("接收到终止信号，正在优雅退出...")

	if messageRelay != nil {
		messageRelay.Stop()
		logger.Info().Msg("消息中继服务已停止")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout, 5*time.Second))
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("服务器关闭失败")
	}
	logger.Info().Msg("优雅退出完成")
}
