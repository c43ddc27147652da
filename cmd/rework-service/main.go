package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/yourorg/doc-rework-service/pkg/blobclient"
	"github.com/yourorg/doc-rework-service/pkg/config"
	"github.com/yourorg/doc-rework-service/pkg/errors"
	"github.com/yourorg/doc-rework-service/pkg/fonts"
	"github.com/yourorg/doc-rework-service/pkg/httpservice"
	"github.com/yourorg/doc-rework-service/pkg/llm"
	"github.com/yourorg/doc-rework-service/pkg/logging"
	"github.com/yourorg/doc-rework-service/pkg/middleware"
	"github.com/yourorg/doc-rework-service/pkg/rework"
	"github.com/yourorg/doc-rework-service/pkg/servicebusclient"
	"github.com/yourorg/doc-rework-service/pkg/telemetry"
	"github.com/yourorg/doc-rework-service/pkg/utils"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	service   *rework.Service
	blob      blobclient.BlobClient
	telemetry *telemetry.NewRelicClient
	slack     *telemetry.SlackClient
	server    *httpservice.Server
}

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg, err := config.LoadConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync(logger)

	logger.Info("Starting doc-rework-service", logging.NewField("version", cfg.AppVersion))

	// Blob client (mock for local development)
	var blobClient blobclient.BlobClient
	if cfg.BlobStorageAccountName == "" {
		logger.Info("Using mock blob client (no account name configured)")
		blobClient = blobclient.NewMockBlobClient()
	} else {
		blobClient, err = blobclient.NewAzureBlobClient(
			cfg.BlobStorageAccountName,
			cfg.BlobStorageAccountKey,
			false,
			logger,
		)
		if err != nil {
			logger.Error("Failed to create blob client", logging.NewField("error", err))
			os.Exit(1)
		}
	}

	// Service Bus client (mock for local development)
	var busClient servicebusclient.ServiceBusClient
	if cfg.ServiceBusNamespace == "" {
		logger.Info("Using mock Service Bus client (no namespace configured)")
		busClient = servicebusclient.NewMockServiceBusClient()
	} else {
		busClient, err = servicebusclient.NewAzureServiceBusClient(
			cfg.ServiceBusNamespace,
			cfg.ServiceBusKeyName,
			cfg.ServiceBusKeyValue,
			false,
			logger,
		)
		if err != nil {
			logger.Error("Failed to create Service Bus client", logging.NewField("error", err))
			os.Exit(1)
		}
	}

	// Transform service (echo mock when no API key is configured)
	var transformer llm.Transformer
	if cfg.OpenAIAPIKey == "" {
		logger.Warn("Using echo transformer (no OPENAI_API_KEY configured)")
		transformer = llm.NewMockTransformer()
	} else {
		transformer, err = llm.NewClient(llm.ClientConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Timeout: time.Duration(cfg.LLMTimeout) * time.Second,
			RPS:     cfg.LLMRPS,
			Burst:   cfg.LLMBurst,
			Retry: utils.RetryConfig{
				MaxAttempts:  cfg.RetryMaxAttempts,
				InitialDelay: time.Duration(cfg.RetryInitialDelay) * time.Millisecond,
				MaxDelay:     time.Duration(cfg.RetryMaxDelay) * time.Millisecond,
				Multiplier:   2.0,
			},
			Logger: logger,
		})
		if err != nil {
			logger.Error("Failed to create transform client", logging.NewField("error", err))
			os.Exit(1)
		}
	}

	catalog := fonts.NewCatalog(cfg.FontsDir)
	logger.Info("Font catalog loaded",
		logging.NewField("dir", cfg.FontsDir),
		logging.NewField("families", catalog.FileFamilies()),
	)

	service := rework.NewService(transformer, catalog, blobClient, busClient, logger, rework.ServiceConfig{
		ArtifactContainer: cfg.ArtifactContainer,
		CompletedQueue:    cfg.CompletedQueue,
		DefaultTitle:      cfg.DefaultTitle,
		BodyFontSize:      cfg.BodyFontSize,
		PageMargin:        cfg.PageMargin,
		LinePadding:       cfg.LinePadding,
	})

	nrClient, err := telemetry.NewNewRelicClient(telemetry.NewRelicConfig{
		LicenseKey:  cfg.NewRelicLicenseKey,
		AppName:     cfg.AppName,
		ServiceName: cfg.AppName,
		Enabled:     cfg.NewRelicEnabled,
	}, logger)
	if err != nil {
		logger.Error("Failed to create New Relic client", logging.NewField("error", err))
		os.Exit(1)
	}
	defer nrClient.Shutdown(5000)

	slackClient := telemetry.NewSlackClient(telemetry.SlackConfig{
		WebhookURL:  cfg.SlackWebhookURL,
		ServiceName: cfg.AppName,
		Enabled:     cfg.SlackWebhookURL != "",
	}, logger)

	app := &App{
		config:    cfg,
		logger:    logger,
		service:   service,
		blob:      blobClient,
		telemetry: nrClient,
		slack:     slackClient,
	}

	server, err := httpservice.NewServer(httpservice.ServerConfig{
		Port:           cfg.HTTPPort,
		ReadTimeout:    time.Duration(cfg.HTTPReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.HTTPWriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(cfg.HTTPIdleTimeout) * time.Second,
		Logger:         logger,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		MaxBodySize:    cfg.MaxUploadBytes,
	}, app)
	if err != nil {
		logger.Error("Failed to create server", logging.NewField("error", err))
		os.Exit(1)
	}
	app.server = server

	// Queue consumer for async rework jobs.
	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	jobHandler := func(ctx context.Context, msg servicebusclient.Message) error {
		return service.HandleJob(ctx, msg.Body)
	}

	var stopConsumer func()
	if azureBus, ok := busClient.(*servicebusclient.AzureServiceBusClient); ok {
		consumer, err := servicebusclient.NewConsumer(azureBus.Raw(), servicebusclient.ConsumerConfig{
			QueueOrSubscription: cfg.ReworkQueue,
			MaxConcurrent:       cfg.ServiceBusConcurrency,
			Logger:              logger,
		}, jobHandler)
		if err != nil {
			logger.Error("Failed to create queue consumer", logging.NewField("error", err))
			os.Exit(1)
		}
		if err := consumer.Start(rootCtx); err != nil {
			logger.Error("Failed to start queue consumer", logging.NewField("error", err))
			os.Exit(1)
		}
		stopConsumer = func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer stopCancel()
			if err := consumer.Stop(stopCtx); err != nil {
				logger.Error("Consumer shutdown error", logging.NewField("error", err))
			}
		}
	} else {
		worker := servicebusclient.NewPollWorker(busClient, cfg.ReworkQueue, jobHandler, time.Second, logger)
		worker.Start(rootCtx)
		stopConsumer = worker.Stop
	}

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("Server error", logging.NewField("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	cancel()
	stopConsumer()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", logging.NewField("error", err))
	}
}

// Register implements the httpservice.Handler interface. The tracing, context
// logger, error handler, and slow request middlewares are installed here so
// they run before the route handlers.
func (a *App) Register(router *gin.Engine) {
	router.Use(middleware.TracingMiddleware(a.logger, a.config.AppName))
	router.Use(middleware.ServiceRequestIDMiddleware("X-Service-Request-ID"))
	router.Use(middleware.ContextLoggerMiddleware(a.logger, a.config.AppName))
	router.Use(middleware.ErrorHandlerMiddleware(a.logger))
	router.Use(middleware.SlowRequestMiddleware(
		int64(a.config.SlowRequestMs),
		a.telemetry,
		a.slack,
		a.logger,
	))

	api := router.Group("/api/v1")
	{
		api.POST("/documents/rework", httpservice.Wrap("documents.rework", a.handleDocumentRework))
		api.POST("/text/rework", httpservice.Wrap("text.rework", a.handleTextRework))
		api.POST("/text/preview", httpservice.Wrap("text.preview", a.handleTextPreview))
		api.GET("/artifacts/*name", httpservice.Wrap("artifacts.get", a.handleGetArtifact))
	}
}

// TextReworkRequest is the body for text-based rework and preview calls.
type TextReworkRequest struct {
	Text           string  `json:"text" binding:"required"`
	Action         string  `json:"action" binding:"required"`
	Tone           string  `json:"tone"`
	TargetLanguage string  `json:"target_language"`
	Title          string  `json:"title"`
	TitleColor     string  `json:"title_color"`
	FontSize       float64 `json:"font_size"`
}

func (a *App) handleDocumentRework(c *gin.Context) error {
	data, filename, err := httpservice.ReadUploadedFile(c, "file", a.config.MaxUploadBytes)
	if err != nil {
		return errors.NewBadRequestError("A PDF file upload is required: " + err.Error())
	}

	opts := rework.Options{
		Action:         llm.Action(c.PostForm("action")),
		Tone:           c.PostForm("tone"),
		TargetLanguage: c.PostForm("target_language"),
		Title:          c.PostForm("title"),
		TitleColor:     c.PostForm("title_color"),
		SourceName:     filename,
	}
	if opts.Action == "" {
		return errors.NewValidationError("Form field 'action' is required (rewrite, translate, summarize)")
	}

	start := time.Now()
	result, err := a.service.ProcessPDF(c.Request.Context(), data, opts)
	if err != nil {
		return err
	}
	a.telemetry.RecordDocumentRework(string(result.Action), result.Pages, time.Since(start).Milliseconds())

	writeArtifact(c, result)
	return nil
}

func (a *App) handleTextRework(c *gin.Context) error {
	var req TextReworkRequest
	if !httpservice.ValidateJSON(c, &req) {
		return nil
	}

	start := time.Now()
	result, err := a.service.ProcessText(c.Request.Context(), req.Text, rework.Options{
		Action:         llm.Action(req.Action),
		Tone:           req.Tone,
		TargetLanguage: req.TargetLanguage,
		Title:          req.Title,
		TitleColor:     req.TitleColor,
		FontSize:       req.FontSize,
	})
	if err != nil {
		return err
	}
	a.telemetry.RecordDocumentRework(string(result.Action), result.Pages, time.Since(start).Milliseconds())

	writeArtifact(c, result)
	return nil
}

func (a *App) handleTextPreview(c *gin.Context) error {
	var req struct {
		Text           string  `json:"text" binding:"required"`
		Title          string  `json:"title"`
		TargetLanguage string  `json:"target_language"`
		FontSize       float64 `json:"font_size"`
	}
	if !httpservice.ValidateJSON(c, &req) {
		return nil
	}

	instructions, err := a.service.Preview(req.Text, rework.Options{
		Title:          req.Title,
		TargetLanguage: req.TargetLanguage,
		FontSize:       req.FontSize,
	})
	if err != nil {
		return err
	}

	httpservice.RespondSuccess(c, gin.H{"instructions": instructions})
	return nil
}

func (a *App) handleGetArtifact(c *gin.Context) error {
	// Wildcard params keep their leading slash.
	name := c.Param("name")
	if len(name) > 0 && name[0] == '/' {
		name = name[1:]
	}
	if name == "" {
		return errors.NewBadRequestError("Artifact name is required")
	}

	reader, err := a.blob.Get(c.Request.Context(), a.config.ArtifactContainer, name)
	if err != nil {
		return errors.NewNotFoundError("Artifact not found: " + name)
	}
	defer reader.Close()

	c.Header("Content-Disposition", `attachment; filename="reworked_output.pdf"`)
	c.DataFromReader(http.StatusOK, -1, "application/pdf", reader, nil)
	return nil
}

// writeArtifact streams the generated PDF back with artifact metadata in
// headers so callers can fetch it again later.
func writeArtifact(c *gin.Context, result *rework.Result) {
	if result.ArtifactName != "" {
		c.Header("X-Artifact-Name", result.ArtifactName)
	}
	if result.ArtifactURL != "" {
		c.Header("X-Artifact-Url", result.ArtifactURL)
	}
	c.Header("X-Page-Count", fmt.Sprintf("%d", result.Pages))
	c.Header("Content-Disposition", `attachment; filename="reworked_output.pdf"`)
	c.Data(http.StatusOK, "application/pdf", result.PDF)
}
