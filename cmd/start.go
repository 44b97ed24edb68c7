package cmd

import (
	"context"
	"log"

	"github.com/docqa/docqa-be/config"
	"github.com/docqa/docqa-be/database"
	"github.com/docqa/docqa-be/handler"
	"github.com/docqa/docqa-be/repository"
	"github.com/docqa/docqa-be/service"
	"github.com/docqa/docqa-be/types"
	"github.com/docqa/docqa-be/utils"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startServerCmd represents the startServer command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the document QA server",
	Long:  `Starts the HTTP server that handles PDF uploads and grounded question answering`,
	Run: func(cmd *cobra.Command, args []string) {

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		logger, err := utils.NewLogger(cfg.Debug)
		if err != nil {
			log.Fatalf("Failed to create logger: %v", err)
		}
		defer logger.Sync()

		// Initialize services

		pdfService := service.NewPDFService(
			types.DocumentServiceConfig{
				MaxChunkSize: cfg.MaxChunkSize,
				OverlapSize:  cfg.OverlapSize,
			}, logger)

		weaviateDb, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
		if err != nil {
			logger.Fatal("Failed to connect to Weaviate database", zap.Error(err))
		}

		var answerService service.AnswerService
		if cfg.AIProvider == "gemini" {
			answerService, err = service.NewGeminiAnswerService(cfg.GeminiAPIKeys, cfg.Model)
			if err != nil {
				logger.Fatal("Failed to create Gemini answer service", zap.Error(err))
			}
		} else {
			answerService = service.NewOpenAIAnswerService(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.Model)
		}

		mongoClient, err := database.NewMongoClient()
		if err != nil {
			logger.Fatal("Failed to create MongoDB client", zap.Error(err))
		}
		if err := mongoClient.Ping(context.Background(), nil); err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		mongoDb := mongoClient.Database(cfg.MongoDatabase)

		//init repo
		docRepo := repository.NewDocumentRepo(mongoDb.Collection("documents"))
		pageRepo := repository.NewPageRepo(mongoDb.Collection("pages"))

		//init service
		renderService := service.NewRenderService(cfg.UploadDir, docRepo, pageRepo, logger)
		wsService := service.NewWebSocketService(logger)
		fileService := service.NewFileService(cfg.UploadDir, weaviateDb, pdfService, renderService, docRepo, pageRepo, wsService, logger)

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		homeHandler := handler.NewHomeHandler()
		uploadHandler := handler.NewUploadHandler(fileService, logger)
		askHandler := handler.NewAskHandler(weaviateDb, answerService, fileService, cfg.SearchLimit, logger)
		documentHandler := handler.NewDocumentHandler(fileService, logger)

		// Setup Gin router
		router := gin.Default()

		// Apply global middleware
		router.Use(corsHandler.CorsMiddleware)

		router.GET("/", homeHandler.HandleHome)
		router.Static("/uploads", cfg.UploadDir)

		apiV1 := router.Group("/api/v1")
		{
			apiV1.GET("/ask", askHandler.HandleAsk)
			apiV1.POST("/documents/upload", uploadHandler.UploadDocumentsHandler)
			apiV1.GET("/documents", documentHandler.HandleList)
			apiV1.GET("/documents/:id/delete", documentHandler.HandleDelete)
			apiV1.GET("/documents/:id/transcript", documentHandler.HandleTranscript)
			apiV1.GET("/ws/status", func(c *gin.Context) {
				wsService.HandleStatus(c.Writer, c.Request)
			})
		}

		logger.Info("Starting server", zap.String("port", cfg.Port))
		if err := router.Run(":" + cfg.Port); err != nil {
			logger.Fatal("Server error", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}
