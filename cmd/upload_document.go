package cmd

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/docqa/docqa-be/config"
	"github.com/docqa/docqa-be/database"
	"github.com/docqa/docqa-be/repository"
	"github.com/docqa/docqa-be/service"
	"github.com/docqa/docqa-be/types"
	"github.com/docqa/docqa-be/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// uploadDocumentCmd represents the uploadDocument command
var uploadDocumentCmd = &cobra.Command{
	Use:   "upload-document",
	Short: "Index a local PDF without going through the HTTP API",
	Run: func(cmd *cobra.Command, args []string) {
		filePath, _ := cmd.Flags().GetString("file")
		reinit, _ := cmd.Flags().GetBool("reinit")

		env, err := newCmdEnv(reinit)
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer env.logger.Sync()

		if err := env.uploadLocalDocument(context.Background(), filePath); err != nil {
			env.logger.Fatal("Failed to upload document", zap.String("file", filePath), zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(uploadDocumentCmd)

	uploadDocumentCmd.Flags().StringP("file", "f", "", "Path to the PDF to upload")
	uploadDocumentCmd.Flags().BoolP("reinit", "r", false, "Reinitialize the vector index schema first")
}

// cmdEnv wires the ingestion pipeline for the CLI commands.
type cmdEnv struct {
	cfg           *config.Config
	logger        *zap.Logger
	pdfService    *service.PDFService
	weaviateDb    *database.WeaviateStore
	docRepo       repository.DocumentRepo
	renderService *service.RenderService
}

func newCmdEnv(reinit bool) (*cmdEnv, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return nil, err
	}

	weaviateDb, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
	if err != nil {
		return nil, err
	}
	if reinit {
		if err := weaviateDb.ReInit(); err != nil {
			return nil, err
		}
	}

	mongoClient, err := database.NewMongoClient()
	if err != nil {
		return nil, err
	}
	if err := mongoClient.Ping(context.Background(), nil); err != nil {
		return nil, err
	}
	mongoDb := mongoClient.Database(cfg.MongoDatabase)
	docRepo := repository.NewDocumentRepo(mongoDb.Collection("documents"))
	pageRepo := repository.NewPageRepo(mongoDb.Collection("pages"))

	pdfService := service.NewPDFService(types.DocumentServiceConfig{
		MaxChunkSize: cfg.MaxChunkSize,
		OverlapSize:  cfg.OverlapSize,
	}, logger)
	renderService := service.NewRenderService(cfg.UploadDir, docRepo, pageRepo, logger)

	return &cmdEnv{
		cfg:           cfg,
		logger:        logger,
		pdfService:    pdfService,
		weaviateDb:    weaviateDb,
		docRepo:       docRepo,
		renderService: renderService,
	}, nil
}

// uploadLocalDocument copies the PDF into the storage root, records it and
// streams its chunks into the vector index, then renders page images.
func (e *cmdEnv) uploadLocalDocument(ctx context.Context, filePath string) error {
	destPath, err := utils.CopyFileWithTimestamp(filePath, filepath.Join(e.cfg.UploadDir, "pdfs"))
	if err != nil {
		return err
	}

	doc := &types.Document{
		FileName:   filepath.Base(filePath),
		StoredName: filepath.Join("pdfs", filepath.Base(destPath)),
		UploadedAt: time.Now().Unix(),
	}
	if err := e.docRepo.CreateDocument(ctx, doc); err != nil {
		return err
	}

	chunkChan := make(chan types.DocumentChunk)
	errChan := make(chan error, 1)
	go func() {
		errChan <- e.pdfService.ProcessPDF(destPath, types.ChunkMetadata{
			DocumentID: doc.ID,
			Title:      doc.FileName,
		}, chunkChan)
	}()

	var chunks []types.DocumentChunk
	for chunk := range chunkChan {
		chunks = append(chunks, chunk)
	}
	if err := <-errChan; err != nil {
		return err
	}
	if err := e.weaviateDb.InsertChunks(ctx, chunks); err != nil {
		return err
	}
	e.logger.Info("Indexed document",
		zap.String("document", doc.ID),
		zap.String("file", doc.FileName),
		zap.Int("chunks", len(chunks)))

	if err := e.renderService.RenderDocument(ctx, destPath, doc); err != nil {
		e.logger.Error("page rendering failed", zap.String("document", doc.ID), zap.Error(err))
	}
	return nil
}
