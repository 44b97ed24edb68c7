package cmd

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// batchUploadDocumentCmd represents the batchUploadDocument command
var batchUploadDocumentCmd = &cobra.Command{
	Use:   "batch-upload-document",
	Short: "Index every PDF in a directory",
	Run: func(cmd *cobra.Command, args []string) {
		directory, _ := cmd.Flags().GetString("directory")
		reinit, _ := cmd.Flags().GetBool("reinit")

		env, err := newCmdEnv(reinit)
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer env.logger.Sync()

		files, err := os.ReadDir(directory)
		if err != nil {
			env.logger.Fatal("Failed to read directory", zap.String("directory", directory), zap.Error(err))
		}
		for _, file := range files {
			if file.IsDir() || strings.ToLower(filepath.Ext(file.Name())) != ".pdf" {
				continue
			}
			filePath := filepath.Join(directory, file.Name())
			if err := env.uploadLocalDocument(context.Background(), filePath); err != nil {
				// One bad file must not stop the rest of the batch.
				env.logger.Error("Failed to upload document", zap.String("file", filePath), zap.Error(err))
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(batchUploadDocumentCmd)

	batchUploadDocumentCmd.Flags().String("directory", "", "Path to the directory of PDFs to upload")
	batchUploadDocumentCmd.Flags().BoolP("reinit", "r", false, "Reinitialize the vector index schema first")
}
