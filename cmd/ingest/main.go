// Command ingest loads knowledge JSONL files into the vector store.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sorcererxstreme/chatbot/internal/config"
	"github.com/sorcererxstreme/chatbot/internal/infrastructure/embedding"
	"github.com/sorcererxstreme/chatbot/internal/infrastructure/vectordb"
	"github.com/sorcererxstreme/chatbot/internal/knowledge"
)

var (
	configPath string
	batchSize  int
)

var rootCmd = &cobra.Command{
	Use:   "ingest [file.jsonl...]",
	Short: "Embed knowledge records and upsert them into Qdrant",
	Long: `Each line of the input is a JSON record:
  {"category": "...", "entity_name": "...", "keywords": [...], "contexts": {...}}
Records are embedded in batches and stored under an id derived from category and
entity_name, so re-running the command updates entries in place.`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runIngest,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (default ./config.yaml)")
	rootCmd.Flags().IntVarP(&batchSize, "batch", "b", knowledge.DefaultBatchSize, "records per embedding call")
}

func runIngest(cmd *cobra.Command, args []string) error {
	conf, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: conf.Log.SlogLevel()})))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	vecClient, err := vectordb.NewQdrantClient(conf.Qdrant.Host, conf.Qdrant.Port, conf.Qdrant.CollectionName, conf.Qdrant.VectorSize)
	if err != nil {
		return err
	}
	defer vecClient.Close()
	if err := vecClient.InitCollection(ctx); err != nil {
		return err
	}

	ingester := knowledge.NewIngester(
		embedding.NewOpenAIClient(conf.OpenAI.APIKey, conf.OpenAI.BaseURL, conf.OpenAI.Model),
		vectordb.NewQdrantRepository(vecClient),
		batchSize,
	)

	for _, path := range args {
		if err := ingestFile(ctx, ingester, path); err != nil {
			return err
		}
	}
	return nil
}

func ingestFile(ctx context.Context, ingester *knowledge.Ingester, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	stats, err := ingester.Ingest(ctx, f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	fmt.Printf("%s: read %d, stored %d, skipped %d\n", path, stats.Read, stats.Stored, stats.Skipped)
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
