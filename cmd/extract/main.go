package main

import (
	"fmt"
	"os"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"cascade-intel/internal/extractor"
	"cascade-intel/internal/graph"
	"cascade-intel/internal/pipeline"
	"cascade-intel/internal/store"
	"cascade-intel/pkg/config"
	"cascade-intel/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "cascade-extract",
		Usage: "Extract structured intelligence from assessment sessions into the graph",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "reprocess",
				Usage: "Reprocess all sessions, even already processed ones",
			},
			&cli.StringFlag{
				Name:  "session",
				Usage: "Process a single session by ID",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting intelligence extraction pipeline")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx := c.Context

	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		return fmt.Errorf("failed to create Neo4j driver: %w", err)
	}
	defer driver.Close(ctx)

	repo := graph.NewRepository(driver, cfg.Neo4jDatabase)

	// Graph connectivity is the only fatal precondition
	if err := repo.VerifyConnectivity(ctx); err != nil {
		log.Error("Cannot connect to Neo4j", zap.Error(err))
		return cli.Exit("cannot connect to Neo4j", 1)
	}
	log.Info("Neo4j connection verified", zap.String("uri", cfg.Neo4jURI))

	sessionStore, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to source store: %w", err)
	}
	defer sessionStore.Close()

	intelExtractor, err := extractor.New(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.ModelID)
	if err != nil {
		return fmt.Errorf("failed to create extractor: %w", err)
	}

	pipe := pipeline.New(sessionStore, intelExtractor, repo)

	_, err = pipe.Run(ctx, pipeline.Options{
		Reprocess: c.Bool("reprocess"),
		SessionID: c.String("session"),
	})
	return err
}
