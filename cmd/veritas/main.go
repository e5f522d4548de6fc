// Package main is the Veritas CLI entry point.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/veritas/internal/cli"
	"github.com/hyperjump/veritas/internal/config"
	"github.com/hyperjump/veritas/internal/embedding"
	"github.com/hyperjump/veritas/internal/extract"
	"github.com/hyperjump/veritas/internal/generator"
	"github.com/hyperjump/veritas/internal/indexer"
	"github.com/hyperjump/veritas/internal/loader"
	"github.com/hyperjump/veritas/internal/rag"
	"github.com/hyperjump/veritas/internal/server"
	"github.com/hyperjump/veritas/internal/session"
	"github.com/hyperjump/veritas/internal/storage"
	"github.com/hyperjump/veritas/internal/vector"
	"github.com/hyperjump/veritas/pkg/utils"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/veritas/config.yaml"

// loadConfig loads config from path. When path is the default, config.yaml in the current
// directory wins if it exists. A missing file yields the defaults.
// Returns the config and the path that was actually used.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, err := os.Getwd(); err == nil {
			local := filepath.Join(cwd, "config.yaml")
			if _, err := os.Stat(local); err == nil {
				path = local
			}
		}
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	// Secrets such as GOOGLE_API_KEY may live in .env; a missing file is fine.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ask":
		runAsk()
	case "index":
		runIndex()
	case "init":
		runInit()
	case "version", "--version", "-v":
		fmt.Printf("veritas version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// commonFlags registers the flags every pipeline-building subcommand shares.
type commonFlags struct {
	configPath *string
	debug      *bool
	corpus     *string
}

func addCommonFlags(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		configPath: fs.String("config", defaultConfigPath, "config file path"),
		debug:      fs.Bool("debug", false, "enable debug logging"),
		corpus:     fs.String("corpus", "", "corpus folder (overrides corpus.folder_path)"),
	}
}

// setup loads the config, applies flag overrides and creates the logger.
func (f commonFlags) setup() (*config.Config, *zap.Logger) {
	cfg, resolved, err := loadConfig(*f.configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *f.corpus != "" {
		cfg.Corpus.FolderPath = *f.corpus
	}
	debugMode := cfg.Debug || *f.debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.Info("config loaded",
		zap.String("config_path", resolved),
		zap.String("corpus", cfg.Corpus.FolderPath),
		zap.Bool("debug", debugMode),
	)
	return cfg, logger
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	common := addCommonFlags(fs)
	_ = fs.Parse(os.Args[2:])

	cfg, logger := common.setup()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := initializeComponents(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	srv := server.NewServer(
		components.Pipeline,
		session.NewManager(components.Pipeline,
			session.WithIdleTTL(time.Duration(cfg.Server.SessionIdleMinutes)*time.Minute),
			session.WithMaxSessions(cfg.Server.MaxSessions),
		),
		components.Transcripts,
		components.buildInfo(cfg),
		&cfg.Server,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(shutdownCtx)
}

func runAsk() {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	common := addCommonFlags(fs)
	output := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: veritas ask [flags] [question]\n\n")
		fmt.Fprintf(fs.Output(), "With a question, answers it and exits. Without one, starts a chat on stdin.\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*output)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	cfg, logger := common.setup()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := initializeComponents(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	sess := components.Pipeline.NewSession(uuid.NewString())
	if question := questionFromArgs(fs.Args()); question != "" {
		ans, err := sess.Ask(ctx, question)
		if err != nil {
			fmt.Printf("%s\n(%v)\n", cfg.LLM.FallbackMessage, err)
			os.Exit(1)
		}
		_ = cli.WriteAnswer(os.Stdout, ans, format)
		return
	}
	if err := chatLoop(ctx, os.Stdin, os.Stdout, sess, format, cfg.LLM.FallbackMessage); err != nil {
		fmt.Printf("Chat ended: %v\n", err)
		os.Exit(1)
	}
}

func runIndex() {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	common := addCommonFlags(fs)
	output := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*output)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if fs.NArg() > 0 {
		*common.corpus = fs.Arg(0)
	}
	cfg, logger := common.setup()
	defer logger.Sync()

	emb, err := embedding.New(context.Background(), &cfg.Embedding, logger)
	if err != nil {
		logger.Fatal("Failed to initialize embedder", zap.Error(err))
	}
	defer emb.Close()

	res, err := buildIndex(context.Background(), cfg, emb, logger)
	if err != nil {
		fmt.Printf("Indexing failed: %v\n", err)
		os.Exit(1)
	}
	_ = cli.WriteBuildReport(os.Stdout, buildReport(cfg.Corpus.FolderPath, emb.ModelID(), res), format)
}

func runInit() {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	path := fs.String("config", "config.yaml", "where to write the config file")
	force := fs.Bool("force", false, "overwrite an existing file")
	_ = fs.Parse(os.Args[2:])

	if err := writeDefaultConfig(*path, *force); err != nil {
		fmt.Printf("Init failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote default config to %s\n", *path)
}

func writeDefaultConfig(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use -force to overwrite)", path)
		}
	}
	return config.Save(path, config.Default())
}

// questionFromArgs joins positional arguments, so quoting the question is optional.
func questionFromArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// chatLoop reads one question per line and answers it within one session until EOF or "exit".
func chatLoop(ctx context.Context, in io.Reader, out io.Writer, sess *rag.Session, format cli.OutputFormat, fallback string) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, "Ask a question about your documents (\"exit\" to quit).")
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		ans, err := sess.Ask(ctx, line)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(out, "%s\n", fallback)
			continue
		}
		if err := cli.WriteAnswer(out, ans, format); err != nil {
			return err
		}
	}
}

// Components holds the services built at startup.
type Components struct {
	Embedder    embedding.Embedder
	ChatModel   generator.ChatModel
	Build       *indexer.Result
	Pipeline    *rag.Pipeline
	Transcripts storage.TranscriptStore
}

func (c *Components) Close() {
	if c.Transcripts != nil {
		_ = c.Transcripts.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
}

func (c *Components) llmModelID() string {
	if c.ChatModel == nil {
		return "extractive"
	}
	return c.ChatModel.ModelID()
}

func (c *Components) buildInfo(cfg *config.Config) server.BuildInfo {
	return server.BuildInfo{
		CorpusPath:     cfg.Corpus.FolderPath,
		Documents:      len(c.Build.Documents),
		Chunks:         len(c.Build.Chunks),
		Failures:       len(c.Build.Failures),
		Skipped:        c.Build.Skipped,
		EmbeddingModel: c.Embedder.ModelID(),
		LLMModel:       c.llmModelID(),
		BuildDuration:  c.Build.Duration,
	}
}

// buildIndex runs the build phase for cfg's corpus with emb.
func buildIndex(ctx context.Context, cfg *config.Config, emb embedding.Embedder, logger *zap.Logger) (*indexer.Result, error) {
	metric, err := vector.ParseMetric(cfg.Retrieval.Metric)
	if err != nil {
		return nil, err
	}
	chunker, err := indexer.NewChunker(cfg.Chunking.ChunkSize, cfg.Chunking.ChunkOverlap)
	if err != nil {
		return nil, err
	}
	ld := loader.NewLoader(extract.NewExtractor(),
		loader.WithLogger(logger),
		loader.WithRecursive(cfg.Corpus.RecursiveOrDefault()),
		loader.WithExtensions(cfg.Corpus.Extensions),
	)
	idx := indexer.NewIndexer(ld, chunker, emb,
		indexer.WithLogger(logger),
		indexer.WithMetric(metric),
		indexer.WithNormalizeWhitespace(cfg.Corpus.NormalizeWhitespace),
		indexer.WithBatchSize(cfg.Embedding.BatchSize),
	)
	return idx.Build(ctx, cfg.Corpus.FolderPath)
}

// initializeComponents builds the index once, then the generator and pipeline around it.
func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	c := &Components{}
	emb, err := embedding.New(ctx, &cfg.Embedding, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}
	c.Embedder = emb

	c.Build, err = buildIndex(ctx, cfg, emb, logger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to build index: %w", err)
	}

	gen, model, err := generator.New(ctx, &cfg.LLM, logger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize generator: %w", err)
	}
	c.ChatModel = model

	c.Transcripts, err = storage.Open(cfg.Storage.TranscriptPath)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to open transcript store: %w", err)
	}

	opts := []rag.PipelineOption{
		rag.WithK(cfg.Retrieval.K),
		rag.WithLogger(logger),
		rag.WithFallbackMessage(cfg.LLM.FallbackMessage),
		rag.WithTranscripts(c.Transcripts),
	}
	if cfg.Retrieval.CondenseQuestion {
		if model != nil {
			opts = append(opts, rag.WithCondenser(generator.NewCondenser(model, time.Duration(cfg.LLM.TimeoutSecs)*time.Second)))
		} else {
			logger.Warn("retrieval.condense_question needs a language model; ignored for the extractive provider")
		}
	}
	c.Pipeline = rag.NewPipeline(c.Build.Index, emb, gen, opts...)
	return c, nil
}

func buildReport(corpus, embeddingModel string, res *indexer.Result) *cli.BuildReport {
	report := &cli.BuildReport{
		CorpusPath:     corpus,
		Documents:      len(res.Documents),
		Chunks:         len(res.Chunks),
		Skipped:        res.Skipped,
		Failures:       []cli.FailedFile{},
		Dimensions:     res.Index.Dimensions(),
		EmbeddingModel: embeddingModel,
		Duration:       res.Duration,
	}
	for _, f := range res.Failures {
		report.Failures = append(report.Failures, cli.FailedFile{Path: f.Path, Error: f.Err.Error()})
	}
	return report
}

func printUsage() {
	fmt.Println(`veritas - Chat with your documents

Usage:
  veritas server [flags]            Build the index and start the chat API
  veritas ask [flags] [question]    Answer one question, or chat on stdin
  veritas index [flags] [folder]    Build the index and print a report
  veritas init [flags]              Write a default config.yaml
  veritas version                   Show version
  veritas help                      Show this help

Common Flags (server, ask, index):
  --config string    Config file path (default: /usr/local/etc/veritas/config.yaml, or ./config.yaml if present)
  --debug            Enable debug logging
  --corpus string    Corpus folder (overrides corpus.folder_path)

Ask/Index Flags:
  --output string    Output format: text or json (default: text)

Init Flags:
  --config string    Where to write the file (default: config.yaml)
  --force            Overwrite an existing file

Environment:
  GOOGLE_API_KEY     Gemini API key (llm.provider: gemini). May be set in .env.
  OPENAI_API_KEY     OpenAI API key (llm.provider: openai).

Examples:
  veritas init
  veritas index ./docs
  veritas ask "How many days do I have to return an item?"
  veritas ask --output json "What is the refund policy?"
  veritas server --corpus ./docs`)
}
