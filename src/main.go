package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BielosX/wombat/pokedex/src/colors"
	"github.com/BielosX/wombat/pokedex/src/config"
	"github.com/BielosX/wombat/pokedex/src/export"
	"github.com/BielosX/wombat/pokedex/src/loading"
	"github.com/BielosX/wombat/pokedex/src/pokeapi"
	"github.com/BielosX/wombat/pokedex/src/pokedex"
	"github.com/BielosX/wombat/pokedex/src/s3"
	"github.com/BielosX/wombat/pokedex/src/server"
	"github.com/BielosX/wombat/pokedex/src/tui"
)

var sugar *zap.SugaredLogger
var cfg *config.Config

type DetailRequest struct {
	Name string `json:"name"`
}

func newLogger(format string) (*zap.Logger, error) {
	if format == "json" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment(zap.AddStacktrace(zap.FatalLevel))
}

func newClient() *pokeapi.Client {
	return pokeapi.NewClient(sugar,
		pokeapi.WithBaseUrl(cfg.BaseUrl),
		pokeapi.WithColorsUrl(cfg.ColorsUrl),
		pokeapi.WithBundle(colors.FS))
}

func newExporter(ctx context.Context) (*export.Exporter, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("BUCKET_NAME is not set")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load SDK config: %w", err)
	}
	return export.NewExporter(newClient(), s3.NewClient(awsCfg), cfg.BucketName, sugar), nil
}

func handleDetail(ctx context.Context, request DetailRequest) (*pokedex.DetailState, error) {
	sugar.Infof("Starting Detail Handler, name: %s", request.Name)
	view := pokedex.NewDetailView(newClient(), sugar)
	if err := view.Activate(ctx, request.Name); err != nil {
		sugar.Infof("Detail activation ended: %s", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	state := view.State()
	return &state, nil
}

func handleExport(ctx context.Context, request export.Request) (*export.Result, error) {
	sugar.Infof("Starting Export Handler, term: %q", request.Term)
	exporter, err := newExporter(ctx)
	if err != nil {
		return nil, err
	}
	return exporter.Export(ctx, request)
}

func serve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(newClient(), loading.New(false), cfg.DisplayFloor, colors.FS, sugar)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	finishedShutDown := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sugar.Info("Shutting down server...")
		finishedShutDown <- httpServer.Shutdown(shutdownCtx)
	}()

	sugar.Infof("Pokedex listening at http://localhost%s", cfg.Addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-finishedShutDown
}

func browse(cmd *cobra.Command, args []string) error {
	logFile, _ := cmd.Flags().GetString("log-file")
	if logFile == "" {
		sugar = zap.NewNop().Sugar()
	} else {
		loggerConfig := zap.NewDevelopmentConfig()
		loggerConfig.OutputPaths = []string{logFile}
		loggerConfig.ErrorOutputPaths = []string{logFile}
		logger, err := loggerConfig.Build()
		if err != nil {
			return err
		}
		sugar = logger.Sugar()
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	model := tui.New(ctx, newClient(), loading.New(true), cfg.DisplayFloor, sugar)
	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if m, ok := final.(tui.Model); ok {
		m.Close()
	}
	return err
}

func runExport(cmd *cobra.Command, args []string) error {
	term, _ := cmd.Flags().GetString("term")
	exporter, err := newExporter(cmd.Context())
	if err != nil {
		return err
	}
	result, err := exporter.Export(cmd.Context(), export.Request{Term: term})
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pokedex",
		Short:         "Browse the first 151 Pokemon from PokeAPI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfg.BaseUrl, "base-url", cfg.BaseUrl, "PokeAPI base URL")
	rootCmd.PersistentFlags().StringVar(&cfg.ColorsUrl, "colors-url", cfg.ColorsUrl, "URL of the Pokemon color dataset")
	rootCmd.PersistentFlags().DurationVar(&cfg.DisplayFloor, "display-floor", cfg.DisplayFloor,
		"minimum time the loading indicator stays visible")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the list and detail pages over HTTP",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")

	browseCmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog in the terminal",
		Args:  cobra.NoArgs,
		RunE:  browse,
	}
	browseCmd.Flags().String("log-file", "", "write logs to this file")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export a catalog snapshot to S3 as Parquet and CSV",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}
	exportCmd.Flags().String("term", "", "only export Pokemon whose name contains this term")
	exportCmd.Flags().StringVar(&cfg.BucketName, "bucket", cfg.BucketName, "destination S3 bucket")

	rootCmd.AddCommand(serveCmd, browseCmd, exportCmd)
	return rootCmd
}

func syncLogger() {
	_ = sugar.Sync()
}

func main() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := newLogger(cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	sugar = logger.Sugar()
	defer syncLogger()

	switch cfg.Handler {
	case "":
	case "detail":
		lambda.Start(handleDetail)
		return
	case "export":
		lambda.Start(handleExport)
		return
	default:
		sugar.Fatalf("Unknown Handler %s", cfg.Handler)
	}

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		syncLogger()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
