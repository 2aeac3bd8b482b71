package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/a3tai/mcp-nencho-tools/internal/config"
	"github.com/a3tai/mcp-nencho-tools/internal/logging"
	"github.com/a3tai/mcp-nencho-tools/internal/mcp"
	"github.com/a3tai/mcp-nencho-tools/internal/pdf"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

var log = logrus.WithField("module", "main")

// setupLogging configures logging based on the server mode. Stdout carries
// the MCP protocol in stdio mode, so logs always go to stderr there.
func setupLogging(cfg *config.Config) error {
	var out io.Writer = os.Stderr
	if cfg.IsServerMode() {
		out = os.Stdout
	}
	return logging.Setup(out, cfg.LogLevel, cfg.LogFormat)
}

// runServerMode handles server mode execution with signal handling
func runServerMode(ctx context.Context, cancel context.CancelFunc, server *mcp.Server) int {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signalCh)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	select {
	case sig := <-signalCh:
		log.WithField("signal", sig.String()).Info("initiating graceful shutdown")
		cancel()

		if err := <-serverErrCh; err != nil {
			log.WithError(err).Error("server shutdown with error")
			return 1
		}

	case err := <-serverErrCh:
		if err != nil {
			log.WithError(err).Error("server error")
			return 1
		}
	}

	log.Info("server stopped successfully")
	return 0
}

// runStdioMode handles stdio mode execution. The parent process controls
// our lifecycle; we exit when stdin closes.
func runStdioMode(ctx context.Context, server *mcp.Server) int {
	if err := server.Run(ctx); err != nil {
		log.WithError(err).Error("server error")
		return 1
	}
	return 0
}

func run() int {
	cfg, err := config.LoadFromFlags()
	if errors.Is(err, config.ErrVersionRequested) {
		printVersion(os.Stdout)
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	if err := setupLogging(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		return 1
	}

	if version != "dev" {
		cfg.Version = version
	}
	log.Debugf("starting with configuration: %s", cfg)

	pdfService, err := pdf.NewService(cfg.MaxFileSize, cfg.PDFDirectory)
	if err != nil {
		log.WithError(err).Error("failed to create PDF service")
		return 1
	}

	server, err := mcp.NewServer(cfg, pdfService)
	if err != nil {
		log.WithError(err).Error("failed to create MCP server")
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsServerMode() {
		return runServerMode(ctx, cancel, server)
	}
	return runStdioMode(ctx, server)
}

func main() {
	os.Exit(run())
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "mcp-nencho-tools\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
