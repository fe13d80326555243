package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/todod/backend/internal/infrastructure/config"
	applog "github.com/todod/backend/internal/infrastructure/log"
	"github.com/todod/backend/internal/infrastructure/singleton"
	"github.com/todod/backend/internal/wire"
)

// newRootCmd 创建根命令，不带子命令时等同于 serve
func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "todod",
		Short: "todod - persistent todo list daemon",
		Long: `todod keeps a single shared todo list and persists every change
before acknowledging it. The list is served over HTTP, MCP (SSE) and a
WebSocket change feed.

Use "todod [command] --help" for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, cfgFile)
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the todod daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, cfgFile)
		},
	}

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the todod version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "todod %s\n", config.Version)
		},
	}

	root.AddCommand(serve, version)
	root.CompletionOptions.DisableDefaultCmd = true
	return root
}

// runServe 加载配置、获取单例锁并运行到收到退出信号
func runServe(cmd *cobra.Command, cfgFile string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		cmd.PrintErrf("Error: %v\n", err)
		return err
	}

	applog.Init(&cfg.Log)
	logger := applog.GetLogger()

	// 单例锁检查：尝试获取端口锁
	listener, err := singleton.CheckAndLock(cfg.Server.HTTPPort)
	if errors.Is(err, singleton.ErrAlreadyRunning) {
		logger.Info("todod is already running, exiting",
			"port", cfg.Server.HTTPPort,
		)
		return nil
	}
	if err != nil {
		logger.Error("Failed to acquire port lock",
			"port", cfg.Server.HTTPPort,
			"error", err,
		)
		return err
	}

	// Wire 自动生成的初始化函数
	app, cleanup, err := wire.InitializeAll(cfg)
	if err != nil {
		_ = listener.Close()
		logger.Error("Failed to initialize application",
			"error", err,
		)
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Start(ctx, listener); err != nil {
		_ = listener.Close()
		logger.Error("Failed to start application",
			"error", err,
		)
		return err
	}

	// 优雅关闭
	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down application...")
	case serveErr = <-app.Done():
		serveErr = fmt.Errorf("http server: %w", serveErr)
	}

	if err := app.Stop(); err != nil {
		logger.Error("Error during application shutdown",
			"error", err,
		)
	}
	logger.Info("Application stopped")
	return serveErr
}
