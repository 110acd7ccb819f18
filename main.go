package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/any-hub/any-store/internal/config"
	"github.com/any-hub/any-store/internal/logging"
	"github.com/any-hub/any-store/internal/server"
	"github.com/any-hub/any-store/internal/server/routes"
	"github.com/any-hub/any-store/internal/snapshot"
	"github.com/any-hub/any-store/internal/version"
)

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	configPath  string
	checkOnly   bool
	showVersion bool
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
func run(opts cliOptions) int {
	if opts.showVersion {
		fmt.Fprintln(stdOut, version.Full())
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return 1
	}

	logger, err := logging.InitLogger(cfg.Global)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}
	defer logging.Close(logger)

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["modules"] = config.ModuleSummaries(cfg.Modules)
		fields["state_keys"] = len(cfg.State)
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	// 启动遵循“配置 → 快照目录 → Host（预加载模块）→ Fiber server”顺序，
	// 任何一步失败都不会对外监听端口。
	snapshots, err := snapshot.NewStore(cfg.Global.StoragePath, cfg.Global.SnapshotFormat)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化快照目录失败: %v\n", err)
		return 1
	}

	host, err := server.NewHost(cfg, logger, snapshots)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化 store 失败: %v\n", err)
		return 1
	}

	fields := logging.BaseFields("startup", opts.configPath)
	fields["modules"] = config.ModuleSummaries(cfg.Modules)
	fields["listen_port"] = cfg.Global.ListenPort
	fields["snapshot_format"] = cfg.Global.SnapshotFormat
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("配置加载完成")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := startHTTPServer(ctx, cfg, host, logger); err != nil {
		fmt.Fprintf(stdErr, "HTTP 服务启动失败: %v\n", err)
		return 1
	}
	return 0
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("any-store", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFlag string
		checkOnly  bool
		showVer    bool
	)

	fs.StringVar(&configFlag, "config", "", "配置文件路径（默认 ./config.toml，可被 ANY_STORE_CONFIG 覆盖）")
	fs.BoolVar(&checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&showVer, "version", false, "显示版本信息")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}

	path := os.Getenv("ANY_STORE_CONFIG")
	if configFlag != "" {
		path = configFlag
	}
	if path == "" {
		path = "config.toml"
	}

	return cliOptions{
		configPath:  path,
		checkOnly:   checkOnly,
		showVersion: showVer,
	}, nil
}

// startHTTPServer 监听端口直到 ctx 结束，然后在 ShutdownTimeout 内优雅退出。
func startHTTPServer(ctx context.Context, cfg *config.Config, host *server.Host, logger *logrus.Logger) error {
	port := cfg.Global.ListenPort
	app, err := server.NewApp(server.AppOptions{
		Logger: logger,
		Host:   host,
	})
	if err != nil {
		return err
	}
	routes.Register(app, host)

	logger.WithFields(logrus.Fields{
		"action": "listen",
		"port":   port,
	}).Info("Fiber 服务启动")

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(fmt.Sprintf(":%d", port))
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.WithFields(logrus.Fields{
		"action":  "shutdown",
		"timeout": cfg.Global.ShutdownTimeout.DurationValue().String(),
	}).Info("收到退出信号，正在关闭 Fiber 服务")
	if err := app.ShutdownWithTimeout(cfg.Global.ShutdownTimeout.DurationValue()); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
