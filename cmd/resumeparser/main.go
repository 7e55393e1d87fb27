package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"resume-extract-go/internal/config"
	"resume-extract-go/internal/logger"
	"resume-extract-go/internal/parser"
	"resume-extract-go/internal/processor"
	"resume-extract-go/internal/storage"
)

// 命令行参数
var (
	configPath string
	folderPath string
	filePath   string
	workers    int
	dryRun     bool
	genConfig  bool
)

func main() {
	pflag.StringVarP(&configPath, "config", "c", "", "配置文件路径，为空时按默认搜索路径查找")
	pflag.StringVarP(&folderPath, "dir", "d", "", "批量解析的简历目录，覆盖配置中的resume_folder")
	pflag.StringVarP(&filePath, "file", "f", "", "仅解析单个简历文件")
	pflag.IntVarP(&workers, "workers", "w", 0, "批量解析的并发工作协程数，覆盖配置值")
	pflag.BoolVar(&dryRun, "dry-run", false, "仅解析并打印结果JSON，不连接任何存储后端")
	pflag.BoolVar(&genConfig, "gen-config", false, "在当前目录生成示例配置文件后退出")
	pflag.Parse()

	if genConfig {
		if err := config.CreateSampleConfig("config.yaml"); err != nil {
			fmt.Fprintf(os.Stderr, "生成示例配置失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("已生成 config.yaml")
		return
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})
	logger.Info().Str("level", cfg.Logger.Level).Msg("日志系统初始化完成")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pdfExtractor, err := buildExtractor(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("创建PDF提取器失败")
	}

	componentOpts := []processor.ComponentOpt{
		processor.WithcompExtractor(pdfExtractor),
		processor.WithcompParser(parser.NewResumeParser()),
	}

	// 干跑模式不触碰任何存储后端，方便本地验证解析效果
	var storageManager *storage.Storage
	if !dryRun {
		storageManager, err = storage.NewStorage(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("初始化存储失败")
		}
		defer storageManager.Close()
		logger.Info().Msg("存储服务初始化成功")

		componentOpts = append(componentOpts, processor.WithcompStorage(storageManager))
	}

	if workers <= 0 {
		workers = cfg.App.Workers
	}

	proc := processor.NewCandidateProcessor(componentOpts,
		processor.WithsetWorkers(workers),
		processor.WithsetDryrun(dryRun),
		processor.WithsetExtractorversion(cfg.ActiveExtractorVersion),
	)

	startTime := time.Now()
	if filePath != "" {
		runSingleFile(ctx, proc, filePath)
	} else {
		folder := folderPath
		if folder == "" {
			folder = cfg.App.ResumeFolder
		}
		runFolder(ctx, proc, folder)
	}
	logger.Info().Dur("elapsed", time.Since(startTime)).Msg("处理结束")
}

// buildExtractor 按配置选择PDF文本提取器
// Tika服务器地址非空时走Tika，否则使用内置的Eino解析器
func buildExtractor(ctx context.Context, cfg *config.Config) (processor.TextExtractor, error) {
	if cfg.Tika.ServerURL != "" {
		var tikaOptions []parser.TikaOption
		if cfg.Tika.Timeout > 0 {
			tikaOptions = append(tikaOptions, parser.WithTikaTimeout(time.Duration(cfg.Tika.Timeout)*time.Second))
		}
		logger.Info().Str("server", cfg.Tika.ServerURL).Msg("使用Tika PDF解析器")
		return parser.NewTikaPDFExtractor(cfg.Tika.ServerURL, tikaOptions...), nil
	}

	logger.Info().Msg("使用Eino PDF解析器")
	return parser.NewEinoPDFTextExtractor(ctx)
}

func runSingleFile(ctx context.Context, proc *processor.CandidateProcessor, path string) {
	result, err := proc.ProcessFile(ctx, path)
	if err != nil {
		logger.Fatal().Err(err).Str("file", path).Msg("简历处理失败")
	}
	printResult(result)
}

func runFolder(ctx context.Context, proc *processor.CandidateProcessor, folder string) {
	results, err := proc.ProcessFolder(ctx, folder)
	if err != nil {
		logger.Fatal().Err(err).Str("folder", folder).Msg("批量处理失败")
	}
	for _, result := range results {
		printResult(result)
	}
}

// printResult 以易读JSON输出单份解析结果
func printResult(result *processor.ProcessResult) {
	if result == nil {
		return
	}
	if result.Skipped {
		logger.Warn().Str("file", result.FilePath).Str("reason", result.SkipReason).Msg("已跳过")
		return
	}
	data, err := json.MarshalIndent(result.Candidate, "", "  ")
	if err != nil {
		logger.Error().Err(err).Str("file", result.FilePath).Msg("序列化解析结果失败")
		return
	}
	fmt.Printf("--- %s ---\n%s\n", result.FilePath, data)
}
