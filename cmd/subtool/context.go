package main

import (
	"log/slog"
	"strings"
	"sync"

	"subtool/internal/config"
	"subtool/internal/ffbin"
	"subtool/internal/ffmpeg"
	"subtool/internal/ffprobe"
	"subtool/internal/logging"
	"subtool/internal/replace"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.New(logging.Options{
			Level:       cfg.Logging.Level,
			Format:      cfg.Logging.Format,
			OutputPaths: cfg.LogPaths(),
		})
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func toolSettings(cfg *config.Config) ffbin.Settings {
	return ffbin.Settings{
		PreferBundled: cfg.Tools.PreferBundled,
		CustomPaths: map[string]string{
			ffbin.FFmpeg:  cfg.Tools.FFmpegPath,
			ffbin.FFprobe: cfg.Tools.FFprobePath,
		},
		BundleDir: cfg.Tools.BundleDir,
	}
}

// toolset bundles the resolved binaries and the services built on them.
type toolset struct {
	prober   *ffprobe.Prober
	runner   *ffmpeg.Runner
	replacer *replace.Replacer
	logger   *slog.Logger
}

func (c *commandContext) newToolset() (*toolset, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}

	resolver := ffbin.NewResolver(toolSettings(cfg))
	ffprobePath, err := resolver.Resolve(ffbin.FFprobe)
	if err != nil {
		return nil, err
	}
	ffmpegPath, err := resolver.Resolve(ffbin.FFmpeg)
	if err != nil {
		return nil, err
	}

	prober := ffprobe.NewProber(ffprobePath, logger)
	return &toolset{
		prober:   prober,
		runner:   ffmpeg.NewRunner(ffmpegPath, prober, logger),
		replacer: replace.NewReplacer(logger),
		logger:   logger,
	}, nil
}
