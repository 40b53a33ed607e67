package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/filter"
	"github.com/shimmeringbee/logwrap/impl/golog"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggingConfig struct {
	Level string

	// Filename, when set, sends logs to a rotating file instead of stderr.
	Filename string
	Size     int
	Count    int
	Compress bool
}

func Logging(v *viper.Viper) LoggingConfig {
	return LoggingConfig{
		Level:    v.GetString(KeyLogLevel),
		Filename: v.GetString(KeyLogFile),
		Size:     v.GetInt(KeyLogMaxSize),
		Count:    v.GetInt(KeyLogMaxBackups),
		Compress: v.GetBool(KeyLogCompress),
	}
}

// NewLogger builds the logger handed to every camera component.
func NewLogger(cfg LoggingConfig) (logwrap.Logger, error) {
	var w io.Writer = os.Stderr

	if cfg.Filename != "" {
		w = &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.Size,
			MaxBackups: cfg.Count,
			Compress:   cfg.Compress,
		}
	}

	impl, err := constructFilter(cfg.Level, golog.Wrap(log.New(w, "", log.LstdFlags)))
	if err != nil {
		return logwrap.New(impl), err
	}

	return logwrap.New(impl), nil
}

func parseLevel(level string) (logwrap.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "panic":
		return logwrap.Panic, nil
	case "fatal":
		return logwrap.Fatal, nil
	case "error":
		return logwrap.Error, nil
	case "warn":
		return logwrap.Warn, nil
	case "", "info":
		return logwrap.Info, nil
	case "debug":
		return logwrap.Debug, nil
	case "trace":
		return logwrap.Trace, nil
	default:
		return logwrap.Info, fmt.Errorf("unknown log level '%s'", level)
	}
}

func constructFilter(levelName string, base logwrap.Impl) (logwrap.Impl, error) {
	level, err := parseLevel(levelName)
	if err != nil {
		return base, err
	}

	return filter.Filter(base, func(message logwrap.Message) bool {
		return message.Level <= level
	}), nil
}
