package providers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"ghexplorer/internal/structures"

	"github.com/rs/zerolog"
)

type TypeEnum int

const (
	TypeApp TypeEnum = iota
	TypeStorage
	TypeCache
	TypeGitHub
	TypeGet
	TypePost
)

var typeNames = map[TypeEnum]string{
	TypeApp:     "app",
	TypeStorage: "storage",
	TypeCache:   "cache",
	TypeGitHub:  "github",
	TypeGet:     "get",
	TypePost:    "post",
}

func (t TypeEnum) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "app"
}

type Logger interface {
	Errorf(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Debugf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

// GetLogTypeByRequestType picks the request log category. Everything that is
// not a POST is logged with GET traffic.
func GetLogTypeByRequestType(method string) TypeEnum {
	if method == "POST" {
		return TypePost
	}
	return TypeGet
}

type LogProvider struct {
	files   []*os.File
	loggers map[TypeEnum]zerolog.Logger
}

func (l *LogProvider) logger(t TypeEnum) *zerolog.Logger {
	lg, ok := l.loggers[t]
	if !ok {
		lg = l.loggers[TypeApp]
	}
	return &lg
}

func (l *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	l.logger(t).Error().Str("type", t.String()).Msgf(format, args...)
}

func (l *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	l.logger(t).Warn().Str("type", t.String()).Msgf(format, args...)
}

func (l *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	l.logger(t).Debug().Str("type", t.String()).Msgf(format, args...)
}

func (l *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	l.logger(t).Info().Str("type", t.String()).Msgf(format, args...)
}

func (l *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	l.logger(t).Fatal().Str("type", t.String()).Msgf(format, args...)
}

func (l *LogProvider) Close() {
	for _, f := range l.files {
		_ = f.Sync()
		_ = f.Close()
	}
	l.files = nil
}

// NewLogProvider opens one log file per category under conf.Logger.Dir.
// In debug mode every category is mirrored to stdout.
func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", conf.Logger.Level, err)
	}

	info, err := os.Stat(conf.Logger.Dir)
	if err != nil {
		return nil, fmt.Errorf("log dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("log dir %s is not a directory", conf.Logger.Dir)
	}

	provider := &LogProvider{loggers: make(map[TypeEnum]zerolog.Logger, len(typeNames))}
	for t, name := range typeNames {
		path := filepath.Join(conf.Logger.Dir, name+".log")
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, os.FileMode(conf.Logger.Mode))
		if err != nil {
			provider.Close()
			return nil, fmt.Errorf("open log file %s: %w", path, err)
		}
		provider.files = append(provider.files, file)

		var out io.Writer = file
		if conf.Debug {
			out = zerolog.MultiLevelWriter(file, zerolog.ConsoleWriter{Out: os.Stdout})
		}
		provider.loggers[t] = zerolog.New(out).Level(level).With().Timestamp().Logger()
	}

	return provider, nil
}

// NewManagedLogProvider is NewLogProvider with a cleanup that closes the log files.
func NewManagedLogProvider(conf *structures.Config) (Logger, func(), error) {
	logger, err := NewLogProvider(conf)
	if err != nil {
		return nil, nil, err
	}
	return logger, logger.Close, nil
}
