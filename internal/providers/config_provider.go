package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"ghexplorer/internal/structures"

	"github.com/spf13/viper"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("webServer.host", "127.0.0.1")
	v.SetDefault("webServer.port", 8085)
	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.prefix", "github-explorer")
	v.SetDefault("storage.flushInterval", 30*time.Second)
	v.SetDefault("github.baseURL", "https://api.github.com")
	v.SetDefault("github.timeout", 10*time.Second)
	v.SetDefault("lists.pageSize", 10)
	v.SetDefault("lists.staleTime", 5*time.Minute)
	v.SetDefault("lists.gcTime", 10*time.Minute)
	v.SetDefault("lists.sweepInterval", time.Minute)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size", 16)
	v.SetDefault("cache.ttl", 5*time.Minute)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	setDefaults(v)

	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	_ = v.BindEnv("logger.level", "GHX_LOG_LEVEL")
	_ = v.BindEnv("storage.driver", "GHX_STORAGE_DRIVER")
	_ = v.BindEnv("storage.path", "GHX_STORAGE_PATH")
	_ = v.BindEnv("github.token", "GHX_GITHUB_TOKEN", "GITHUB_TOKEN")
	_ = v.BindEnv("lists.pageSize", "GHX_PAGE_SIZE")
	_ = v.BindEnv("cache.enabled", "GHX_CACHE_ENABLED")
	_ = v.BindEnv("cache.size", "GHX_CACHE_SIZE")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "GitHubExplorer"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
