package structures

import (
	"net/http"
	"time"
)

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Url     string
	Handler http.Handler
}

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type StorageConfig struct {
	Driver        string        `yaml:"driver" validate:"required|in:memory,file,bolt,sqlite"`
	Path          string        `yaml:"path"`
	Prefix        string        `yaml:"prefix" validate:"required"`
	FlushInterval time.Duration `yaml:"flushInterval"`
	Quota         int           `yaml:"quota"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type GitHubConfig struct {
	BaseURL string        `yaml:"baseURL" validate:"required"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

type ListConfig struct {
	PageSize      int           `yaml:"pageSize"`
	StaleTime     time.Duration `yaml:"staleTime"`
	GCTime        time.Duration `yaml:"gcTime"`
	SweepInterval time.Duration `yaml:"sweepInterval"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server        `yaml:"webServer"`
	Storage   StorageConfig `yaml:"storage"`
	Logger    LoggerConfig  `yaml:"logger"`
	GitHub    GitHubConfig  `yaml:"github"`
	Lists     ListConfig    `yaml:"lists"`
	Cache     CacheConfig   `yaml:"cache"`
	Metrics   MetricsConfig `yaml:"metrics"`
}
