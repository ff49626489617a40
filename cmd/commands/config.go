package commands

import (
	"errors"
	"time"

	"github.com/spf13/viper"

	"sumeval/pkg/eval"
	"sumeval/pkg/judge"
)

type Config struct {
	Provider  string          `mapstructure:"provider"`
	Workers   int             `mapstructure:"workers"`
	Output    string          `mapstructure:"output"`
	Format    string          `mapstructure:"format"`
	LogDir    string          `mapstructure:"log_dir"`
	Model     ModelConfig     `mapstructure:"model"`
	Judge     JudgeConfig     `mapstructure:"judge"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

type ModelConfig struct {
	Name         string `mapstructure:"name"`
	MockResponse string `mapstructure:"mock_response"`
}

type JudgeConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	MaxRetries     int `mapstructure:"max_retries"`
	BackoffMillis  int `mapstructure:"backoff_millis"`
	Concurrency    int `mapstructure:"concurrency"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type CacheConfig struct {
	Dir      string `mapstructure:"dir"`
	Disabled bool   `mapstructure:"disabled"`
	TTLHours int    `mapstructure:"ttl_hours"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{}
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".sumeval")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// evalConfig assembles the engine configuration from the loaded file plus
// per-command flag overrides.
func (c Config) evalConfig(provider, modelName, mockResponse string) eval.Config {
	policy := judge.Policy{}
	if c.Judge.TimeoutSeconds > 0 {
		policy.Timeout = time.Duration(c.Judge.TimeoutSeconds) * time.Second
	}
	if c.Judge.MaxRetries > 0 {
		policy.MaxRetries = c.Judge.MaxRetries
	}
	if c.Judge.BackoffMillis > 0 {
		policy.Backoff = time.Duration(c.Judge.BackoffMillis) * time.Millisecond
	}

	var ttl time.Duration
	if c.Cache.TTLHours > 0 {
		ttl = time.Duration(c.Cache.TTLHours) * time.Hour
	}

	return eval.Config{
		Provider:          resolveString(provider, c.Provider),
		Model:             resolveString(modelName, c.Model.Name),
		MockResponse:      resolveString(mockResponse, c.Model.MockResponse),
		Policy:            policy,
		RemoteConcurrency: c.Judge.Concurrency,
		RateLimitRPS:      c.RateLimit.RPS,
		RateLimitBurst:    c.RateLimit.Burst,
		CacheDir:          c.Cache.Dir,
		CacheTTL:          ttl,
		NoCache:           c.Cache.Disabled,
		Logger:            logger,
	}
}
