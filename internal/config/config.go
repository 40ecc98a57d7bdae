package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// PricingInfo holds cost details per token for a specific model.
type PricingInfo struct {
	InputPerToken  float64 `mapstructure:"input_per_token"`
	OutputPerToken float64 `mapstructure:"output_per_token"`
}

type Config struct {
	Database struct {
		Primary struct {
			DSN string
		}
		Vector struct {
			DSN string `mapstructure:"DSN"`
		}
	}

	AI struct {
		OpenaiApiKey    string `mapstructure:"openai_api_key"`
		GoogleApiKey    string `mapstructure:"google_api_key"`
		ChatModel       string `mapstructure:"chat_model"`
		NormalizerModel string `mapstructure:"normalizer_model"`
		EmbeddingModel  string `mapstructure:"embedding_model"`
		GeminiModelName string `mapstructure:"gemini_model_name"`
		MaxPromptChars  int    `mapstructure:"max_prompt_chars"`
	} `mapstructure:"ai"`

	Classification struct {
		Async         bool `mapstructure:"async"`
		MaxCategories int  `mapstructure:"max_categories"`
	} `mapstructure:"classification"`

	Related struct {
		DefaultLimit int `mapstructure:"default_limit"`
	} `mapstructure:"related"`

	Redis struct {
		Address  string
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	}

	Worker struct {
		Concurrency int            `mapstructure:"concurrency"`
		Queues      map[string]int `mapstructure:"queues"`
	}

	Server struct {
		Address string `mapstructure:"address"`
	}

	// Pricing: map[provider][model] = struct{input_per_token, output_per_token}
	Pricing map[string]map[string]PricingInfo `mapstructure:"pricing"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	// The conventional env var names take precedence over config.yaml keys.
	viper.BindEnv("ai.openai_api_key", "OPENAI_API_KEY")
	viper.BindEnv("ai.google_api_key", "GEMINI_API_KEY")
	viper.BindEnv("database.primary.dsn", "DATABASE_URL")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Missing config file is fine, env vars and defaults still apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return &config, nil
}

func setDefaults() {
	viper.SetDefault("ai.chat_model", "gpt-4o-mini")
	viper.SetDefault("ai.normalizer_model", "gpt-4o-mini")
	viper.SetDefault("ai.embedding_model", "text-embedding-3-small")
	viper.SetDefault("ai.gemini_model_name", "models/embedding-001")
	viper.SetDefault("ai.max_prompt_chars", 6000)
	viper.SetDefault("classification.async", false)
	viper.SetDefault("classification.max_categories", 4)
	viper.SetDefault("related.default_limit", 5)
	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("worker.concurrency", 10)
	viper.SetDefault("server.address", ":8080")
}
