package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port      int    `envconfig:"PORT" default:"8080"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	APIPrefix string `envconfig:"API_PREFIX" default:"/api/v1"`
	Version   string `envconfig:"VERSION" default:"dev"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	JWTSecret  string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL   time.Duration `envconfig:"TOKEN_TTL" default:"2h"`
	BcryptCost int           `envconfig:"BCRYPT_COST" default:"12"`

	S3Bucket     string        `envconfig:"S3_BUCKET" required:"true"`
	S3Region     string        `envconfig:"S3_REGION" default:"us-east-1"`
	S3Endpoint   string        `envconfig:"S3_ENDPOINT" default:""`
	S3AccessKey  string        `envconfig:"S3_ACCESS_KEY" default:""`
	S3SecretKey  string        `envconfig:"S3_SECRET_KEY" default:""`
	SignedURLTTL time.Duration `envconfig:"SIGNED_URL_TTL" default:"2h"`

	GenAIBaseURL string `envconfig:"GENAI_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta"`
	GenAIModel   string `envconfig:"GENAI_MODEL" default:"gemini-1.5-flash"`
	GenAIAPIKey  string `envconfig:"GENAI_API_KEY" required:"true"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
