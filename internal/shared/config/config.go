package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Auth    AuthConfig
	Agent   AgentConfig
	Email   EmailConfig
	Summary SummaryConfig
}

type ServerConfig struct {
	Port int
	Env  string
	// BaseURL is used when composing magic links in outbound email
	BaseURL string
}

// StorageConfig holds configuration for the durable patient record snapshot.
type StorageConfig struct {
	// DataFile is the JSON snapshot holding patients, alerts and
	// nurse instructions
	DataFile string
}

type AuthConfig struct {
	JWTSecret  string
	SessionTTL time.Duration
}

// AgentConfig holds configuration for the external conversational-agent service.
type AgentConfig struct {
	URL            string
	Model          string
	EmbeddingModel string
	ContextWindow  int
	Timeout        time.Duration
	RetryAttempts  int
}

// EmailConfig holds configuration for the transactional email provider.
type EmailConfig struct {
	APIURL       string
	APIKey       string
	SenderEmail  string
	SenderName   string
	HospitalName string
	Timeout      time.Duration
}

// SummaryConfig holds configuration for AI-generated medical summaries
// in the welcome email. When the API key is empty a static template is used.
type SummaryConfig struct {
	OpenAIKey string
	Model     string
}

func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:    getEnvInt("SERVER_PORT", 8080),
			Env:     getEnv("ENV", "development"),
			BaseURL: getEnv("PORTAL_BASE_URL", "http://localhost:8080"),
		},
		Storage: StorageConfig{
			DataFile: getEnv("DATA_FILE", "data/data.json"),
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("JWT_SECRET", "dev-secret-change-in-prod"),
			SessionTTL: getEnvDuration("SESSION_TTL", time.Hour),
		},
		Agent: AgentConfig{
			URL:            getEnv("AGENT_SERVICE_URL", "http://localhost:8283"),
			Model:          getEnv("AGENT_MODEL", "openai/gpt-4o-mini"),
			EmbeddingModel: getEnv("AGENT_EMBEDDING_MODEL", "openai/text-embedding-3-small"),
			ContextWindow:  getEnvInt("AGENT_CONTEXT_WINDOW", 16000),
			Timeout:        getEnvDuration("AGENT_TIMEOUT", 30*time.Second),
			RetryAttempts:  getEnvInt("AGENT_RETRY_ATTEMPTS", 3),
		},
		Email: EmailConfig{
			APIURL:       getEnv("EMAIL_API_URL", "https://api.brevo.com/v3"),
			APIKey:       getEnv("EMAIL_API_KEY", ""),
			SenderEmail:  getEnv("SENDER_EMAIL", "noreply@yourhospital.com"),
			SenderName:   getEnv("SENDER_NAME", "Healthcare Team"),
			HospitalName: getEnv("HOSPITAL_NAME", "General Hospital"),
			Timeout:      getEnvDuration("EMAIL_TIMEOUT", 15*time.Second),
		},
		Summary: SummaryConfig{
			OpenAIKey: getEnv("OPENAI_API_KEY", ""),
			Model:     getEnv("OPENAI_SUMMARY_MODEL", "gpt-4o-mini"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
