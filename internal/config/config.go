package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"Banksync"`
		Port     int    `envconfig:"PORT" default:"8080"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"banksync"`
		Migrate  bool   `envconfig:"DB_MIGRATE" default:"true"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	}

	Sync struct {
		BaseURL        string `envconfig:"ENABLEBANKING_BASE_URL" default:"https://api.enablebanking.com"`
		ApplicationID  string `envconfig:"ENABLEBANKING_APPLICATION_ID"`
		PrivateKeyPath string `envconfig:"ENABLEBANKING_PRIVATE_KEY"`
		RedirectURL    string `envconfig:"ENABLEBANKING_REDIRECT_URL"`
		DateField      string `envconfig:"SYNC_DATE_FIELD" default:"booking_date"`
		OffsetDays     int    `envconfig:"SYNC_OFFSET_DAYS" default:"2"`
	}

	Matching struct {
		DateWindowDays int    `envconfig:"MATCHING_DATE_WINDOW_DAYS" default:"3"`
		JournalsFile   string `envconfig:"MATCHING_JOURNALS_FILE"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	switch cfg.Sync.DateField {
	case "booking_date", "value_date":
	default:
		return nil, fmt.Errorf("SYNC_DATE_FIELD must be booking_date or value_date, got %q", cfg.Sync.DateField)
	}

	return &cfg, nil
}

// JournalSettings overrides the thresholds stored for a journal.
type JournalSettings struct {
	SimilarityThreshold  int `yaml:"similarity_threshold"`
	AcceptableSimilarity int `yaml:"acceptable_similarity"`
}

type journalsFile struct {
	Journals map[string]JournalSettings `yaml:"journals"`
}

// LoadJournals reads per-journal settings keyed by journal name. An empty
// path yields no overrides.
func LoadJournals(path string) (map[string]JournalSettings, error) {
	if path == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading journals file: %w", err)
	}

	var f journalsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing journals file: %w", err)
	}

	for name, s := range f.Journals {
		if err := checkRange(name, "similarity_threshold", s.SimilarityThreshold); err != nil {
			return nil, err
		}

		if err := checkRange(name, "acceptable_similarity", s.AcceptableSimilarity); err != nil {
			return nil, err
		}
	}

	return f.Journals, nil
}

func checkRange(journal, field string, v int) error {
	if v == 0 || (v >= 1 && v <= 10) {
		return nil
	}

	return fmt.Errorf("journal %q: %s must be between 1 and 10, got %d", journal, field, v)
}
