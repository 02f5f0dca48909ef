package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "HISTOMAP_CONFIG"
	wikiAPIURLEnv    = "HISTOMAP_WIKI_API_URL"
	storageDriverEnv = "HISTOMAP_STORAGE_DRIVER"
	sqlitePathEnv    = "HISTOMAP_SQLITE_PATH"
	mongoURIEnv      = "MONGO_URI"
	telegramTokenEnv = "TELEGRAM_BOT_TOKEN"
	logLevelEnv      = "HISTOMAP_LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Wiki      WikiConfig      `yaml:"wiki"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Storage   StorageConfig   `yaml:"storage"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WikiConfig describes the upstream MediaWiki installation.
type WikiConfig struct {
	APIBaseURL     string `yaml:"apiBaseUrl"`
	FeedURL        string `yaml:"feedUrl"`
	UserAgent      string `yaml:"userAgent"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// DiscoveryConfig tunes the discovery pass.
type DiscoveryConfig struct {
	RadiusMeters    int      `yaml:"radiusMeters"`
	GridStepDegrees float64  `yaml:"gridStepDegrees"`
	GeoSearchLimit  int      `yaml:"geoSearchLimit"`
	TopN            int      `yaml:"topN"`
	LocationHint    string   `yaml:"locationHint"`
	KeywordQueries  []string `yaml:"keywordQueries"`
}

// StorageConfig selects and configures the event store.
type StorageConfig struct {
	Driver        string `yaml:"driver"` // sqlite | mongo | none
	SQLitePath    string `yaml:"sqlitePath"`
	MongoURI      string `yaml:"mongoUri"`
	MongoDatabase string `yaml:"mongoDatabase"`
}

// TelegramConfig wires the quiz bot.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
}

// LoggingConfig controls slog handler construction.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text | json
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(wikiAPIURLEnv); v != "" {
		c.Wiki.APIBaseURL = v
	}
	if v := os.Getenv(storageDriverEnv); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv(sqlitePathEnv); v != "" {
		c.Storage.SQLitePath = v
	}
	if v := os.Getenv(mongoURIEnv); v != "" {
		c.Storage.MongoURI = v
	}
	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Wiki.APIBaseURL != "" {
		base.Wiki.APIBaseURL = override.Wiki.APIBaseURL
	}
	if override.Wiki.FeedURL != "" {
		base.Wiki.FeedURL = override.Wiki.FeedURL
	}
	if override.Wiki.UserAgent != "" {
		base.Wiki.UserAgent = override.Wiki.UserAgent
	}
	if override.Wiki.TimeoutSeconds != 0 {
		base.Wiki.TimeoutSeconds = override.Wiki.TimeoutSeconds
	}

	if override.Discovery.RadiusMeters != 0 {
		base.Discovery.RadiusMeters = override.Discovery.RadiusMeters
	}
	if override.Discovery.GridStepDegrees != 0 {
		base.Discovery.GridStepDegrees = override.Discovery.GridStepDegrees
	}
	if override.Discovery.GeoSearchLimit != 0 {
		base.Discovery.GeoSearchLimit = override.Discovery.GeoSearchLimit
	}
	if override.Discovery.TopN != 0 {
		base.Discovery.TopN = override.Discovery.TopN
	}
	if override.Discovery.LocationHint != "" {
		base.Discovery.LocationHint = override.Discovery.LocationHint
	}
	if len(override.Discovery.KeywordQueries) > 0 {
		base.Discovery.KeywordQueries = override.Discovery.KeywordQueries
	}

	if override.Storage.Driver != "" {
		base.Storage.Driver = override.Storage.Driver
	}
	if override.Storage.SQLitePath != "" {
		base.Storage.SQLitePath = override.Storage.SQLitePath
	}
	if override.Storage.MongoURI != "" {
		base.Storage.MongoURI = override.Storage.MongoURI
	}
	if override.Storage.MongoDatabase != "" {
		base.Storage.MongoDatabase = override.Storage.MongoDatabase
	}

	if override.Telegram.BotToken != "" {
		base.Telegram.BotToken = override.Telegram.BotToken
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Wiki: WikiConfig{
			APIBaseURL:     "https://fr.wikipedia.org/w/api.php",
			FeedURL:        "https://fr.wikipedia.org/w/api.php?action=featuredfeed&feed=onthisday&feedformat=rss",
			UserAgent:      "histomap/1.0",
			TimeoutSeconds: 15,
		},
		Discovery: DiscoveryConfig{
			RadiusMeters:    10000,
			GridStepDegrees: 0.18,
			GeoSearchLimit:  150,
			TopN:            30,
			// Keyword queries are appended with this hint so full-text hits
			// stay near the served region. Override per deployment.
			LocationHint: "France",
		},
		Storage: StorageConfig{
			Driver:        "sqlite",
			SQLitePath:    "histomap.db",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "histomap",
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}
