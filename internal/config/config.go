package config

import (
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port" default:"8000"`
		Host         string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout  time.Duration `yaml:"idle_timeout" default:"60s"`
	} `yaml:"server"`

	Database struct {
		Path        string        `yaml:"path" default:"data/interngenie.db"`
		BusyTimeout time.Duration `yaml:"busy_timeout" default:"5s"`
	} `yaml:"database"`

	Auth struct {
		JWTSecret      string        `yaml:"jwt_secret"`
		TokenTTL       time.Duration `yaml:"token_ttl" default:"24h"`
		OTPTTL         time.Duration `yaml:"otp_ttl" default:"10m"`
		LoginRateLimit int           `yaml:"login_rate_limit" default:"10"` // attempts per minute per IP
		LoginRateBurst int           `yaml:"login_rate_burst" default:"5"`
		BcryptCost     int           `yaml:"bcrypt_cost" default:"10"`
	} `yaml:"auth"`

	// Recommender weights and partial-credit constants are policy knobs; they
	// must sum to 1 and stay stable across a deployment.
	Recommender struct {
		SkillWeight      float64       `yaml:"skill_weight" default:"0.5"`
		ExperienceWeight float64       `yaml:"experience_weight" default:"0.2"`
		EducationWeight  float64       `yaml:"education_weight" default:"0.15"`
		LocationWeight   float64       `yaml:"location_weight" default:"0.15"`
		PreferredBonus   float64       `yaml:"preferred_bonus" default:"0.7"`
		EducationPartial float64       `yaml:"education_partial" default:"0.5"`
		LocationPartial  float64       `yaml:"location_partial" default:"0.6"`
		LocationBaseline float64       `yaml:"location_baseline" default:"0.3"`
		TopN             int           `yaml:"top_n" default:"5"`
		CacheTTL         time.Duration `yaml:"cache_ttl" default:"15m"`
	} `yaml:"recommender"`

	Chatbot struct {
		Enabled          bool          `yaml:"enabled" default:"true"`
		HistoryTTL       time.Duration `yaml:"history_ttl" default:"24h"`
		MaxHistory       int           `yaml:"max_history" default:"50"`
		RetrainInterval  time.Duration `yaml:"retrain_interval" default:"1h"`
		RetrainThreshold int           `yaml:"retrain_threshold" default:"10"` // min feedback rows before a pass
	} `yaml:"chatbot"`

	BackgroundTasks struct {
		MaxConcurrentTasks int           `yaml:"max_concurrent_tasks" default:"10"`
		TaskTimeout        time.Duration `yaml:"task_timeout" default:"120s"`
		CleanupInterval    time.Duration `yaml:"cleanup_interval" default:"1h"`
		MaxTaskAge         time.Duration `yaml:"max_task_age" default:"24h"`
	} `yaml:"background_tasks"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`

		Adapters []struct {
			Name    string                 `yaml:"name"`
			Type    string                 `yaml:"type"`
			Enabled bool                   `yaml:"enabled"`
			Options map[string]interface{} `yaml:"options"`
		} `yaml:"adapters"`
	} `yaml:"logging"`

	Redis struct {
		URL      string        `yaml:"url" default:"redis://localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db" default:"0"`
		Timeout  time.Duration `yaml:"timeout" default:"5s"`
	} `yaml:"redis"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}

	// Set defaults
	config.Server.Port = 8000
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second

	config.Database.Path = "data/interngenie.db"
	config.Database.BusyTimeout = 5 * time.Second

	config.Auth.TokenTTL = 24 * time.Hour
	config.Auth.OTPTTL = 10 * time.Minute
	config.Auth.LoginRateLimit = 10
	config.Auth.LoginRateBurst = 5
	config.Auth.BcryptCost = 10

	config.Recommender.SkillWeight = 0.5
	config.Recommender.ExperienceWeight = 0.2
	config.Recommender.EducationWeight = 0.15
	config.Recommender.LocationWeight = 0.15
	config.Recommender.PreferredBonus = 0.7
	config.Recommender.EducationPartial = 0.5
	config.Recommender.LocationPartial = 0.6
	config.Recommender.LocationBaseline = 0.3
	config.Recommender.TopN = 5
	config.Recommender.CacheTTL = 15 * time.Minute

	config.Chatbot.Enabled = true
	config.Chatbot.HistoryTTL = 24 * time.Hour
	config.Chatbot.MaxHistory = 50
	config.Chatbot.RetrainInterval = 1 * time.Hour
	config.Chatbot.RetrainThreshold = 10

	config.BackgroundTasks.MaxConcurrentTasks = 10
	config.BackgroundTasks.TaskTimeout = 120 * time.Second
	config.BackgroundTasks.CleanupInterval = 1 * time.Hour
	config.BackgroundTasks.MaxTaskAge = 24 * time.Hour

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.DB = 0
	config.Redis.Timeout = 5 * time.Second

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		c.Database.Path = dbPath
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.Auth.JWTSecret = secret
	}

	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			c.Auth.TokenTTL = d
		}
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if cacheTTL := os.Getenv("RECOMMENDER_CACHE_TTL"); cacheTTL != "" {
		if d, err := time.ParseDuration(cacheTTL); err == nil {
			c.Recommender.CacheTTL = d
		}
	}

	if topN := os.Getenv("RECOMMENDER_TOP_N"); topN != "" {
		if n, err := strconv.Atoi(topN); err == nil {
			c.Recommender.TopN = n
		}
	}

	if enabled := os.Getenv("CHATBOT_ENABLED"); enabled != "" {
		c.Chatbot.Enabled = enabled == "true" || enabled == "1"
	}
}

// validate rejects configurations the scorer cannot honor
func (c *Config) validate() error {
	sum := c.Recommender.SkillWeight + c.Recommender.ExperienceWeight +
		c.Recommender.EducationWeight + c.Recommender.LocationWeight
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("recommender weights must sum to 1, got %v", sum)
	}
	for name, w := range map[string]float64{
		"skill_weight":      c.Recommender.SkillWeight,
		"experience_weight": c.Recommender.ExperienceWeight,
		"education_weight":  c.Recommender.EducationWeight,
		"location_weight":   c.Recommender.LocationWeight,
		"preferred_bonus":   c.Recommender.PreferredBonus,
		"education_partial": c.Recommender.EducationPartial,
		"location_partial":  c.Recommender.LocationPartial,
		"location_baseline": c.Recommender.LocationBaseline,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("recommender %s must be in [0,1], got %v", name, w)
		}
	}
	if c.Recommender.TopN <= 0 {
		return fmt.Errorf("recommender top_n must be positive, got %d", c.Recommender.TopN)
	}
	return nil
}
