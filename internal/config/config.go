package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	DSN string `yaml:"url"`
}

type JWTConfig struct {
	Secret         string `yaml:"secret"`
	AccessTTLMin   int    `yaml:"access_ttl_minutes"`
	RefreshTTLDays int    `yaml:"refresh_ttl_days"`
}

type OTPConfig struct {
	TTLMinutes  int    `yaml:"ttl_minutes"`
	MaxAttempts int    `yaml:"max_attempts"`
	DevMode     bool   `yaml:"dev_mode"`
	BypassCode  string `yaml:"bypass_code"`
}

type SMSConfig struct {
	Provider string `yaml:"provider"` // "console" or "mobizon"
	APIKey   string `yaml:"api_key"`
	SenderID string `yaml:"sender_id"`
}

type AuthConfig struct {
	RefreshTransport string `yaml:"refresh_transport"` // "body" or "cookie"
}

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromEmail    string `yaml:"from_email"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type FilesConfig struct {
	RootDir string `yaml:"root_dir"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	OTP      OTPConfig      `yaml:"otp"`
	SMS      SMSConfig      `yaml:"sms"`
	Auth     AuthConfig     `yaml:"auth"`
	Email    EmailConfig    `yaml:"email"`
	Telegram TelegramConfig `yaml:"telegram"`
	Files    FilesConfig    `yaml:"files"`
}

func LoadConfig() *Config {
	f, err := os.Open("config/config.yaml")
	if err != nil {
		panic("Failed to open config.yaml: " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse config.yaml: " + err.Error())
	}

	// Secrets may be supplied via environment instead of the file.
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("SMS_API_KEY"); v != "" {
		cfg.SMS.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("OTP_DEV_MODE"); v != "" {
		cfg.OTP.DevMode, _ = strconv.ParseBool(v)
	}

	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.JWT.AccessTTLMin <= 0 {
		c.JWT.AccessTTLMin = 15
	}
	if c.JWT.RefreshTTLDays <= 0 {
		c.JWT.RefreshTTLDays = 7
	}
	if c.OTP.TTLMinutes <= 0 {
		c.OTP.TTLMinutes = 5
	}
	if c.OTP.MaxAttempts <= 0 {
		c.OTP.MaxAttempts = 3
	}
	if c.OTP.BypassCode == "" {
		c.OTP.BypassCode = "123456"
	}
	if c.SMS.Provider == "" {
		c.SMS.Provider = "console"
	}
	if c.Auth.RefreshTransport == "" {
		c.Auth.RefreshTransport = "body"
	}
	if c.Files.RootDir == "" {
		c.Files.RootDir = "./files"
	}
}

func (c *Config) AccessTTL() time.Duration { return time.Duration(c.JWT.AccessTTLMin) * time.Minute }

func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.JWT.RefreshTTLDays) * 24 * time.Hour
}

func (c *Config) OTPTTL() time.Duration { return time.Duration(c.OTP.TTLMinutes) * time.Minute }
