package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Code      CodeConfig
	Telegram  TelegramConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret           string
	AccessExpiryHrs  int
	RefreshExpiryHrs int
	TempExpiryMins   int
}

type CodeConfig struct {
	ExpiryMinutes int
	Length        int
	ResendSeconds int
}

type TelegramConfig struct {
	BotToken  string
	ChannelID string
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("JWT_ACCESS_EXPIRY_HOURS", 24)
	viper.SetDefault("JWT_REFRESH_EXPIRY_HOURS", 168)
	viper.SetDefault("JWT_TEMP_EXPIRY_MINUTES", 15)
	viper.SetDefault("CODE_EXPIRY_MINUTES", 10)
	viper.SetDefault("CODE_LENGTH", 6)
	viper.SetDefault("CODE_RESEND_SECONDS", 120)
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 300)
	viper.SetDefault("LOG_PATH", "logs/")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASS"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:           viper.GetString("JWT_SECRET"),
			AccessExpiryHrs:  viper.GetInt("JWT_ACCESS_EXPIRY_HOURS"),
			RefreshExpiryHrs: viper.GetInt("JWT_REFRESH_EXPIRY_HOURS"),
			TempExpiryMins:   viper.GetInt("JWT_TEMP_EXPIRY_MINUTES"),
		},
		Code: CodeConfig{
			ExpiryMinutes: viper.GetInt("CODE_EXPIRY_MINUTES"),
			Length:        viper.GetInt("CODE_LENGTH"),
			ResendSeconds: viper.GetInt("CODE_RESEND_SECONDS"),
		},
		Telegram: TelegramConfig{
			BotToken:  viper.GetString("TELEGRAM_BOT_TOKEN"),
			ChannelID: viper.GetString("TELEGRAM_CHANNEL_ID"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: viper.GetInt("RATE_LIMIT_PER_MINUTE"),
		},
	}

	return config, nil
}
