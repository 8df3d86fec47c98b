package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env                      string `mapstructure:"APP_ENV"`
	Port                     string `mapstructure:"PORT"`
	DatabaseURL              string `mapstructure:"DATABASE_URL"`
	JWTSecret                string `mapstructure:"JWT_SECRET"`
	AdminEmail               string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword            string `mapstructure:"ADMIN_PASSWORD"`
	AdminFullName            string `mapstructure:"ADMIN_FULL_NAME"`
	CloudinaryURL            string `mapstructure:"CLOUDINARY_URL"`
	BrevoAPIKey              string `mapstructure:"BREVO_API_KEY"`
	EmailSender              string `mapstructure:"EMAIL_SENDER"`
	EmailSenderName          string `mapstructure:"EMAIL_SENDER_NAME"`
	RedisURL                 string `mapstructure:"REDIS_URL"`
	CorsOrigins              string `mapstructure:"CORS_ORIGINS"`
	RateLimitOrdersPerMinute int    `mapstructure:"RATE_LIMIT_ORDERS_PER_MINUTE"`
	DigestSchedule           string `mapstructure:"DIGEST_SCHEDULE"`
}

var AppConfig Config

var keys = []string{
	"APP_ENV", "PORT", "DATABASE_URL", "JWT_SECRET",
	"ADMIN_EMAIL", "ADMIN_PASSWORD", "ADMIN_FULL_NAME",
	"CLOUDINARY_URL", "BREVO_API_KEY", "EMAIL_SENDER", "EMAIL_SENDER_NAME",
	"REDIS_URL", "CORS_ORIGINS", "RATE_LIMIT_ORDERS_PER_MINUTE", "DIGEST_SCHEDULE",
}

// Load reads .env (if present) and the process environment into AppConfig.
// It reports whether a .env file was found.
func Load() (bool, error) {
	envFound := godotenv.Load(".env") == nil

	v := viper.New()
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("PORT", "8080")
	v.SetDefault("ADMIN_FULL_NAME", "Administrator")
	v.SetDefault("EMAIL_SENDER_NAME", "NumberMart")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_ORDERS_PER_MINUTE", 10)
	v.SetDefault("DIGEST_SCHEDULE", "*/30 * * * *")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Unmarshal only sees keys viper knows about; bind the ones without defaults.
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return envFound, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return envFound, err
	}
	AppConfig = cfg
	return envFound, nil
}
