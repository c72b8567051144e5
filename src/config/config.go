package config

import (
	"log"
	"os"

	"github.com/guildforms/forms-bot/src/data"
	"gorm.io/gorm"
)

type Config struct {
	Token     string
	GuildID   string
	MySQLDSN  string
	RedisURL  string
	APIPort   string
	JWTSecret string
}

// Load reads configuration from the settings table with env fallbacks.
func Load(db *gorm.DB) Config {
	if err := data.LoadSettings(db); err != nil {
		log.Printf("config: failed to load settings: %v", err)
	}

	token := data.GetSetting("discord_token")
	if token == "" {
		token = os.Getenv("DISCORD_TOKEN")
	}

	// Empty means commands are registered globally.
	guildID := data.GetSetting("guild_id")
	if guildID == "" {
		guildID = os.Getenv("GUILD_ID")
	}

	jwtSecret := data.GetSetting("jwt_secret")
	if jwtSecret == "" {
		jwtSecret = os.Getenv("JWT_SECRET")
	}

	return Config{
		Token:     token,
		GuildID:   guildID,
		MySQLDSN:  GetMySQLDSN(),
		RedisURL:  getenv("REDIS_URL", "redis://127.0.0.1:6379/0"),
		APIPort:   os.Getenv("API_PORT"),
		JWTSecret: jwtSecret,
	}
}

func GetMySQLDSN() string {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "forms:forms@tcp(127.0.0.1:3306)/forms"
	}
	return dsn
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
