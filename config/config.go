package config

import (
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Config struct {
	DBDriver  string
	DBDSN     string
	Port      string
	UploadDir string
}

func Load() *Config {
	cfg := &Config{
		DBDriver:  os.Getenv("DB_DRIVER"),
		DBDSN:     os.Getenv("DB_DSN"),
		Port:      os.Getenv("PORT"),
		UploadDir: os.Getenv("UPLOAD_DIR"),
	}
	if cfg.DBDriver == "" {
		cfg.DBDriver = "sqlite"
	}
	if cfg.DBDSN == "" {
		cfg.DBDSN = "campus.db"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "uploads"
	}
	return cfg
}

// InitDB opens the configured database. SQLite is the default; MySQL is
// selectable with DB_DRIVER=mysql and a full DSN.
func InitDB(cfg *Config) (*gorm.DB, error) {
	if cfg.DBDriver == "mysql" {
		return gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(cfg.DBDSN), &gorm.Config{})
}
