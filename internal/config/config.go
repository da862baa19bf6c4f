package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv    string
	HTTPAddr  string
	RedisAddr string
	RedisPass string
	DataDir   string

	DatabaseURL string

	// SIC portal (case-management surface)
	SicBaseURL  string
	SicUser     string
	SicPassword string
	// Fixed landline filled into the contact-line field of the creation form.
	SicLineaFija string

	// WhatsApp Web (messaging surface)
	WaBaseURL     string
	WaGroupName   string
	WaSessionPath string
	WaAuthWaitSec int
	WaQRScanSec   int
	DefaultRegion string

	Headless bool
	SlowMoMs int

	// Optional YAML file overriding the embedded match maps.
	MatchMapsPath string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func Load() Config {
	// Local development convenience; missing .env is not an error.
	_ = godotenv.Load()

	cfg := Config{
		AppEnv:    getenv("APP_ENV", "development"),
		HTTPAddr:  getenv("HTTP_ADDR", ":8081"),
		RedisAddr: getenv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPass: os.Getenv("REDIS_PASSWORD"),
		DataDir:   getenv("DATA_DIR", "./data"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		SicBaseURL:   os.Getenv("SIC_BASE_URL"),
		SicUser:      os.Getenv("SIC_USER"),
		SicPassword:  os.Getenv("SIC_PASSWORD"),
		SicLineaFija: getenv("SIC_LINEA_FIJA", "6017520000"),

		WaBaseURL:     getenv("WA_BASE_URL", "https://web.whatsapp.com"),
		WaGroupName:   getenv("WA_GROUP_NAME", "Asignaciones Comerciales"),
		WaSessionPath: getenv("WA_SESSION_PATH", "./data/wa-session.json"),
		WaAuthWaitSec: getenvInt("WA_AUTH_WAIT_SECONDS", 15),
		WaQRScanSec:   getenvInt("WA_QR_SCAN_SECONDS", 90),
		DefaultRegion: getenv("PHONE_REGION", "CO"),

		Headless: getenvBool("BROWSER_HEADLESS", true),
		SlowMoMs: getenvInt("BROWSER_SLOWMO_MS", 0),

		MatchMapsPath: os.Getenv("MATCH_MAPS_PATH"),
	}
	if cfg.RedisAddr == "" {
		panic(fmt.Errorf("REDIS_ADDR is required"))
	}
	if cfg.DatabaseURL == "" {
		panic(fmt.Errorf("DATABASE_URL is required"))
	}
	return cfg
}
