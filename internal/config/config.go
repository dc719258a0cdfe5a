package config

import (
	"os"
	"time"
)

// Config holds all runtime configuration. Values come from the environment;
// defaults are development-safe (no production credentials are baked in).
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	// Google Sheets menu source.
	SheetsAPIKey  string
	SpreadsheetID string

	// Apps Script web app that records submitted orders to the spreadsheet.
	AppsScriptURL string

	// Web3Forms email relay.
	Web3FormsURL string
	Web3FormsKey string
	OrderEmailTo string

	// Tripleseat lead creation.
	TripleseatURL            string
	TripleseatPublicKey      string
	TripleseatConsumerKey    string
	TripleseatConsumerSecret string
	TripleseatFireAndForget  bool

	// Staff access for the live submissions feed.
	StaffPasswordHash string

	// DryRun short-circuits all external writes into log output. Must be an
	// explicit opt-in so test runs never pollute production sheets or CRM.
	DryRun bool

	// Applied to every outbound HTTP call.
	HTTPTimeout time.Duration
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-change-in-production"),

		SheetsAPIKey:  getEnv("SHEETS_API_KEY", ""),
		SpreadsheetID: getEnv("SPREADSHEET_ID", ""),

		AppsScriptURL: getEnv("APPS_SCRIPT_URL", ""),

		Web3FormsURL: getEnv("WEB3FORMS_URL", "https://api.web3forms.com/submit"),
		Web3FormsKey: getEnv("WEB3FORMS_KEY", ""),
		OrderEmailTo: getEnv("ORDER_EMAIL_TO", "catering@electric-hospitality.com"),

		TripleseatURL:            getEnv("TRIPLESEAT_URL", "https://api.tripleseat.com/v1/leads/create.js"),
		TripleseatPublicKey:      getEnv("TRIPLESEAT_PUBLIC_KEY", ""),
		TripleseatConsumerKey:    getEnv("TRIPLESEAT_CONSUMER_KEY", ""),
		TripleseatConsumerSecret: getEnv("TRIPLESEAT_CONSUMER_SECRET", ""),
		TripleseatFireAndForget:  getEnvBool("TRIPLESEAT_FIRE_AND_FORGET"),

		StaffPasswordHash: getEnv("STAFF_PASSWORD_HASH", ""),

		DryRun: getEnvBool("DRY_RUN"),

		HTTPTimeout: 15 * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "yes":
		return true
	}
	return false
}
