package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/MuhammetEnesDemirkol/real-estate-wp-gpt-bot/internal/api"
	"github.com/MuhammetEnesDemirkol/real-estate-wp-gpt-bot/internal/flow"
	"github.com/MuhammetEnesDemirkol/real-estate-wp-gpt-bot/internal/gdrive"
	"github.com/MuhammetEnesDemirkol/real-estate-wp-gpt-bot/internal/messaging"
	"github.com/MuhammetEnesDemirkol/real-estate-wp-gpt-bot/internal/parser"
	"github.com/MuhammetEnesDemirkol/real-estate-wp-gpt-bot/internal/store"
	"github.com/MuhammetEnesDemirkol/real-estate-wp-gpt-bot/internal/util"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for listing bot state data
	DefaultStateDir = "/var/lib/listingbot"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "listingbot.db"
	// DefaultStagingDirName is the directory photos are staged in before upload
	DefaultStagingDirName = "staging"
)

// Config holds environment configuration
type Config struct {
	DatabaseURL     string
	StateDir        string
	OpenAIKey       string
	TwilioSID       string
	TwilioToken     string
	TwilioFrom      string
	DriveCredsFile  string
	DriveRootFolder string
	APIAddr         string
}

// Flags holds command line flag values
type Flags struct {
	stateDir        *string
	dbDSN           *string
	openaiKey       *string
	driveCredsFile  *string
	driveRootFolder *string
	apiAddr         *string
	stagingRoot     *string
}

func main() {
	initializeLogger()

	config := loadEnvironmentConfig()
	flags := parseCommandLineFlags(config)

	ctx := context.Background()

	st, err := buildStore(flags)
	if err != nil {
		slog.Error("Failed to initialize listing store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	twilioClient, err := messaging.NewClient(
		messaging.WithAccountSID(config.TwilioSID),
		messaging.WithAuthToken(config.TwilioToken),
		messaging.WithFromNumber(config.TwilioFrom),
	)
	if err != nil {
		slog.Error("Failed to initialize Twilio client", "error", err)
		os.Exit(1)
	}

	parserClient, err := parser.NewClient(parser.WithAPIKey(*flags.openaiKey))
	if err != nil {
		slog.Error("Failed to initialize listing parser", "error", err)
		os.Exit(1)
	}

	driveClient, err := gdrive.NewClient(ctx, gdrive.WithCredentialsFile(*flags.driveCredsFile))
	if err != nil {
		slog.Error("Failed to initialize Drive client", "error", err)
		os.Exit(1)
	}

	// The root folder id is required: every listing folder is placed under it.
	finalizer, err := flow.NewFinalizer(driveClient, st, twilioClient, *flags.driveRootFolder)
	if err != nil {
		slog.Error("Failed to initialize listing finalizer", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*flags.stagingRoot, 0755); err != nil {
		slog.Error("Failed to create staging root directory", "error", err, "dir", *flags.stagingRoot)
		os.Exit(1)
	}

	engine := flow.NewEngine(flow.Config{
		Sessions:    flow.NewSessionStore(),
		Parser:      parserClient,
		Messenger:   twilioClient,
		Media:       twilioClient,
		Finalizer:   finalizer,
		Deleter:     flow.NewDeleter(driveClient, st),
		StagingRoot: *flags.stagingRoot,
	})

	server := api.NewServer(engine, st, api.WithAddr(*flags.apiAddr))
	slog.Info("Bootstrapping listing bot", "addr", *flags.apiAddr, "state_dir", *flags.stateDir)
	if err := server.Run(); err != nil {
		slog.Error("Listing bot failed to run", "error", err)
		os.Exit(1)
	}
}

// initializeLogger sets up structured logging
func initializeLogger() {
	level := slog.LevelInfo
	if util.ParseBoolEnv("LISTINGBOT_DEBUG", false) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		StateDir:        util.GetEnvOrDefault("LISTINGBOT_STATE_DIR", DefaultStateDir),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		TwilioSID:       os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioToken:     os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFrom:      os.Getenv("TWILIO_FROM_NUMBER"),
		DriveCredsFile:  os.Getenv("GOOGLE_DRIVE_CREDENTIALS_FILE"),
		DriveRootFolder: os.Getenv("GOOGLE_DRIVE_MAIN_FOLDER_ID"),
		APIAddr:         os.Getenv("API_ADDR"),
	}

	// If no database URL is provided, default to SQLite in the state directory
	if config.DatabaseURL == "" {
		config.DatabaseURL = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No database DSN provided, defaulting to SQLite", "sqlite_path", config.DatabaseURL)
	}

	slog.Debug("environment variables loaded",
		"DATABASE_URL_SET", config.DatabaseURL != "",
		"LISTINGBOT_STATE_DIR", config.StateDir,
		"OPENAI_API_KEY_SET", config.OpenAIKey != "",
		"TWILIO_ACCOUNT_SID_SET", config.TwilioSID != "",
		"GOOGLE_DRIVE_MAIN_FOLDER_ID_SET", config.DriveRootFolder != "",
		"API_ADDR", config.APIAddr)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		stateDir:        flag.String("state-dir", config.StateDir, "state directory for listing bot data (overrides $LISTINGBOT_STATE_DIR)"),
		dbDSN:           flag.String("db-dsn", config.DatabaseURL, "database DSN for the listing store (overrides $DATABASE_URL)"),
		openaiKey:       flag.String("openai-api-key", config.OpenAIKey, "OpenAI API key (overrides $OPENAI_API_KEY)"),
		driveCredsFile:  flag.String("drive-credentials", config.DriveCredsFile, "Google Drive service account credentials file (overrides $GOOGLE_DRIVE_CREDENTIALS_FILE)"),
		driveRootFolder: flag.String("drive-root-folder", config.DriveRootFolder, "Google Drive root folder id for listings (overrides $GOOGLE_DRIVE_MAIN_FOLDER_ID)"),
		apiAddr:         flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
		stagingRoot:     flag.String("staging-root", filepath.Join(config.StateDir, DefaultStagingDirName), "directory photos are staged in before upload"),
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"stateDir", *flags.stateDir,
		"dbDSN_set", *flags.dbDSN != "",
		"openaiKeySet", *flags.openaiKey != "",
		"apiAddr", *flags.apiAddr,
		"stagingRoot", *flags.stagingRoot)

	return flags
}

// buildStore constructs the listing store based on the DSN type.
func buildStore(flags Flags) (store.Store, error) {
	dsn := *flags.dbDSN
	if store.DetectDSNType(dsn) == "postgres" {
		slog.Debug("Detected PostgreSQL DSN, configuring PostgreSQL store")
		return store.NewPostgresStore(store.WithPostgresDSN(dsn))
	}
	slog.Debug("Detected SQLite DSN, configuring SQLite store", "db_path", dsn)
	return store.NewSQLiteStore(store.WithSQLiteDSN(dsn))
}
