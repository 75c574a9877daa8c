package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug    bool
		TestMode bool
		Env      string
		Build    string
		AppName  string

		SecretKey string

		// the designated admin credential pair; a signup matching both is
		// promoted to the admin role.
		AdminEmail    string
		AdminPassword string

		DefaultFromEmail string
		SendgridAPIKey   string
		RollbarToken     string
		FrontendBaseURL  string
		AllowedOrigins   []string

		Database DatabaseConfig
		Server   ServerConfig
		Upload   UploadConfig
	}

	DatabaseConfig struct {
		URI  string
		Name string
	}

	ServerConfig struct {
		Host            string
		Port            string
		DebugHost       string
		ShutdownTimeout time.Duration

		// token lifetimes: a fresh signup gets a short-lived token,
		// a login gets a long-lived one.
		JWTExpirationDelta       time.Duration
		JWTSignupExpirationDelta time.Duration
	}

	UploadConfig struct {
		Dir      string
		MaxBytes int64
	}
)

func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// NewConfig loads the app configuration from the environment (and an optional
// config/.env.<env> file). The result is immutable process-wide configuration;
// nothing else holds the secret key.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "ViewAssignment")
	conf.SetDefault("build", "dev")
	conf.SetDefault("secretKey", "h^$cegm2emy-poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4")
	conf.SetDefault("adminEmail", "")
	conf.SetDefault("adminPassword", "")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("sendgridApiKey", "")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("frontendBaseUrl", "http://localhost:3000")
	conf.SetDefault("allowedOrigins", []string{"http://localhost:3000"})
	conf.SetDefault("databaseUri", "mongodb://localhost:27017")
	conf.SetDefault("databaseName", "assignment")
	conf.SetDefault("serverHost", "")
	conf.SetDefault("serverPort", "8007")
	conf.SetDefault("serverDebugHost", "localhost:6060")
	conf.SetDefault("serverShutdownTimeout", 5*time.Second)
	conf.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("jwtSignupExpirationDelta", time.Hour)
	conf.SetDefault("uploadDir", "uploads")
	conf.SetDefault("uploadMaxBytes", int64(5<<20)) // 5 MiB

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Debug:            conf.GetBool("debug"),
		TestMode:         env == "TEST",
		Env:              env,
		Build:            conf.GetString("build"),
		AppName:          conf.GetString("appName"),
		SecretKey:        conf.GetString("secretKey"),
		AdminEmail:       conf.GetString("adminEmail"),
		AdminPassword:    conf.GetString("adminPassword"),
		DefaultFromEmail: conf.GetString("defaultFromEmail"),
		SendgridAPIKey:   conf.GetString("sendgridApiKey"),
		RollbarToken:     conf.GetString("rollbarToken"),
		FrontendBaseURL:  conf.GetString("frontendBaseUrl"),
		AllowedOrigins:   conf.GetStringSlice("allowedOrigins"),
		Database: DatabaseConfig{
			URI:  conf.GetString("databaseUri"),
			Name: conf.GetString("databaseName"),
		},
		Server: ServerConfig{
			Host:                     conf.GetString("serverHost"),
			Port:                     conf.GetString("serverPort"),
			DebugHost:                conf.GetString("serverDebugHost"),
			ShutdownTimeout:          conf.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta:       conf.GetDuration("jwtExpirationDelta"),
			JWTSignupExpirationDelta: conf.GetDuration("jwtSignupExpirationDelta"),
		},
		Upload: UploadConfig{
			Dir:      conf.GetString("uploadDir"),
			MaxBytes: conf.GetInt64("uploadMaxBytes"),
		},
	}
}
