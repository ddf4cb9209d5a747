package config

import (
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion   string `mapstructure:"GENERAL_VERSION"`
	Environment      string `mapstructure:"ENVIRONMENT"`
	ServerPort       int    `mapstructure:"SERVER_PORT"`
	DatabaseHost     string `mapstructure:"DB_HOST"`
	DatabasePort     int    `mapstructure:"DB_PORT"`
	DatabaseName     string `mapstructure:"DB_NAME"`
	DatabaseUser     string `mapstructure:"DB_USER"`
	DatabasePassword string `mapstructure:"DB_PASSWORD"`
	EventBusAddress  string `mapstructure:"EVENT_BUS_ADDRESS"`
	EventBusPort     int    `mapstructure:"EVENT_BUS_PORT"`
	CorsAllowOrigins string `mapstructure:"CORS_ALLOW_ORIGINS"`

	HotelTimezone string `mapstructure:"HOTEL_TIMEZONE"`

	JWTSecret           string `mapstructure:"JWT_SECRET"`
	AccessTokenLifetime int    `mapstructure:"ACCESS_TOKEN_LIFETIME_MINUTES"`

	PushProviderURL   string `mapstructure:"PUSH_PROVIDER_URL"`
	PushTokenPrefix   string `mapstructure:"PUSH_TOKEN_PREFIX"`
	SchedulerEnabled  bool   `mapstructure:"SCHEDULER_ENABLED"`
	GenerationHourUTC int    `mapstructure:"GENERATION_HOUR_UTC"`

	// Departure tasks without a subsequent booking default their due time to
	// this hotel-local hour. Past due times are accepted deliberately: due
	// time is informational and a late departure clean should look late.
	DepartureDueHour int `mapstructure:"DEPARTURE_DUE_HOUR"`

	// Pre-arrival tasks are generated when a booking's guest count exceeds
	// this threshold.
	PreArrivalGuestThreshold int `mapstructure:"PREARRIVAL_GUEST_THRESHOLD"`
}

var ConfigInstance Config

func InitConfig() (Config, error) {
	log := logger.New("config").Function("InitConfig")
	log.Info("Initializing config")

	viper.AutomaticEnv()

	envVars := []string{
		"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT",
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"EVENT_BUS_ADDRESS", "EVENT_BUS_PORT",
		"CORS_ALLOW_ORIGINS", "HOTEL_TIMEZONE",
		"JWT_SECRET", "ACCESS_TOKEN_LIFETIME_MINUTES",
		"PUSH_PROVIDER_URL", "PUSH_TOKEN_PREFIX",
		"SCHEDULER_ENABLED", "GENERATION_HOUR_UTC",
		"DEPARTURE_DUE_HOUR", "PREARRIVAL_GUEST_THRESHOLD",
	}

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	setDefaults()

	envVarsSet := viper.IsSet("SERVER_PORT") && viper.IsSet("DB_HOST")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}
	return ConfigInstance, nil
}

func setDefaults() {
	viper.SetDefault("HOTEL_TIMEZONE", "UTC")
	viper.SetDefault("ACCESS_TOKEN_LIFETIME_MINUTES", 12*60)
	viper.SetDefault("PUSH_PROVIDER_URL", "https://exp.host/--/api/v2/push/send")
	viper.SetDefault("PUSH_TOKEN_PREFIX", "ExponentPushToken")
	viper.SetDefault("GENERATION_HOUR_UTC", 4)
	viper.SetDefault("DEPARTURE_DUE_HOUR", 14)
	viper.SetDefault("PREARRIVAL_GUEST_THRESHOLD", 2)
}

func GetConfig() Config {
	return ConfigInstance
}

func (c Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenLifetime) * time.Minute
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if config.JWTSecret == "" {
		return log.ErrMsg("Fatal error: JWT_SECRET is required")
	}

	if _, err := time.LoadLocation(config.HotelTimezone); err != nil {
		return log.Err("Fatal error: invalid HOTEL_TIMEZONE", err)
	}

	if config.DepartureDueHour < 0 || config.DepartureDueHour > 23 {
		return log.Error(
			"Fatal error: DEPARTURE_DUE_HOUR out of range",
			"hour", config.DepartureDueHour,
		)
	}

	ConfigInstance = config
	return nil
}
