package main

import (
	"fmt"
	ctx "github.com/Alcereo/scoregate/pkg/context"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const maskedSecret = "******"

func main() {

	loadDotEnv()
	configInit()
	config := loadConfig()
	setupLogging(config.LogLevel)

	dumped := *config
	if dumped.Session.Secret != "" {
		dumped.Session.Secret = maskedSecret
	}
	bytes, _ := yaml.Marshal(dumped)
	log.Tracef("Resolved config:\n%+v", string(bytes))

	context := ctx.NewContext()
	context.SetupCache(config.CacheAdapters)
	context.SetupSession(config.Session)
	context.SetupBackend(config.Backend)
	context.SetupRouters(config.Routers)

	log.Printf("Server starting on port %v", config.Port)
	log.Fatal(context.BuildServer(config.Port).ListenAndServe())
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Debugf("No .env file loaded. Reason: %v", err)
	}
}

func setupLogging(logLevel ctx.LogLevel) {
	log.SetFormatter(&log.TextFormatter{
		ForceColors: true,
	})

	switch logLevel {
	case ctx.Info:
		log.SetLevel(log.InfoLevel)
	case ctx.Debug:
		log.SetLevel(log.DebugLevel)
	case ctx.Trace:
		log.SetLevel(log.TraceLevel)
	default:
		log.SetLevel(log.WarnLevel)
	}
}

func loadConfig() *ctx.GatewayConfiguration {
	_ = viper.BindEnv("port", "PORT")
	_ = viper.BindEnv("backend.url", "BACKEND_URL")
	_ = viper.BindEnv("session.secret", "SESSION_SECRET")

	var config ctx.GatewayConfiguration
	err := viper.Unmarshal(&config)
	if err != nil {
		panic(fmt.Errorf("Fatal error config file: %s \n", err))
	}
	return &config
}

func configInit() {
	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./cmd")

	// Defaults
	viper.SetDefault("port", 5000)
	viper.SetDefault("backend.url", "http://localhost:8081")
	viper.SetDefault("backend.timeout-seconds", 10)
	viper.SetDefault("session.cookie-name", "session")
	viper.SetDefault("session.cookie-path", "/")
	viper.SetDefault("session.persistent-lifetime-hours", 168)

	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("Fatal error config file: %s \n", err))
	}
}
