package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	pkg "git.solsynth.dev/hypernet/collab/pkg/internal"
	"git.solsynth.dev/hypernet/collab/pkg/internal/database"
	"git.solsynth.dev/hypernet/collab/pkg/internal/grpc"
	"git.solsynth.dev/hypernet/collab/pkg/internal/server"
	"git.solsynth.dev/hypernet/collab/pkg/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")

	viper.SetDefault("bind", "0.0.0.0:8444")
	viper.SetDefault("grpc_bind", "0.0.0.0:7444")
	viper.SetDefault("security.session_ttl", 30*24*time.Hour)

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("calling.endpoint", "LIVEKIT_URL")
	_ = viper.BindEnv("calling.api_key", "LIVEKIT_API_KEY")
	_ = viper.BindEnv("calling.api_secret", "LIVEKIT_API_SECRET")

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	if _, err := services.LoadMediaCredentials(); err != nil {
		log.Warn().Err(err).Msg("Meetings cannot be created or joined until LiveKit is configured.")
	}

	// Connect to database
	if err := database.NewSource(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Server
	httpServer := server.NewServer()
	go httpServer.Listen()

	grpcServer := grpc.NewGrpc()
	go func() {
		if err := grpcServer.Listen(); err != nil {
			log.Fatal().Err(err).Msg("An error occurred when starting grpc server...")
		}
	}()

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc("@every 60m", services.DoAutoDatabaseCleanup)
	quartz.Start()

	// Messages
	log.Info().Msgf("Collab v%s is started...", pkg.AppVersion)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msgf("Collab v%s is quitting...", pkg.AppVersion)

	quartz.Stop()
	grpcServer.Stop()
	if err := httpServer.Shutdown(); err != nil {
		log.Error().Err(err).Msg("An error occurred when shutting down server...")
	}
}
