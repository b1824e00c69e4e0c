package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/partyquiz/go/internal/client"
	"github.com/mcdev12/partyquiz/go/internal/prefs"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	config, err := loadConfig(getEnv("PARTYQUIZ_CONFIG", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	prefsPath, err := prefs.DefaultPath()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve prefs path")
	}
	stored, err := prefs.Load(prefsPath)
	if err != nil {
		log.Warn().Err(err).Msg("could not read stored login prefill")
	}

	name := getEnv("PARTYQUIZ_NAME", stored.Name)
	room := getEnv("PARTYQUIZ_ROOM", stored.Room)
	if len(os.Args) > 2 {
		name, room = os.Args[1], os.Args[2]
	}
	if name == "" || room == "" {
		log.Fatal().Msg("usage: partyquiz <name> <room>")
	}

	if err := prefs.Save(prefsPath, prefs.Prefs{Name: name, Room: room}); err != nil {
		log.Warn().Err(err).Msg("could not store login prefill")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := client.Config{
		URL:          config.Server.URL,
		DialTimeout:  config.dialTimeout(),
		WriteTimeout: config.writeTimeout(),
	}
	sink := &consoleSink{}
	c := client.New(cfg, clockwork.NewRealClock(), sink)

	go runDriver(ctx, c, os.Stdin)

	if err := c.Run(ctx, name, room); err != nil {
		log.Error().Err(err).Msg("session ended")
		os.Exit(1)
	}
	log.Info().Msg("logged out")
}
