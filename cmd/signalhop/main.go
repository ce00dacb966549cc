package main

import (
	"context"

	"github.com/signalhop/signalhop/pkg/config"
	"github.com/signalhop/signalhop/pkg/logger"
	"github.com/signalhop/signalhop/pkg/os"
	"github.com/signalhop/signalhop/pkg/signaler"
)

var Version = "?"

func main() {
	conf := config.NewConfig()
	conf.ParseFlags()

	log := logger.NewConsole(conf.Signaler.Debug, "shp")
	log.Info().Msgf("version %s", Version)
	if log.GetLevel() < logger.InfoLevel {
		log.Debug().Msgf("config: %+v", conf)
	}

	s, err := signaler.New(conf, log)
	if err != nil {
		log.Fatal().Err(err).Msg("couldn't init the signaler")
	}
	s.Start()

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		if err := s.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("service shutdown errors")
		}
	}()
	<-os.ExpectTermination()
	cancel()
}
