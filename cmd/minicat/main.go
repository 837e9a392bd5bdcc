package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/indigo-web/minicat"
	"github.com/indigo-web/minicat/config"
	"github.com/rs/zerolog"
)

func main() {
	cfg := config.Default()

	var port uint
	flag.StringVar(&cfg.NET.Addr, "addr", cfg.NET.Addr, "address to listen on")
	flag.UintVar(&port, "port", uint(cfg.NET.Port), "port to listen on")
	flag.StringVar(&cfg.Static.Root, "root", cfg.Static.Root, "document root")
	debug := flag.Bool("debug", false, "log every request")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	if port > 0xffff {
		log.Error().Uint("port", port).Msg("port is out of range")
		os.Exit(2)
	}

	cfg.NET.Port = uint16(port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := minicat.New(cfg).Logger(log).Serve(ctx)
	if err != nil {
		var listenerErr *minicat.ListenerError
		if errors.As(err, &listenerErr) {
			log.Error().Err(listenerErr.Err).Str("op", listenerErr.Op).Str("addr", listenerErr.Addr).Msg("listener failed")
		} else {
			log.Error().Err(err).Msg("failed to start")
		}

		stop()
		os.Exit(1)
	}
}
