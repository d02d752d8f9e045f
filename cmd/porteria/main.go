package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/amontoro/porteria/cmd/porteria/accounts"
	"github.com/amontoro/porteria/cmd/porteria/serve"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "porteria",
		Usage: "Gate a handful of pages behind a login",
		Commands: []*cli.Command{
			serve.Cmd(),
			accounts.Cmd(),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	err := app.RunContext(ctx, os.Args)
	if err != nil {
		log.Error().Err(err).Msg("Application failed")
	}
}
