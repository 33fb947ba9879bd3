package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/anniv/internal/client/cli"
	"github.com/dmitrijs2005/anniv/internal/client/config"
	"github.com/dmitrijs2005/anniv/internal/flagx"
)

func main() {

	ctx := context.Background()
	command, args := flagx.SplitCommand(os.Args[1:])

	cfg, err := config.LoadConfig(args)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(cfg, os.Stdin, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx, command); err != nil {
		log.Fatalf("%v", err)
	}
}
