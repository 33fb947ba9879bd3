package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/anniv/internal/flagx"
	"github.com/dmitrijs2005/anniv/internal/server"
	"github.com/dmitrijs2005/anniv/internal/server/config"
)

func main() {

	ctx := context.Background()
	command, args := flagx.SplitCommand(os.Args[1:])

	cfg, err := config.LoadConfig(args)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	switch command {
	case "", "serve":
		app.Run(ctx)
	case "invite":
		err := app.RunInviteCommand(ctx, args, os.Stdout)
		app.Close()
		if err != nil {
			log.Fatalf("%v", err)
		}
	default:
		app.Close()
		fmt.Fprintf(os.Stderr, "unknown command %q (want serve or invite)\n", command)
		os.Exit(2)
	}
}
