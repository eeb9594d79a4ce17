package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/storyboard/internal/buildinfo"
	"github.com/dmitrijs2005/storyboard/internal/config"
	"github.com/dmitrijs2005/storyboard/internal/server"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
