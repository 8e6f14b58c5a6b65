package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/microblog/internal/buildinfo"
	"github.com/dmitrijs2005/microblog/internal/client/cli"
	"github.com/dmitrijs2005/microblog/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
