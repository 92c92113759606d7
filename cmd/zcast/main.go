package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/talkincode/zcast/config"
	"github.com/talkincode/zcast/internal/adminapi"
	"github.com/talkincode/zcast/internal/app"
	"github.com/talkincode/zcast/internal/webserver"
	"go.uber.org/zap"
)

var (
	h        = flag.Bool("h", false, "help usage")
	showVer  = flag.Bool("v", false, "show version")
	conffile = flag.String("c", "zcast.yml", "config file")
)

var gitVersion = "unknown"

func main() {
	flag.Parse()
	if *h {
		flag.Usage()
		os.Exit(0)
	}
	if *showVer {
		fmt.Println(gitVersion)
		os.Exit(0)
	}

	cfg := config.LoadConfig(*conffile)

	application := app.NewApplication(cfg)
	hub := webserver.NewEventHub()
	application.Init(hub)
	defer application.Release()

	webserver.Init(application, hub)
	adminapi.RegisterRoutes()

	if err := webserver.Listen(); err != nil {
		zap.L().Fatal("webserver failed", zap.Error(err))
	}
}
