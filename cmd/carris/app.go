package main

import (
	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	return &cli.App{
		Name:        "carris",
		Usage:       "Carris Metropolitana stops and live arrivals",
		Description: "Looks up stops from the locally cached catalogue and shows live arrivals, on the terminal or as an HTTP board.",
		Flags:       globalFlags(),
		Commands: []*cli.Command{
			stopsCommand(),
			lookupCommand(),
			arrivalsCommand(),
			configureCommand(),
			serveCommand(),
		},
	}
}
