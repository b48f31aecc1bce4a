package main

import (
	"errors"
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/carris-ui/carris/internal/app"
	"github.com/carris-ui/carris/internal/localstore"
	"github.com/carris-ui/carris/internal/logging"
	"github.com/carris-ui/carris/internal/models"
	"github.com/carris-ui/carris/internal/utils"
	"github.com/carris-ui/carris/stopdb"
)

const loadStopsFailed = "Cannot load all stops"

// loadStops populates the cache and index, logging and reporting the
// fallback message on failure.
func loadStops(c *cli.Context, application *app.Application) error {
	if _, err := application.LoadStops(c.Context); err != nil {
		logging.LogError(application.Logger, "failed to load stops", err,
			slog.String("component", "cli"))
		return cli.Exit(loadStopsFailed, 1)
	}
	return nil
}

func stopsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stops",
		Usage: "list cached stops, optionally filtered by name",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Aliases: []string{"q"}, Usage: "case-insensitive name filter"},
			&cli.IntFlag{Name: "limit", Usage: "maximum stops to print (0 = all)"},
		},
		Action: func(c *cli.Context) error {
			query, err := utils.ValidateAndSanitizeQuery(c.String("search"))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			if c.Int("limit") < 0 {
				return cli.Exit("limit must be non-negative", 2)
			}

			return withApplication(c, nil, func(application *app.Application) error {
				if err := loadStops(c, application); err != nil {
					return err
				}

				stops, err := application.StopDB.SearchStops(c.Context, query, c.Int("limit"))
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tLINES")
				for _, s := range stops {
					fmt.Fprintf(tw, "%s\t%s\t%d\n", s.ID, s.DisplayName(), len(s.LineIDs))
				}
				return tw.Flush()
			})
		},
	}
}

func lookupCommand() *cli.Command {
	return &cli.Command{
		Name:      "lookup",
		Usage:     "print the id of the stop with exactly this long name",
		ArgsUsage: "<long name>",
		Action: func(c *cli.Context) error {
			name := c.Args().First()
			if name == "" {
				return cli.Exit("lookup needs a stop name", 2)
			}

			return withApplication(c, nil, func(application *app.Application) error {
				if err := loadStops(c, application); err != nil {
					return err
				}

				id, err := application.StopDB.FindStopIDByName(c.Context, name)
				if errors.Is(err, stopdb.ErrNotFound) {
					return cli.Exit(fmt.Sprintf("no stop named %q", name), 1)
				}
				if err != nil {
					return err
				}

				fmt.Fprintln(c.App.Writer, id)
				return nil
			})
		},
	}
}

func arrivalsCommand() *cli.Command {
	return &cli.Command{
		Name:      "arrivals",
		Usage:     "show live arrivals at a stop (default: the configured home stop)",
		ArgsUsage: "[stop-id]",
		Action: func(c *cli.Context) error {
			return withApplication(c, nil, func(application *app.Application) error {
				stopID, err := application.ResolveStopID(c.Args().First())
				if err != nil {
					return cli.Exit(err.Error(), 2)
				}
				if err := utils.ValidateID(stopID); err != nil {
					return cli.Exit(err.Error(), 2)
				}

				rows, err := application.Board(c.Context, stopID, time.Now())
				if err != nil {
					logging.LogError(application.Logger, "failed to fetch arrivals", err,
						slog.String("component", "cli"),
						slog.String("stop_id", stopID))
					return cli.Exit(fmt.Sprintf("Cannot load arrivals for stop %s", stopID), 1)
				}

				return printBoard(c, rows)
			})
		},
	}
}

func printBoard(c *cli.Context, rows []models.BoardRow) error {
	if len(rows) == 0 {
		fmt.Fprintln(c.App.Writer, "No upcoming arrivals.")
		return nil
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tTIME\tMIN\tDIRECTION")
	for _, row := range rows {
		minutes := "-"
		if row.MinutesAway != nil {
			minutes = fmt.Sprint(*row.MinutesAway)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", row.Number, row.ArrivalTime, minutes, row.Direction)
	}
	return tw.Flush()
}

func configureCommand() *cli.Command {
	return &cli.Command{
		Name:  "configure",
		Usage: "write config.toml, optionally setting the home stop",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "home-stop", Usage: "stop id used when arrivals is run without one"},
		},
		Action: func(c *cli.Context) error {
			homeStop := c.String("home-stop")
			if homeStop != "" {
				if err := utils.ValidateID(homeStop); err != nil {
					return cli.Exit(err.Error(), 2)
				}
			}

			return withApplication(c, nil, func(application *app.Application) error {
				if err := application.Store.SaveSettings(localstore.Settings{HomeStop: homeStop}); err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, application.Store.SettingsPath())
				return nil
			})
		},
	}
}
