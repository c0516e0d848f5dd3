package main

import (
	"fmt"
	"os"

	"github.com/apexquant/apexbt/config"
	"github.com/apexquant/apexbt/engine"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "apexbt",
		Usage: "event driven backtesting engine",
		Commands: []*cli.Command{
			runCommand,
			sweepCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var runCommand = &cli.Command{
	Name:  "run",
	Usage: "execute a single backtest run from a config file",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "config",
			Aliases:  []string{"c"},
			Usage:    "path to the run definition",
			Required: true,
		},
	},
	Action: runBacktest,
}

var sweepCommand = &cli.Command{
	Name:  "sweep",
	Usage: "execute multiple isolated runs concurrently",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:     "config",
			Aliases:  []string{"c"},
			Usage:    "path to a run definition, repeatable",
			Required: true,
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "number of concurrent runs",
			Value: 4,
		},
	},
	Action: runSweep,
}

func runBacktest(c *cli.Context) error {
	cfg, err := config.ReadConfigFromFile(c.String("config"))
	if err != nil {
		return err
	}
	bt, err := engine.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	if err = bt.Run(); err != nil {
		return err
	}
	report, err := bt.GenerateReport()
	if err != nil {
		return err
	}
	out, err := report.Serialise()
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runSweep(c *cli.Context) error {
	paths := c.StringSlice("config")
	cfgs := make([]*config.Config, 0, len(paths))
	for i := range paths {
		cfg, err := config.ReadConfigFromFile(paths[i])
		if err != nil {
			return err
		}
		cfgs = append(cfgs, cfg)
	}
	results, err := engine.Sweep(cfgs, c.Int("workers"))
	if err != nil {
		return err
	}
	for i := range results {
		if results[i].Err != nil {
			fmt.Fprintf(os.Stderr, "run %v (%v) failed: %v\n",
				i, results[i].Nickname, results[i].Err)
			continue
		}
		out, err := results[i].Report.Serialise()
		if err != nil {
			return err
		}
		fmt.Println(out)
	}
	return nil
}
