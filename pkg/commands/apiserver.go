package commands

import (
	"github.com/rancher/wrangler/pkg/signals"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"github.com/siteledger/siteledger/pkg/apiserver"
	"github.com/siteledger/siteledger/pkg/db"
	"github.com/siteledger/siteledger/pkg/store"
	"github.com/siteledger/siteledger/pkg/sweep"
	"github.com/siteledger/siteledger/pkg/version"
)

type apiServerCommand struct{}

func (s *apiServerCommand) Execute(c *cli.Context) error {
	ctx := signals.SetupSignalContext()

	log := logrus.WithField("command", "api-server")

	log.Infof("version: %v", version.Get())

	database, err := db.New(ctx, c.String("sql-dialect"), c.String("sql-dsn"), &gorm.Config{
		Logger: db.NewLogger(c.String("log-level")),
	})
	if err != nil {
		return err
	}

	assetStore := store.New(database)
	if err := assetStore.EnsureDefaultTiers(); err != nil {
		return err
	}

	sweeper, err := sweep.New(database, sweep.Options{
		IntervalSeconds: c.Int64("sweep-interval"),
		WhoisEnabled:    c.Bool("whois-checks"),
		Route53ZoneID:   c.String("route53-zone-id"),
	})
	if err != nil {
		return err
	}
	go sweeper.Start(ctx.Done())

	apiServer := apiserver.NewAPIServer(ctx, log, c.Int("port"))

	return apiServer.Start(assetStore)
}

func serverCommand() *cli.Command {
	cmd := apiServerCommand{}

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Usage:   "Port for the HTTP Server Port",
			EnvVars: []string{"SITELEDGER_PORT", "PORT"},
			Value:   4600,
		},
		&cli.StringFlag{
			Name:    "sql-dialect",
			Usage:   "The type of sql to use, sqlite or mysql",
			EnvVars: []string{"SITELEDGER_SQL_DIALECT", "SQL_DIALECT"},
			Value:   "sqlite",
		},
		&cli.StringFlag{
			Name:    "sql-dsn",
			Usage:   "The DSN to use to connect to",
			EnvVars: []string{"SITELEDGER_SQL_DSN", "SQL_DSN"},
			Value:   "file:siteledger.sqlite?_pragma=foreign_keys(1)",
		},
		&cli.Int64Flag{
			Name:    "sweep-interval",
			Usage:   "Seconds between maintenance sweeps",
			EnvVars: []string{"SITELEDGER_SWEEP_INTERVAL"},
			Value:   3600,
		},
		&cli.BoolFlag{
			Name:    "whois-checks",
			Usage:   "Cross-check active domains against WHOIS during sweeps",
			EnvVars: []string{"SITELEDGER_WHOIS_CHECKS"},
		},
		&cli.StringFlag{
			Name:    "route53-zone-id",
			Usage:   "Hosted zone to compare tracked DNS records against (empty disables drift checks)",
			EnvVars: []string{"SITELEDGER_ROUTE53_ZONE_ID"},
		},
	}

	return &cli.Command{
		Name:   "api-server",
		Usage:  "siteledger api server",
		Action: cmd.Execute,
		Flags:  append(flags, GlobalFlags()...),
		Before: Before,
	}
}
