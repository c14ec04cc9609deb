package main

import (
	"github.com/smallbiznis/karatledger/internal/migration"
	"github.com/smallbiznis/karatledger/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Apply the schema and run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func serve() error {
	app := fx.New(
		infrastructure(),
		server.Module,
		migration.Module,
	)
	app.Run()
	return app.Err()
}
