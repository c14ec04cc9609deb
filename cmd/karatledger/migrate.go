package main

import (
	"github.com/smallbiznis/karatledger/internal/auth"
	"github.com/smallbiznis/karatledger/internal/migration"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the schema and create the default admin",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(auth.Module, migration.Module)
	},
}
