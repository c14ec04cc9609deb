package main

import (
	"context"

	"github.com/smallbiznis/karatledger/internal/auth"
	"github.com/smallbiznis/karatledger/internal/migration"
	"github.com/smallbiznis/karatledger/internal/ratebook"
	"github.com/smallbiznis/karatledger/internal/seed"
	"github.com/smallbiznis/karatledger/internal/station"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample users, stations and today's rate book",
	Example: `  # import sample data
  karatledger seed

  # delete every business row
  karatledger seed --destroy`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().BoolP("destroy", "d", false, "Delete all data instead of importing")
}

func runSeed(cmd *cobra.Command, args []string) error {
	destroy, _ := cmd.Flags().GetBool("destroy")

	return runOnce(
		auth.Module,
		station.Module,
		ratebook.Module,
		migration.Module,
		seed.Module,
		fx.Invoke(func(s *seed.Seeder) error {
			if destroy {
				return s.Destroy(context.Background())
			}
			_, err := s.Import(context.Background())
			return err
		}),
	)
}
