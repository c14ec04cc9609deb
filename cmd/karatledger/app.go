package main

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/config"
	"github.com/smallbiznis/karatledger/internal/observability"
	"github.com/smallbiznis/karatledger/pkg/db"
	"go.uber.org/fx"
)

const oneShotTimeout = 2 * time.Minute

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

// infrastructure is the set of modules every command needs before any
// domain code runs.
func infrastructure() fx.Option {
	return fx.Options(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
	)
}

// runOnce starts an app built from opts, which does its work in
// fx.Invoke, and stops it again.
func runOnce(opts ...fx.Option) error {
	app := fx.New(append([]fx.Option{infrastructure()}, opts...)...)

	ctx, cancel := context.WithTimeout(context.Background(), oneShotTimeout)
	defer cancel()
	if err := app.Start(ctx); err != nil {
		return err
	}
	return app.Stop(ctx)
}
