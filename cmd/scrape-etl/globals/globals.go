package globals

import (
	"context"

	"scrape-etl/cmd/scrape-etl/config"
	"scrape-etl/lib/etl"
)

type key struct{}

type Value struct {
	RunId    string
	Config   config.Config
	Fetcher  *etl.Fetcher
	Progress *etl.ProgressLogger
}

func Set(ctx context.Context, value *Value) context.Context {
	return context.WithValue(ctx, key{}, value)
}

func Get(ctx context.Context) *Value {
	return ctx.Value(key{}).(*Value)
}
