package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPostgresPingWithoutPool(t *testing.T) {
	var nilPg *Postgres
	require.Error(t, nilPg.Ping(context.Background()))

	pg := &Postgres{}
	require.Error(t, pg.Ping(context.Background()))
}

func TestRedisPingWithoutClient(t *testing.T) {
	var nilRedis *Redis
	require.Error(t, nilRedis.Ping(context.Background()))

	r := &Redis{}
	require.Error(t, r.Ping(context.Background()))
}
