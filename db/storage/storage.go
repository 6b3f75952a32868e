// Package storage opens the repositories for the configured storage driver
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"jirabackend/config"
	"jirabackend/db"
	"jirabackend/db/badgerstore"
)

type Repositories struct {
	Credentials          db.CredentialsRepository
	ChannelSubscriptions db.ChannelSubscriptionsRepository
	UserSubscriptions    db.UserSubscriptionsRepository

	closer io.Closer
}

func (r *Repositories) Close() error {
	return r.closer.Close()
}

func Open(ctx context.Context, cfg config.StorageConfig) (*Repositories, error) {
	switch cfg.Driver {
	case config.StorageDriverBadger:
		store, err := badgerstore.Open(cfg.BadgerPath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.BadgerPath).Msg("✅ Using badger storage")
		return &Repositories{
			Credentials:          badgerstore.NewCredentialsRepository(store),
			ChannelSubscriptions: badgerstore.NewChannelSubscriptionsRepository(store),
			UserSubscriptions:    badgerstore.NewUserSubscriptionsRepository(store),
			closer:               store,
		}, nil

	case config.StorageDriverPostgres:
		conn, err := db.NewConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := db.ApplySchema(ctx, conn, cfg.DatabaseSchema); err != nil {
			conn.Close()
			return nil, err
		}
		log.Info().Str("schema", cfg.DatabaseSchema).Msg("✅ Using postgres storage")
		return &Repositories{
			Credentials:          db.NewPostgresCredentialsRepository(conn, cfg.DatabaseSchema),
			ChannelSubscriptions: db.NewPostgresChannelSubscriptionsRepository(conn, cfg.DatabaseSchema),
			UserSubscriptions:    db.NewPostgresUserSubscriptionsRepository(conn, cfg.DatabaseSchema),
			closer:               conn,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
