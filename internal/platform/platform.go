// Package platform opens the storage and image backends selected by the configuration.
package platform

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"kustomkeys/internal/config"
	"kustomkeys/internal/domain"
	"kustomkeys/internal/images"
	applog "kustomkeys/internal/log"
	"kustomkeys/internal/repos"
	"kustomkeys/internal/repos/mongorepo"
)

// OpenStores connects the configured store. The returned func releases it.
func OpenStores(ctx context.Context, cfg config.Config) (domain.Stores, func(), error) {
	switch cfg.StoreDriver {
	case "mongo":
		client, err := mongorepo.Connect(ctx, cfg.MongoURL)
		if err != nil {
			return domain.Stores{}, nil, fmt.Errorf("mongo: %w", err)
		}
		db := client.Database(cfg.MongoDB)
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return domain.Stores{}, nil, fmt.Errorf("mongo indexes: %w", err)
		}
		applog.L().Info("store.open", zap.String("driver", "mongo"), zap.String("db", cfg.MongoDB))
		return mongorepo.NewStores(db), func() { _ = client.Disconnect(context.Background()) }, nil
	default:
		db, err := repos.OpenDB(cfg.DBDSN)
		if err != nil {
			return domain.Stores{}, nil, fmt.Errorf("sqlite: %w", err)
		}
		applog.L().Info("store.open", zap.String("driver", "sqlite"), zap.String("dsn", cfg.DBDSN))
		return repos.NewStores(db), func() { _ = db.Close() }, nil
	}
}

type Images struct {
	*images.Service
	// Objects is non-nil when images are served from the object store.
	Objects *images.JetStream
	Close   func()
}

// OpenImages builds the image service on the configured backend.
func OpenImages(ctx context.Context, cfg config.Config) (Images, error) {
	t := images.Transform{Width: cfg.ThumbWidth, Height: cfg.ThumbHeight}
	switch cfg.ImageBackend {
	case "nats":
		js, err := images.NewJetStream(ctx, cfg.NATSURL, cfg.NATSBucket, "/images")
		if err != nil {
			return Images{}, fmt.Errorf("nats: %w", err)
		}
		applog.L().Info("images.open", zap.String("backend", "nats"), zap.String("bucket", cfg.NATSBucket))
		return Images{Service: images.NewService(js, t), Objects: js, Close: js.Close}, nil
	default:
		disk, err := images.NewDisk(filepath.Join(cfg.MediaDir, "products"), "/media/products")
		if err != nil {
			return Images{}, err
		}
		applog.L().Info("images.open", zap.String("backend", "disk"), zap.String("dir", disk.Dir))
		return Images{Service: images.NewService(disk, t), Close: func() {}}, nil
	}
}
