package slots

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/crypt"
	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/storage"
)

// Open builds the driver named by SLOT_DRIVER, sealed with SLOT_KEY when one
// is set, and returns a bridge over it.
func Open(ctx context.Context) (*Bridge, error) {
	kv, err := openDriver(ctx, config.SlotDriver())
	if err != nil {
		return nil, err
	}

	if key := config.SlotKey(); key != "" {
		sealer, err := crypt.New(key)
		if err != nil {
			_ = kv.Close()
			return nil, err
		}
		kv = Sealed(kv, sealer)
	}
	return NewBridge(kv, config.SlotPrefix()), nil
}

func openDriver(ctx context.Context, name string) (KV, error) {
	switch name {
	case "memory":
		return NewMemory(), nil
	case "disk":
		d, err := storage.Open(ctx, config.StorageDisk())
		if err != nil {
			return nil, err
		}
		return NewDisk(d), nil
	case "redis":
		rdb, err := cache.Connect(ctx)
		if err != nil {
			return nil, err
		}
		return NewRedis(rdb), nil
	case "sql":
		db, err := database.Connect()
		if err != nil {
			return nil, err
		}
		return NewSQL(db)
	case "mongo":
		return DialMongo(ctx, config.MongoURI(), config.MongoDatabase())
	default:
		return nil, fmt.Errorf("slots: unknown SLOT_DRIVER %q (memory, disk, redis, sql, mongo)", name)
	}
}
