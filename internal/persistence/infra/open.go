package infra

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"ManaMerge/internal/persistence/infra/memory"
	"ManaMerge/internal/persistence/infra/mongodb"
	"ManaMerge/internal/persistence/infra/mysql"
	"ManaMerge/internal/persistence/infra/sqlite"
	"ManaMerge/internal/persistence/port"
	"ManaMerge/internal/shared/appconfig"
	"ManaMerge/internal/shared/infrastructure/db"
	mongoinfra "ManaMerge/internal/shared/infrastructure/mongo"
	sqliteinfra "ManaMerge/internal/shared/infrastructure/sqlite"
)

// Opened 是打开后的存储以及释放函数。
type Opened struct {
	Store port.Store
	Close func(ctx context.Context) error
}

// Open 按 driver 打开存档存储。
func Open(cfg appconfig.StorageConfig, l *zap.Logger) (Opened, error) {
	if l == nil {
		l = zap.NewNop()
	}
	switch cfg.Driver {
	case appconfig.DriverMemory:
		return wrap(memory.NewStore()), nil

	case appconfig.DriverSQLite:
		sqlDB, err := sqliteinfra.Open(cfg.SQLite, l)
		if err != nil {
			return Opened{}, err
		}
		s, err := sqlite.NewStore(sqlDB)
		if err != nil {
			_ = sqlDB.Close()
			return Opened{}, err
		}
		return wrap(s), nil

	case appconfig.DriverMySQL:
		gdb, err := db.Open(cfg.MySQL)
		if err != nil {
			return Opened{}, err
		}
		s, err := mysql.NewStore(gdb)
		if err != nil {
			return Opened{}, err
		}
		return wrap(s), nil

	case appconfig.DriverMongoDB:
		client, err := mongoinfra.Open(cfg.MongoDB, l)
		if err != nil {
			return Opened{}, err
		}
		s, err := mongodb.NewStore(client, cfg.MongoDB.Database, cfg.MongoDB.Collection)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return Opened{}, err
		}
		return wrap(s), nil

	default:
		return Opened{}, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func wrap(s port.Store) Opened {
	o := Opened{Store: s, Close: func(context.Context) error { return nil }}
	if c, ok := s.(port.Closer); ok {
		o.Close = c.Close
	}
	return o
}
