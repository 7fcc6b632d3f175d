package port

import "context"

// Store 是存档的键值读写契约，具体后端见 infra/*。
//
// 约定：
// - Get 在 key 不存在时返回 (nil, false, nil)；
// - PutBatch 尽量原子地写入一批记录（sqlite/mysql 走事务）；
// - Delete 对不存在的 key 不报错。
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	PutBatch(ctx context.Context, records map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
}

// Lister 是可选能力：列出某个前缀下的 key（存档工具使用）。
type Lister interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Closer 是可选能力：释放底层连接。
type Closer interface {
	Close(ctx context.Context) error
}
