package persistence

import (
	"context"
	"time"

	"ManaMerge/internal/board/domain"
	"ManaMerge/internal/economy"
	"ManaMerge/internal/persistence/codec"
	"ManaMerge/internal/persistence/port"
	"ManaMerge/internal/shared/gameconfig/balance"
	"ManaMerge/modules/kit/logx"
)

// Repository 把 Snapshot 拆成独立记录写入 Store，读档时逐条解码。
type Repository struct {
	store port.Store
	codec *codec.Codec
	keys  Keys
	bal   *balance.Balance
	ids   domain.IDSource
	log   logx.Logger
}

func NewRepository(store port.Store, keys Keys, bal *balance.Balance, ids domain.IDSource, l logx.Logger) (*Repository, error) {
	c, err := codec.Default()
	if err != nil {
		return nil, err
	}
	return &Repository{store: store, codec: c, keys: keys, bal: bal, ids: ids, log: logx.OrNop(l)}, nil
}

func (r *Repository) Keys() Keys { return r.keys }

// Save 全量写入一次快照。
func (r *Repository) Save(ctx context.Context, s Snapshot) error {
	records, err := r.encode(s)
	if err != nil {
		return ErrEncodeFailed.WithCause(err)
	}
	if err := r.store.PutBatch(ctx, records); err != nil {
		return ErrStoreUnavailable.WithReason(ReasonStoreWrite).WithCause(err)
	}
	return nil
}

func (r *Repository) encode(s Snapshot) (map[string][]byte, error) {
	out := make(map[string][]byte, len(domain.Regions)+8)
	put := func(key string, v any, compress bool) error {
		raw, err := r.codec.Encode(v, compress)
		if err != nil {
			return err
		}
		out[key] = raw
		return nil
	}

	for _, id := range domain.Regions {
		b := s.Boards[id]
		if b == nil {
			b = domain.NewBoard(r.bal.Board.Width, r.bal.Board.Height)
		}
		if err := put(r.keys.Board(id), encodeBoard(b), true); err != nil {
			return nil, err
		}
	}

	unlocked := make([]string, 0, len(s.Unlocked))
	for _, id := range s.Unlocked {
		unlocked = append(unlocked, string(id))
	}
	active := s.Active
	if active == "" {
		active = domain.Regions[0]
	}
	inv := s.Inventory
	if inv == nil {
		inv = map[string]int{}
	}
	var buffs buffsRecord
	if s.Boost.Active() {
		buffs.Boost = &boostRecord{Multiplier: s.Boost.Multiplier, ExpiresAtMS: s.Boost.ExpiresAt.UnixMilli()}
	}
	savedAt := s.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}

	steps := []struct {
		key string
		v   any
	}{
		{r.keys.Regions(), regionsRecord{Unlocked: unlocked, Active: string(active)}},
		{r.keys.Mana(), manaRecord{Balance: max(0, s.Mana)}},
		{r.keys.Upgrades(), upgradesRecord{SummonLuck: max(1, s.Upgrades.SummonLuck)}},
		{r.keys.Inventory(), inventoryRecord{Counts: inv}},
		{r.keys.Offline(), offlineRecord{Efficiency: s.Upgrades.OfflineEfficiency, MaxSeconds: s.Upgrades.OfflineDuration}},
		{r.keys.Buffs(), buffs},
		{r.keys.Stats(), statsRecord{Defeats: max(0, s.Defeats)}},
		{r.keys.SavedAt(), savedAtRecord{UnixMS: savedAt.UnixMilli()}},
	}
	for _, st := range steps {
		if err := put(st.key, st.v, false); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Load 读档。没有任何存档时返回 (nil, nil)；只有旧格式时迁移一次。
// 单条记录损坏只回退该条，读存储失败则整体报错，避免用默认值覆盖真实存档。
func (r *Repository) Load(ctx context.Context) (*Loaded, error) {
	raws := make(map[string][]byte)
	for _, key := range r.keys.All() {
		raw, ok, err := r.store.Get(ctx, key)
		if err != nil {
			return nil, ErrStoreUnavailable.WithReason(ReasonStoreRead).WithData("key", key).WithCause(err)
		}
		if ok {
			raws[key] = raw
		}
	}

	if len(raws) == 0 {
		return r.migrateLegacy(ctx)
	}

	loaded := r.decode(ctx, raws)
	// 迁移写入后、删除旧 key 前崩溃时，这里补删。
	r.dropLegacy(ctx)
	return loaded, nil
}

func (r *Repository) defaults() Snapshot {
	s := Snapshot{
		Boards:    make(map[domain.RegionID]*domain.Board, len(domain.Regions)),
		Unlocked:  []domain.RegionID{domain.Regions[0]},
		Active:    domain.Regions[0],
		Upgrades:  economy.DefaultUpgrades(r.bal.Upgrades),
		Inventory: make(map[string]int, len(r.bal.Consumables)),
	}
	for _, id := range domain.Regions {
		s.Boards[id] = domain.NewBoard(r.bal.Board.Width, r.bal.Board.Height)
	}
	for _, c := range r.bal.Consumables {
		s.Inventory[c.ID] = 0
	}
	return s
}

func (r *Repository) decode(ctx context.Context, raws map[string][]byte) *Loaded {
	loaded := &Loaded{Snapshot: r.defaults()}
	s := &loaded.Snapshot

	// read 在记录存在且合法时返回 true；损坏时记录回退并告警。
	read := func(key string, schema codec.Schema, out any, check func() error) bool {
		raw, ok := raws[key]
		if !ok {
			return false
		}
		err := r.codec.Decode(schema, raw, out)
		if err == nil && check != nil {
			err = check()
		}
		if err != nil {
			loaded.Fallbacks = append(loaded.Fallbacks, key)
			logx.ReportSysErrorWithLoggerContext(ctx, r.log,
				logx.NewSysLog("load_record", ErrCorrupt.WithReason(ReasonRecordCorrupt).WithData("key", key).WithCause(err)))
			return false
		}
		return true
	}

	for _, id := range domain.Regions {
		var rec boardRecord
		var b *domain.Board
		if read(r.keys.Board(id), codec.SchemaBoard, &rec, func() (err error) {
			b, err = decodeBoard(rec, id, r.bal.Board.Width, r.bal.Board.Height, r.bal.Board.MaxTier, r.ids)
			return err
		}) {
			s.Boards[id] = b
		}
	}

	var regions regionsRecord
	if read(r.keys.Regions(), codec.SchemaRegions, &regions, nil) {
		s.Unlocked = s.Unlocked[:0]
		for _, name := range regions.Unlocked {
			// schema 已限定取值。
			s.Unlocked = append(s.Unlocked, domain.RegionID(name))
		}
		s.Active = domain.RegionID(regions.Active)
	}

	var mana manaRecord
	if read(r.keys.Mana(), codec.SchemaMana, &mana, nil) {
		s.Mana = mana.Balance
	}

	var up upgradesRecord
	if read(r.keys.Upgrades(), codec.SchemaUpgrades, &up, nil) {
		s.Upgrades.SummonLuck = up.SummonLuck
	}
	var off offlineRecord
	if read(r.keys.Offline(), codec.SchemaOffline, &off, nil) {
		s.Upgrades.OfflineEfficiency = off.Efficiency
		s.Upgrades.OfflineDuration = off.MaxSeconds
	}
	s.Upgrades = s.Upgrades.Normalize(r.bal.Upgrades)

	var inv inventoryRecord
	if read(r.keys.Inventory(), codec.SchemaInventory, &inv, nil) {
		for id, n := range inv.Counts {
			s.Inventory[id] = n
		}
	}

	var buffs buffsRecord
	if read(r.keys.Buffs(), codec.SchemaBuffs, &buffs, nil) && buffs.Boost != nil {
		s.Boost = BoostState{Multiplier: buffs.Boost.Multiplier, ExpiresAt: time.UnixMilli(buffs.Boost.ExpiresAtMS)}
	}

	var stats statsRecord
	if read(r.keys.Stats(), codec.SchemaStats, &stats, nil) {
		s.Defeats = stats.Defeats
	}

	var saved savedAtRecord
	if read(r.keys.SavedAt(), codec.SchemaSavedAt, &saved, nil) {
		s.SavedAt = time.UnixMilli(saved.UnixMS)
		loaded.HasSavedAt = true
	}
	return loaded
}

// Reset 删除当前格式与旧格式的全部记录。
func (r *Repository) Reset(ctx context.Context) error {
	keys := append(r.keys.All(), r.keys.Legacy()...)
	if err := r.store.Delete(ctx, keys...); err != nil {
		return ErrStoreUnavailable.WithReason(ReasonStoreDelete).WithCause(err)
	}
	return nil
}

// RecordStatus 是单条记录的检查结果（存档工具使用）。
type RecordStatus struct {
	Key     string
	Present bool
	Bytes   int
	Err     error
}

// Check 逐条读取并校验记录，不做任何写入。
func (r *Repository) Check(ctx context.Context) ([]RecordStatus, error) {
	schemas := map[string]codec.Schema{
		r.keys.Regions():   codec.SchemaRegions,
		r.keys.Mana():      codec.SchemaMana,
		r.keys.Upgrades():  codec.SchemaUpgrades,
		r.keys.Inventory(): codec.SchemaInventory,
		r.keys.Offline():   codec.SchemaOffline,
		r.keys.Buffs():     codec.SchemaBuffs,
		r.keys.Stats():     codec.SchemaStats,
		r.keys.SavedAt():   codec.SchemaSavedAt,
	}
	for _, id := range domain.Regions {
		schemas[r.keys.Board(id)] = codec.SchemaBoard
	}
	if r.keys.legacy {
		schemas[LegacyKeyGrid] = codec.SchemaLegacyGrid
	}

	keys := append(r.keys.All(), r.keys.Legacy()...)
	out := make([]RecordStatus, 0, len(keys))
	for _, key := range keys {
		raw, ok, err := r.store.Get(ctx, key)
		if err != nil {
			return nil, ErrStoreUnavailable.WithReason(ReasonStoreRead).WithData("key", key).WithCause(err)
		}
		st := RecordStatus{Key: key, Present: ok, Bytes: len(raw)}
		if ok {
			if schema, known := schemas[key]; known {
				plain, perr := r.codec.Plain(raw)
				if perr == nil {
					perr = r.codec.Validate(schema, plain)
				}
				st.Err = perr
			}
		}
		out = append(out, st)
	}
	return out, nil
}
