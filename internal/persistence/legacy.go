package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"ManaMerge/internal/board/domain"
	"ManaMerge/internal/persistence/codec"
	"ManaMerge/modules/kit/logx"
)

// 旧版单棋盘格式：grid[y][x]，item.type 为 creature/plant/rock/chest/enemy。
type legacyCell struct {
	X        int         `json:"x"`
	Y        int         `json:"y"`
	IsLocked bool        `json:"isLocked"`
	Item     *legacyItem `json:"item"`
}

type legacyItem struct {
	ID       string `json:"id"`
	Tier     int    `json:"tier"`
	Type     string `json:"type"`
	IsLocked bool   `json:"isLocked"`
}

// migrateLegacy 把旧格式迁移到默认区域，写入新记录后删除旧 key。没有旧存档时返回 (nil, nil)。
func (r *Repository) migrateLegacy(ctx context.Context) (*Loaded, error) {
	legacyKeys := r.keys.Legacy()
	if len(legacyKeys) == 0 {
		return nil, nil
	}
	raws := make(map[string][]byte, len(legacyKeys))
	for _, key := range legacyKeys {
		raw, ok, err := r.store.Get(ctx, key)
		if err != nil {
			return nil, ErrStoreUnavailable.WithReason(ReasonStoreRead).WithData("key", key).WithCause(err)
		}
		if ok {
			raws[key] = raw
		}
	}
	if len(raws) == 0 {
		return nil, nil
	}

	loaded := &Loaded{Snapshot: r.defaults(), Migrated: true}
	s := &loaded.Snapshot
	fallback := func(key string, err error) {
		loaded.Fallbacks = append(loaded.Fallbacks, key)
		logx.ReportSysErrorWithLoggerContext(ctx, r.log,
			logx.NewSysLog("migrate_legacy", ErrCorrupt.WithReason(ReasonRecordCorrupt).WithData("key", key).WithCause(err)))
	}

	if raw, ok := raws[LegacyKeyGrid]; ok {
		b, err := r.decodeLegacyGrid(raw)
		if err != nil {
			fallback(LegacyKeyGrid, err)
		} else {
			s.Boards[domain.Regions[0]] = b
		}
	}
	if raw, ok := raws[LegacyKeyMana]; ok {
		if v, err := parseLegacyNumber(raw); err != nil || v < 0 {
			fallback(LegacyKeyMana, fmt.Errorf("mana %q: %v", raw, err))
		} else {
			s.Mana = v
		}
	}
	if raw, ok := raws[LegacyKeyTime]; ok {
		if ms, err := parseLegacyNumber(raw); err != nil || ms <= 0 {
			fallback(LegacyKeyTime, fmt.Errorf("time %q: %v", raw, err))
		} else {
			s.SavedAt = time.UnixMilli(int64(ms))
			loaded.HasSavedAt = true
		}
	}

	// 先写新格式再删旧 key：中途失败时下次仍能从旧格式迁移。
	snap := loaded.Snapshot
	if !loaded.HasSavedAt {
		snap.SavedAt = time.Now()
	}
	if err := r.Save(ctx, snap); err != nil {
		return nil, err
	}
	r.dropLegacy(ctx)

	logx.ReportBizWithLoggerContext(ctx, r.log,
		logx.NewBizLog("migrate_legacy", ReasonLegacyMigrate.Code, ReasonLegacyMigrate.Message),
		zap.Int("entities", s.Boards[domain.Regions[0]].Count()),
		zap.Float64("mana", s.Mana),
	)
	return loaded, nil
}

func (r *Repository) dropLegacy(ctx context.Context) {
	keys := r.keys.Legacy()
	if len(keys) == 0 {
		return
	}
	if err := r.store.Delete(ctx, keys...); err != nil {
		logx.ReportSysErrorWithLoggerContext(ctx, r.log,
			logx.NewSysLog("drop_legacy", ErrStoreUnavailable.WithReason(ReasonStoreDelete).WithCause(err)))
	}
}

func (r *Repository) decodeLegacyGrid(raw []byte) (*domain.Board, error) {
	var grid [][]legacyCell
	if err := r.codec.Decode(codec.SchemaLegacyGrid, raw, &grid); err != nil {
		return nil, err
	}
	width, height, maxTier := r.bal.Board.Width, r.bal.Board.Height, r.bal.Board.MaxTier
	if len(grid) != height {
		return nil, fmt.Errorf("legacy grid has %d rows, want %d", len(grid), height)
	}
	b := domain.NewBoard(width, height)
	for y, row := range grid {
		if len(row) != width {
			return nil, fmt.Errorf("legacy grid row %d has %d cells, want %d", y, len(row), width)
		}
		for x, cell := range row {
			at := domain.Coord{X: x, Y: y}
			locked := cell.IsLocked
			if it := cell.Item; it != nil {
				locked = locked || it.IsLocked
				b.Place(at, legacyEntity(r.ids, *it, maxTier))
			}
			b.SetLocked(at, locked)
		}
	}
	if err := b.Validate(maxTier); err != nil {
		return nil, err
	}
	return b, nil
}

// 旧版 enemy 只有一种行为（偷取 + 扩散），对应 drainer；其余类型都按 creature 处理。
// 旧版按 type 匹配，plant/rock/chest 互不合成；迁移后它们与同阶 creature 可以合成，
// 因为 Kind 只有 creature 与 hostile 两种。
func legacyEntity(ids domain.IDSource, it legacyItem, maxTier int) *domain.Entity {
	origin := domain.Regions[0]
	if it.Type == "enemy" {
		return domain.NewEntity(ids, domain.KindHostile, it.Tier, maxTier, origin, domain.VariantDrainer)
	}
	return domain.NewEntity(ids, domain.KindCreature, it.Tier, maxTier, origin, domain.VariantNone)
}

// 旧版数值以字符串形式保存（可能带引号或小数）。
func parseLegacyNumber(raw []byte) (float64, error) {
	s := strings.TrimSpace(string(raw))
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	var v float64
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return strconv.ParseFloat(s, 64)
	}
	return v, nil
}
