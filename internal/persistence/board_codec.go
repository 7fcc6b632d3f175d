package persistence

import (
	"fmt"

	"ManaMerge/internal/board/domain"
)

func encodeBoard(b *domain.Board) boardRecord {
	rec := boardRecord{Width: b.Width(), Height: b.Height(), Cells: []cellRecord{}}
	b.ForEach(func(c domain.Cell) {
		if c.Entity == nil && !c.Locked {
			return
		}
		cr := cellRecord{X: c.At.X, Y: c.At.Y, Locked: c.Locked}
		if e := c.Entity; e != nil {
			cr.Entity = &entityRecord{
				Kind:    e.Kind.String(),
				Tier:    e.Tier,
				Origin:  string(e.Origin),
				Variant: e.Variant.String(),
			}
		}
		rec.Cells = append(rec.Cells, cr)
	})
	return rec
}

// decodeBoard 重建棋盘并重新分配 id；尺寸不符、越界、重复坐标、tier 越界都视为损坏。
func decodeBoard(rec boardRecord, region domain.RegionID, width, height, maxTier int, ids domain.IDSource) (*domain.Board, error) {
	if rec.Width != width || rec.Height != height {
		return nil, fmt.Errorf("board %s: size %dx%d, want %dx%d", region, rec.Width, rec.Height, width, height)
	}
	b := domain.NewBoard(width, height)
	seen := make(map[domain.Coord]bool, len(rec.Cells))
	for _, cr := range rec.Cells {
		at := domain.Coord{X: cr.X, Y: cr.Y}
		if !b.InBounds(at) {
			return nil, fmt.Errorf("board %s: cell %v out of bounds", region, at)
		}
		if seen[at] {
			return nil, fmt.Errorf("board %s: duplicate cell %v", region, at)
		}
		seen[at] = true
		b.SetLocked(at, cr.Locked)
		if cr.Entity == nil {
			continue
		}
		e, err := decodeEntity(*cr.Entity, region, maxTier, ids)
		if err != nil {
			return nil, fmt.Errorf("board %s: cell %v: %w", region, at, err)
		}
		b.Place(at, e)
	}
	if err := b.Validate(maxTier); err != nil {
		return nil, err
	}
	return b, nil
}

func decodeEntity(rec entityRecord, region domain.RegionID, maxTier int, ids domain.IDSource) (*domain.Entity, error) {
	kind, err := domain.ParseKind(rec.Kind)
	if err != nil {
		return nil, err
	}
	variant, err := domain.ParseVariant(rec.Variant)
	if err != nil {
		return nil, err
	}
	if rec.Tier < 1 || rec.Tier > maxTier {
		return nil, fmt.Errorf("tier %d out of [1,%d]", rec.Tier, maxTier)
	}
	origin := region
	if rec.Origin != "" {
		if origin, err = domain.ParseRegion(rec.Origin); err != nil {
			return nil, err
		}
	}
	if kind == domain.KindHostile && variant == domain.VariantNone {
		return nil, fmt.Errorf("hostile without variant")
	}
	return domain.NewEntity(ids, kind, rec.Tier, maxTier, origin, variant), nil
}
