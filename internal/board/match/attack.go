package match

import (
	"fmt"

	"ManaMerge/internal/board/domain"
	"ManaMerge/internal/shared/gameconfig/balance"
)

// Shape 是合成后攻击范围的形状。
type Shape uint8

const (
	ShapeCross1 Shape = iota + 1
	ShapeBlock3
	ShapeCross2
	ShapeBlock5
	ShapeBlock7
)

func ParseShape(s string) (Shape, error) {
	switch s {
	case "cross1":
		return ShapeCross1, nil
	case "block3":
		return ShapeBlock3, nil
	case "cross2":
		return ShapeCross2, nil
	case "block5":
		return ShapeBlock5, nil
	case "block7":
		return ShapeBlock7, nil
	default:
		return 0, fmt.Errorf("unknown attack shape %q", s)
	}
}

// AttackBand: tier >= MinTier 的合成使用 Shape，按 MinTier 升序排列。
type AttackBand struct {
	MinTier int
	Shape   Shape
}

// DefaultBands 1–2 十字1, 3–4 3x3, 5–6 十字2, 7–8 5x5, 9+ 7x7。
var DefaultBands = []AttackBand{
	{MinTier: 1, Shape: ShapeCross1},
	{MinTier: 3, Shape: ShapeBlock3},
	{MinTier: 5, Shape: ShapeCross2},
	{MinTier: 7, Shape: ShapeBlock5},
	{MinTier: 9, Shape: ShapeBlock7},
}

func BandsFrom(in []balance.AttackBand) ([]AttackBand, error) {
	out := make([]AttackBand, 0, len(in))
	for _, b := range in {
		s, err := ParseShape(b.Shape)
		if err != nil {
			return nil, err
		}
		out = append(out, AttackBand{MinTier: b.MinTier, Shape: s})
	}
	return out, nil
}

func shapeFor(tier int, bands []AttackBand) Shape {
	if len(bands) == 0 {
		bands = DefaultBands
	}
	shape := bands[0].Shape
	for _, b := range bands {
		if tier >= b.MinTier {
			shape = b.Shape
		}
	}
	return shape
}

// AttackRange 返回攻击覆盖的坐标（不含中心，裁剪到棋盘内），行优先顺序。
func AttackRange(center domain.Coord, tier, width, height int, bands []AttackBand) []domain.Coord {
	var radius int
	cross := false
	switch shapeFor(tier, bands) {
	case ShapeCross1:
		radius, cross = 1, true
	case ShapeBlock3:
		radius = 1
	case ShapeCross2:
		radius, cross = 2, true
	case ShapeBlock5:
		radius = 2
	case ShapeBlock7:
		radius = 3
	}

	var out []domain.Coord
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if cross && dx != 0 && dy != 0 {
				continue
			}
			c := domain.Coord{X: center.X + dx, Y: center.Y + dy}
			if c.X >= 0 && c.Y >= 0 && c.X < width && c.Y < height {
				out = append(out, c)
			}
		}
	}
	return out
}

type Defeat struct {
	At     domain.Coord
	Entity *domain.Entity
}

// ApplyAttack 移除攻击范围内的全部敌对单位，返回新棋盘与被击败列表。无命中时返回原棋盘。
func ApplyAttack(b *domain.Board, center domain.Coord, tier int, bands []AttackBand) (*domain.Board, []Defeat) {
	var defeats []Defeat
	for _, c := range AttackRange(center, tier, b.Width(), b.Height(), bands) {
		if e := b.EntityAt(c); e.IsHostile() {
			defeats = append(defeats, Defeat{At: c, Entity: e})
		}
	}
	if len(defeats) == 0 {
		return b, nil
	}
	next := b.Clone()
	for _, d := range defeats {
		next.Clear(d.At)
	}
	return next, defeats
}

// ClearHostiles 移除棋盘上全部敌对单位（炸弹/末日道具）。
func ClearHostiles(b *domain.Board) (*domain.Board, []Defeat) {
	var defeats []Defeat
	b.ForEach(func(c domain.Cell) {
		if c.Entity.IsHostile() {
			defeats = append(defeats, Defeat{At: c.At, Entity: c.Entity})
		}
	})
	if len(defeats) == 0 {
		return b, nil
	}
	next := b.Clone()
	for _, d := range defeats {
		next.Clear(d.At)
	}
	return next, defeats
}
