package domain

import (
	"errors"
	"fmt"
)

type Coord struct {
	X, Y int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Cell 的身份是坐标；Locked 的格子不可放入、不可作为移动目标、其中棋子不可移动。
type Cell struct {
	At     Coord
	Entity *Entity
	Locked bool
}

func (c Cell) Empty() bool {
	return c.Entity == nil
}

// Board 是固定尺寸的棋盘，每个格子最多一个棋子。
// 修改类方法只在调用方自己 Clone 出来的副本上使用。
type Board struct {
	width  int
	height int
	cells  []Cell
}

func NewBoard(width, height int) *Board {
	b := &Board{width: width, height: height, cells: make([]Cell, width*height)}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			b.cells[y*width+x].At = Coord{X: x, Y: y}
		}
	}
	return b
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

// Clone 深拷贝，棋子也复制一份，避免副本与原盘共享指针。
func (b *Board) Clone() *Board {
	if b == nil {
		return nil
	}
	out := &Board{width: b.width, height: b.height, cells: make([]Cell, len(b.cells))}
	for i, c := range b.cells {
		out.cells[i] = Cell{At: c.At, Entity: c.Entity.Clone(), Locked: c.Locked}
	}
	return out
}

func (b *Board) InBounds(c Coord) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < b.width && c.Y < b.height
}

// Cell 返回格子副本；越界返回 ok=false。
func (b *Board) Cell(c Coord) (Cell, bool) {
	if !b.InBounds(c) {
		return Cell{}, false
	}
	return b.cells[c.Y*b.width+c.X], true
}

func (b *Board) EntityAt(c Coord) *Entity {
	if !b.InBounds(c) {
		return nil
	}
	return b.cells[c.Y*b.width+c.X].Entity
}

func (b *Board) IsLocked(c Coord) bool {
	return b.InBounds(c) && b.cells[c.Y*b.width+c.X].Locked
}

// Place 把棋子放到格子里，覆盖原有内容。越界时忽略。
func (b *Board) Place(c Coord, e *Entity) {
	if b.InBounds(c) {
		b.cells[c.Y*b.width+c.X].Entity = e
	}
}

func (b *Board) Clear(c Coord) *Entity {
	if !b.InBounds(c) {
		return nil
	}
	i := c.Y*b.width + c.X
	e := b.cells[i].Entity
	b.cells[i].Entity = nil
	return e
}

func (b *Board) SetLocked(c Coord, locked bool) {
	if b.InBounds(c) {
		b.cells[c.Y*b.width+c.X].Locked = locked
	}
}

// ForEach 按行优先顺序遍历。
func (b *Board) ForEach(fn func(c Cell)) {
	for _, c := range b.cells {
		fn(c)
	}
}

// Neighbors 返回上、下、左、右四个方向上在界内的坐标。
func (b *Board) Neighbors(c Coord) []Coord {
	cand := [4]Coord{{c.X, c.Y - 1}, {c.X, c.Y + 1}, {c.X - 1, c.Y}, {c.X + 1, c.Y}}
	out := make([]Coord, 0, 4)
	for _, n := range cand {
		if b.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// EmptyUnlocked 返回全部空且未锁定的格子（行优先）。
func (b *Board) EmptyUnlocked() []Coord {
	var out []Coord
	for _, c := range b.cells {
		if c.Entity == nil && !c.Locked {
			out = append(out, c.At)
		}
	}
	return out
}

func (b *Board) CanPlace(c Coord) bool {
	if !b.InBounds(c) {
		return false
	}
	cell := b.cells[c.Y*b.width+c.X]
	return cell.Entity == nil && !cell.Locked
}

// Count 返回棋子总数。
func (b *Board) Count() int {
	n := 0
	for _, c := range b.cells {
		if c.Entity != nil {
			n++
		}
	}
	return n
}

func (b *Board) CountKind(kind Kind) int {
	n := 0
	for _, c := range b.cells {
		if c.Entity != nil && c.Entity.Kind == kind {
			n++
		}
	}
	return n
}

func (b *Board) LockedCount() int {
	n := 0
	for _, c := range b.cells {
		if c.Locked {
			n++
		}
	}
	return n
}

var ErrInvalidBoard = errors.New("invalid board")

// Validate 检查结构性约束：tier 在 [1,maxTier]、同一个棋子不出现在两个格子、枚举取值合法。
func (b *Board) Validate(maxTier int) error {
	if b == nil || b.width <= 0 || b.height <= 0 || len(b.cells) != b.width*b.height {
		return fmt.Errorf("%w: bad dimensions", ErrInvalidBoard)
	}
	seen := make(map[*Entity]Coord)
	for _, c := range b.cells {
		e := c.Entity
		if e == nil {
			continue
		}
		if prev, dup := seen[e]; dup {
			return fmt.Errorf("%w: entity at %v also at %v", ErrInvalidBoard, c.At, prev)
		}
		seen[e] = c.At
		if e.Tier < 1 || e.Tier > maxTier {
			return fmt.Errorf("%w: tier %d at %v out of [1,%d]", ErrInvalidBoard, e.Tier, c.At, maxTier)
		}
		switch e.Kind {
		case KindCreature:
			if e.Variant != VariantNone {
				return fmt.Errorf("%w: creature at %v has variant", ErrInvalidBoard, c.At)
			}
		case KindHostile:
			if e.Variant == VariantNone {
				return fmt.Errorf("%w: hostile at %v has no variant", ErrInvalidBoard, c.At)
			}
		default:
			return fmt.Errorf("%w: unknown kind at %v", ErrInvalidBoard, c.At)
		}
	}
	return nil
}
