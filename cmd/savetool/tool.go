package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"ManaMerge/internal/board/domain"
	"ManaMerge/internal/persistence"
	"ManaMerge/internal/persistence/port"
)

type tool struct {
	repo  *persistence.Repository
	store port.Store
	keys  persistence.Keys
	out   io.Writer
}

func (t *tool) check(ctx context.Context) error {
	statuses, err := t.repo.Check(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(t.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tPRESENT\tBYTES\tSTATUS")
	bad := 0
	for _, st := range statuses {
		status := "ok"
		switch {
		case !st.Present:
			status = "-"
		case st.Err != nil:
			status = st.Err.Error()
			bad++
		}
		fmt.Fprintf(w, "%s\t%v\t%d\t%s\n", st.Key, st.Present, st.Bytes, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if bad > 0 {
		return fmt.Errorf("%d corrupt record(s)", bad)
	}
	return nil
}

// exportDoc 是 export 输出的结构，棋盘按行画成字符串。
type exportDoc struct {
	Active    string              `yaml:"active"`
	Unlocked  []string            `yaml:"unlocked"`
	Mana      float64             `yaml:"mana"`
	Defeats   int                 `yaml:"defeats"`
	SavedAt   string              `yaml:"saved_at,omitempty"`
	Migrated  bool                `yaml:"migrated"`
	Fallbacks []string            `yaml:"fallbacks,omitempty"`
	Inventory map[string]int      `yaml:"inventory"`
	Upgrades  map[string]float64  `yaml:"upgrades"`
	Boards    map[string][]string `yaml:"boards"`
}

func (t *tool) export(ctx context.Context) error {
	l, err := t.repo.Load(ctx)
	if err != nil {
		return err
	}
	if l == nil {
		_, err := fmt.Fprintln(t.out, "# no save")
		return err
	}
	doc := exportDoc{
		Active:    string(l.Active),
		Mana:      l.Mana,
		Defeats:   l.Defeats,
		Migrated:  l.Migrated,
		Fallbacks: l.Fallbacks,
		Inventory: l.Inventory,
		Upgrades: map[string]float64{
			"summon_luck":        float64(l.Upgrades.SummonLuck),
			"offline_efficiency": l.Upgrades.OfflineEfficiency,
			"offline_duration":   l.Upgrades.OfflineDuration,
		},
		Boards: make(map[string][]string, len(l.Boards)),
	}
	for _, id := range l.Unlocked {
		doc.Unlocked = append(doc.Unlocked, string(id))
	}
	if l.HasSavedAt {
		doc.SavedAt = l.SavedAt.UTC().Format(time.RFC3339)
	}
	for id, b := range l.Boards {
		doc.Boards[string(id)] = drawBoard(b)
	}
	enc := yaml.NewEncoder(t.out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// drawBoard 每格两个字符：c/h 加阶数（10 阶写作 X），空格为 "..", 封印格为 "##"。
func drawBoard(b *domain.Board) []string {
	if b == nil {
		return nil
	}
	rows := make([]string, b.Height())
	for y := range rows {
		line := make([]byte, 0, b.Width()*3)
		for x := 0; x < b.Width(); x++ {
			if x > 0 {
				line = append(line, ' ')
			}
			c, _ := b.Cell(domain.Coord{X: x, Y: y})
			switch {
			case c.Locked && c.Entity == nil:
				line = append(line, "##"...)
			case c.Entity == nil:
				line = append(line, ".."...)
			default:
				kind := byte('c')
				if c.Entity.IsHostile() {
					kind = 'h'
				}
				tier := byte('0' + c.Entity.Tier%10)
				if c.Entity.Tier >= 10 {
					tier = 'X'
				}
				line = append(line, kind, tier)
			}
		}
		rows[y] = string(line)
	}
	return rows
}

func (t *tool) listKeys(ctx context.Context) error {
	lister, ok := t.store.(port.Lister)
	if !ok {
		return fmt.Errorf("storage backend cannot list keys")
	}
	keys, err := lister.Keys(ctx, t.keys.Prefix())
	if err != nil {
		return err
	}
	keys = append(keys, t.presentLegacy(ctx)...)
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintln(t.out, k); err != nil {
			return err
		}
	}
	return nil
}

func (t *tool) presentLegacy(ctx context.Context) []string {
	var out []string
	for _, k := range t.keys.Legacy() {
		if _, ok, err := t.store.Get(ctx, k); err == nil && ok {
			out = append(out, k)
		}
	}
	return out
}

func (t *tool) migrate(ctx context.Context) error {
	l, err := t.repo.Load(ctx)
	if err != nil {
		return err
	}
	switch {
	case l == nil:
		_, err = fmt.Fprintln(t.out, "no save")
	case l.Migrated:
		_, err = fmt.Fprintln(t.out, "legacy save migrated")
	default:
		_, err = fmt.Fprintln(t.out, "already current format")
	}
	return err
}

func (t *tool) wipe(ctx context.Context) error {
	if err := t.repo.Reset(ctx); err != nil {
		return err
	}
	_, err := fmt.Fprintf(t.out, "wiped slot %q\n", t.keys.Prefix())
	return err
}
