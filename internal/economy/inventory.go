package economy

import "sort"

// Inventory 是道具计数，计数永不为负。
type Inventory struct {
	counts map[string]int
}

func NewInventory(known ...string) *Inventory {
	inv := &Inventory{counts: make(map[string]int, len(known))}
	for _, id := range known {
		inv.counts[id] = 0
	}
	return inv
}

func (i *Inventory) Add(id string, n int) {
	if n > 0 {
		i.counts[id] += n
	}
}

// Use 数量为 0 时返回 false 且不修改。
func (i *Inventory) Use(id string) bool {
	if i.counts[id] <= 0 {
		return false
	}
	i.counts[id]--
	return true
}

func (i *Inventory) Count(id string) int {
	return i.counts[id]
}

// Set 读档时覆盖，负数按 0 处理。
func (i *Inventory) Set(id string, n int) {
	i.counts[id] = max(0, n)
}

func (i *Inventory) Snapshot() map[string]int {
	out := make(map[string]int, len(i.counts))
	for k, v := range i.counts {
		out[k] = v
	}
	return out
}

func (i *Inventory) IDs() []string {
	ids := make([]string, 0, len(i.counts))
	for k := range i.counts {
		ids = append(ids, k)
	}
	sort.Strings(ids)
	return ids
}
