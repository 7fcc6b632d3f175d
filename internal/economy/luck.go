package economy

// Rand 与 hostile.Rand 相同的最小随机源。
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// LuckRow 返回幸运等级（从 1 开始）对应的召唤概率行，越界时夹到表内。
func LuckRow(table [][]float64, level int) []float64 {
	if len(table) == 0 {
		return []float64{1}
	}
	level = min(max(level, 1), len(table))
	return table[level-1]
}

// SummonTier 按幸运表抽取召唤出的 tier（从 1 开始）。
func SummonTier(table [][]float64, level int, rng Rand) int {
	row := LuckRow(table, level)
	roll := rng.Float64()
	acc := 0.0
	for i, p := range row {
		acc += p
		if roll < acc {
			return i + 1
		}
	}
	return len(row)
}
