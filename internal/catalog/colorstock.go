package catalog

// AddColorStock returns m with the entry for color adjusted by delta. A
// missing entry counts as zero and the result never goes below zero. The map
// is copied so callers holding the original are unaffected.
func AddColorStock(m map[string]int, color string, delta int) map[string]int {
	out := make(map[string]int, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	n := out[color] + delta
	if n < 0 {
		n = 0
	}
	out[color] = n
	return out
}

// SumColorStock is the aggregate quantity across all color entries.
func SumColorStock(m map[string]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}
