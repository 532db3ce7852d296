package rating

// Baselines are the CDL pool averages per metric.
type Baselines map[StatKey]float64

// ComputeBaselines averages every metric over the CDL pool players.
// It returns an empty set when there are no CDL pool players.
func ComputeBaselines(players []Player) Baselines {
	var sums Stats
	n := 0
	for _, pl := range players {
		if pl.Pool != CDL {
			continue
		}
		for _, k := range StatKeys {
			sums[k] += pl.Stats[k]
		}
		n++
	}

	b := Baselines{}
	if n == 0 {
		return b
	}
	for _, k := range StatKeys {
		b[k] = sums[k] / float64(n)
	}
	return b
}

// Normalize adjusts a Challengers player's stats against the CDL baselines.
// Values at or above the baseline are pulled halfway towards it. Values
// below it lose the same gap again, so a shortfall counts double.
// Metrics without a baseline are returned as is.
func Normalize(pl Player, b Baselines) Stats {
	var out Stats
	for _, k := range StatKeys {
		out[k] = normalizeValue(pl.Stats[k], b[k])
	}
	return out
}

func normalizeValue(v, base float64) float64 {
	if base == 0 {
		return v
	}
	avg := (v + base) / 2
	if v >= base {
		return avg
	}
	return v - (base - avg)
}
