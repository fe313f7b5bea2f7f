package game

// Tier buckets a guess for display. The engine only returns raw ranks; how
// close counts as "hot" is a presentation policy of the game.
type Tier string

const (
	TierFound    Tier = "found"
	TierHot      Tier = "hot"   // top 10
	TierWarm     Tier = "warm"  // top 100
	TierTepid    Tier = "tepid" // top 1000
	TierCold     Tier = "cold"
	TierUnranked Tier = "unranked" // not a corpus word
)

// TierFor maps a 1-based rank to its tier. ranked is false for guesses
// outside the corpus.
func TierFor(rank int, ranked bool) Tier {
	switch {
	case !ranked || rank <= 0:
		return TierUnranked
	case rank == 1:
		return TierFound
	case rank <= 10:
		return TierHot
	case rank <= 100:
		return TierWarm
	case rank <= 1000:
		return TierTepid
	default:
		return TierCold
	}
}

// ScoreOf converts a [0,1] similarity into the 0–100 integer score shown to
// players (truncated, like the /score endpoint).
func ScoreOf(similarity float64) int {
	s := int(similarity * 100)
	return max(0, min(100, s))
}

// CharOverlap is the degraded similarity used when a guess has no embedding:
// Jaccard overlap of the two words' letter sets.
func CharOverlap(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	sa, sb := runeSet(a), runeSet(b)
	inter := 0
	for r := range sa {
		if _, ok := sb[r]; ok {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func runeSet(s string) map[rune]struct{} {
	m := make(map[rune]struct{}, len(s))
	for _, r := range s {
		m[r] = struct{}{}
	}
	return m
}
