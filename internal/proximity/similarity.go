package proximity

import (
	"math"

	"github.com/robalobadob/closeword/internal/embedding"
)

// Similarity returns the cosine similarity of a and b mapped from [-1,1] to
// [0,1] by (cos+1)/2. It is symmetric and allocation-free.
//
// Vectors with zero magnitude, empty vectors and vectors of different
// lengths score 0: "totally unrelated" rather than a numeric error.
func Similarity(a, b embedding.Vector) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	cos := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if math.IsNaN(cos) {
		return 0
	}
	cos = math.Max(-1, math.Min(1, cos))
	return (cos + 1) / 2
}
