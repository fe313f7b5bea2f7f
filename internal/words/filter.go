package words

// MinWordLength is the shortest word accepted by Filter.
const MinWordLength = 3

// stopwords are function words that make poor secrets: their neighbours in
// embedding space are other function words.
var stopwords = toSet([]string{
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
	"of", "with", "by", "from", "as", "is", "was", "are", "were", "been",
	"be", "have", "has", "had", "do", "does", "did", "will", "would",
	"could", "should", "may", "might", "must", "can", "this", "that",
	"these", "those", "i", "you", "he", "she", "it", "we", "they", "what",
	"which", "who", "whom", "whose", "where", "when", "why", "how",
	"all", "each", "every", "both", "few", "more", "most", "other",
	"some", "such", "no", "nor", "not", "only", "own", "same", "so",
	"than", "too", "very", "just", "now", "then", "here", "there",
})

// IsCandidate reports whether w (already normalized) is fit for a corpus:
// plain a–z, at least MinWordLength letters, not a stopword.
func IsCandidate(w string) bool {
	if len(w) < MinWordLength || !isAlpha(w) {
		return false
	}
	_, stop := stopwords[w]
	return !stop
}

// Filter normalizes list and keeps the candidates, preserving order.
// Duplicates are not removed here; New does that.
func Filter(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		w, err := Normalize(s)
		if err != nil || !IsCandidate(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// toSet converts a list of strings into a lookup set.
func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[w] = struct{}{}
	}
	return m
}
