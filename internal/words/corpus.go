// Package words manages the corpus: the fixed, ordered list of candidate words
// used for secret selection and ranking.
//
// A Corpus is built once at process start (from CORPUS_FILE or the embedded
// default list) and never mutated afterwards, so it is shared between
// goroutines without locking.
package words

import (
	"bufio"
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/robalobadob/closeword/assets"
)

// Corpus is an immutable, ordered, de-duplicated list of normalized words.
type Corpus struct {
	list  []string
	index map[string]int // word -> position in list
}

// New builds a corpus from list. Entries are normalized; entries that fail
// normalization are dropped, and only the first occurrence of a word is kept.
func New(list []string) *Corpus {
	c := &Corpus{
		list:  make([]string, 0, len(list)),
		index: make(map[string]int, len(list)),
	}
	for _, s := range list {
		w, err := Normalize(s)
		if err != nil {
			continue
		}
		if _, dup := c.index[w]; dup {
			continue
		}
		c.index[w] = len(c.list)
		c.list = append(c.list, w)
	}
	return c
}

// Load reads one word per line from path. Blank lines and lines starting
// with '#' are skipped.
func Load(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var list []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		list = append(list, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return New(list), nil
}

// Default returns the corpus embedded in the binary.
func Default() (*Corpus, error) {
	list, err := assets.WordList()
	if err != nil {
		return nil, fmt.Errorf("embedded corpus: %w", err)
	}
	return New(list), nil
}

// Len returns the number of words.
func (c *Corpus) Len() int { return len(c.list) }

// Word returns the word at position i.
func (c *Corpus) Word(i int) string { return c.list[i] }

// Words returns a copy of the word list.
func (c *Corpus) Words() []string {
	return append([]string(nil), c.list...)
}

// Index returns the insertion position of w (normalized), or -1.
func (c *Corpus) Index(w string) int {
	n, err := Normalize(w)
	if err != nil {
		return -1
	}
	if i, ok := c.index[n]; ok {
		return i
	}
	return -1
}

// Contains reports whether w (normalized) is a corpus member.
func (c *Corpus) Contains(w string) bool { return c.Index(w) >= 0 }

// Random returns a cryptographically random corpus word.
func (c *Corpus) Random() (string, error) {
	if len(c.list) == 0 {
		return "", ErrCorpusExhausted
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(c.list))))
	if err != nil {
		return "", err
	}
	return c.list[n.Int64()], nil
}
