package words

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Apple", "apple", false},
		{"  BANANA \n", "banana", false},
		{"", "", true},
		{"   ", "", true},
		{"ice cream", "", true},
		{"tab\tword", "", true},
	}
	for _, tt := range tests {
		got, err := Normalize(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Normalize(%q) err = %v, want ErrInvalidInput", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("Normalize(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestNewDeduplicatesAndKeepsOrder(t *testing.T) {
	c := New([]string{"Apple", "banana", " apple ", "", "fruit", "BANANA", "car"})
	want := []string{"apple", "banana", "fruit", "car"}
	got := c.Words()
	if len(got) != len(want) {
		t.Fatalf("Words() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Words()[%d] = %q, want %q", i, got[i], want[i])
		}
		if c.Index(want[i]) != i {
			t.Fatalf("Index(%q) = %d, want %d", want[i], c.Index(want[i]), i)
		}
	}
	if !c.Contains("FRUIT") {
		t.Fatalf("Contains should normalize its argument")
	}
	if c.Contains("pear") || c.Index("") != -1 {
		t.Fatalf("unexpected membership")
	}
}

func TestWordsReturnsCopy(t *testing.T) {
	c := New([]string{"apple", "banana"})
	w := c.Words()
	w[0] = "mutated"
	if c.Word(0) != "apple" {
		t.Fatalf("corpus mutated through Words() copy")
	}
}

func TestRandom(t *testing.T) {
	if _, err := New(nil).Random(); !errors.Is(err, ErrCorpusExhausted) {
		t.Fatalf("Random on empty corpus: err = %v, want ErrCorpusExhausted", err)
	}
	c := New([]string{"apple", "banana", "car"})
	for i := 0; i < 20; i++ {
		w, err := c.Random()
		if err != nil || !c.Contains(w) {
			t.Fatalf("Random() = %q, %v", w, err)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	content := "# comment\napple\n\nBanana\napple\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 2 || c.Word(1) != "banana" {
		t.Fatalf("Load = %v", c.Words())
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestDefault(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if c.Len() < 100 {
		t.Fatalf("embedded corpus too small: %d", c.Len())
	}
	for _, w := range c.Words() {
		if !IsCandidate(w) {
			t.Errorf("embedded corpus word %q is not a candidate", w)
		}
	}
}

func TestFilter(t *testing.T) {
	got := Filter([]string{"The", "Apple", "it's", "ox", "naïve", "river", "because"})
	want := []string{"apple", "river", "because"}
	if len(got) != len(want) {
		t.Fatalf("Filter = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Filter = %v, want %v", got, want)
		}
	}
}
