package perturb

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPoolSkipsBlanksAndComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.txt")
	content := "# harvested 2026-08-12\n" +
		"The first distractor sentence.\n" +
		"\n" +
		"The second distractor sentence.\n" +
		"The first distractor sentence.\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	pool, err := LoadPool(path)
	if err != nil {
		t.Fatalf("LoadPool failed: %v", err)
	}
	if len(pool) != 2 {
		t.Fatalf("Expected 2 sentences, got %d: %v", len(pool), pool)
	}
	if pool[0] != "The first distractor sentence." {
		t.Errorf("Unexpected first sentence: %q", pool[0])
	}
}

func TestLoadPoolEmptyFileIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("# only a comment\n\n"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := LoadPool(path); err == nil {
		t.Error("Expected error for empty pool, got nil")
	}
}

func TestLoadPoolMissingFile(t *testing.T) {
	if _, err := LoadPool(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}

func TestSavePoolRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.txt")
	sentences := []string{
		"Rivers in the region flood predictably every spring season.",
		"The observatory recorded an unusually bright meteor that night.",
	}

	if err := SavePool(sentences, path); err != nil {
		t.Fatalf("SavePool failed: %v", err)
	}

	loaded, err := LoadPool(path)
	if err != nil {
		t.Fatalf("LoadPool failed: %v", err)
	}
	if len(loaded) != len(sentences) {
		t.Fatalf("Expected %d sentences, got %d", len(sentences), len(loaded))
	}
	for i := range sentences {
		if loaded[i] != sentences[i] {
			t.Errorf("Sentence %d: expected %q, got %q", i, sentences[i], loaded[i])
		}
	}
}
