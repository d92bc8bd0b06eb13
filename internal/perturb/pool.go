package perturb

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadPool reads a distractor sentence pool from a file, one sentence per
// line. Blank lines and lines starting with # are skipped; duplicates are
// dropped so pool sampling stays uniform over distinct sentences.
func LoadPool(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	defer func() { _ = file.Close() }()

	var pool []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		pool = append(pool, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read pool: %w", err)
	}

	if len(pool) == 0 {
		return nil, fmt.Errorf("pool file %s contains no sentences", path)
	}

	return pool, nil
}

// SavePool writes a distractor sentence pool to a file, one per line
func SavePool(sentences []string, path string) error {
	var sb strings.Builder
	for _, sentence := range sentences {
		sb.WriteString(sentence)
		sb.WriteString("\n")
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("write pool: %w", err)
	}
	return nil
}
