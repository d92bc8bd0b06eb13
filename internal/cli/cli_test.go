package cli

import "testing"

func TestDefaultPerturbOut(t *testing.T) {
	tests := []struct {
		input  string
		attack string
		want   string
	}{
		{"dev-v2.0.json", "addany", "dev-v2.0-addany.json"},
		{"data/train.json", "addsent", "data/train-addsent.json"},
		{"corpus", "addany", "corpus-addany"},
	}

	for _, tt := range tests {
		if got := defaultPerturbOut(tt.input, tt.attack); got != tt.want {
			t.Errorf("defaultPerturbOut(%q, %q) = %q, want %q", tt.input, tt.attack, got, tt.want)
		}
	}
}

func TestResolveAttackNamesFromFilenames(t *testing.T) {
	names, err := resolveAttackNames([]string{"a/dev-v2.0.json", "dev-v2.0-addany.json"}, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if names[0] != "dev-v2.0" || names[1] != "dev-v2.0-addany" {
		t.Errorf("Unexpected names: %v", names)
	}
}

func TestResolveAttackNamesOverride(t *testing.T) {
	names, err := resolveAttackNames([]string{"a.json", "b.json"}, "original, addany")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if names[0] != "original" || names[1] != "addany" {
		t.Errorf("Unexpected names: %v", names)
	}
}

func TestResolveAttackNamesCountMismatch(t *testing.T) {
	if _, err := resolveAttackNames([]string{"a.json", "b.json"}, "only-one"); err == nil {
		t.Error("Expected error for count mismatch, got nil")
	}
}

func TestResolveAttackNamesEmptyName(t *testing.T) {
	if _, err := resolveAttackNames([]string{"a.json", "b.json"}, "good,"); err == nil {
		t.Error("Expected error for empty name, got nil")
	}
}
