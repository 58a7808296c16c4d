package persona

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildUsesSuppliedPronoun(t *testing.T) {
	out := Default().Build("Pochi", "", "", "わたし")
	if !strings.Contains(out, "わたし") {
		t.Fatalf("prompt does not contain supplied pronoun: %s", out)
	}
	if strings.Contains(out, DefaultPronoun) {
		t.Fatalf("prompt leaks default pronoun alongside supplied one: %s", out)
	}
	if !strings.Contains(out, "Pochi") {
		t.Fatalf("prompt does not mention pet name: %s", out)
	}
}

func TestBuildDefaultPronoun(t *testing.T) {
	out := Default().Build("Tama", "", "", "")
	if !strings.Contains(out, DefaultPronoun) {
		t.Fatalf("expected default pronoun in: %s", out)
	}
}

func TestBuildOptionalSections(t *testing.T) {
	plain := Default().Build("Tama", "", "", "")
	if strings.Contains(plain, "性格・特徴") || strings.Contains(plain, "今日あったこと") {
		t.Fatalf("blank optional fields must not emit sections: %s", plain)
	}

	full := Default().Build("Tama", "とてもこわがり", "公園ではじめてボールをキャッチした", "")
	if !strings.Contains(full, "とてもこわがり") {
		t.Fatalf("characteristics missing: %s", full)
	}
	if !strings.Contains(full, "公園ではじめてボールをキャッチした") {
		t.Fatalf("memo missing: %s", full)
	}

	// whitespace-only values count as unset
	spaced := Default().Build("Tama", "   ", " \n ", "")
	if spaced != plain {
		t.Fatal("whitespace-only optional fields must behave as unset")
	}
}

func TestBuildIsPure(t *testing.T) {
	a := Default().Build("Pochi", "やんちゃ", "散歩", "おれ")
	b := Default().Build("Pochi", "やんちゃ", "散歩", "おれ")
	if a != b {
		t.Fatal("same inputs must yield identical instruction text")
	}
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "template.txt")
	if err := os.WriteFile(p, []byte("{{petName}}は{{pronoun}}と名乗る。"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := Load(p).Build("Hana", "", "", "うち")
	if out != "Hanaはうちと名乗る。" {
		t.Fatalf("unexpected build output: %s", out)
	}

	// missing file falls back to the embedded default
	out = Load(filepath.Join(dir, "nope.txt")).Build("Hana", "", "", "")
	if !strings.Contains(out, "Hana") || !strings.Contains(out, DefaultPronoun) {
		t.Fatalf("fallback template not applied: %s", out)
	}
}
