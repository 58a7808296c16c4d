// Package persona assembles the role-play instruction that makes the LLM
// narrate a diary entry in the pet's own voice.
package persona

import (
	"log"
	"os"
	"strings"
)

// DefaultPronoun is used when the owner did not pick a first-person word.
const DefaultPronoun = "ぼく"

// defaultTemplate is the built-in instruction. It is data, not code: an
// alternative template file can be supplied via PROMPT_TEMPLATE_PATH and
// must use the same {{petName}} / {{pronoun}} placeholders.
const defaultTemplate = `あなたは写真に写っているペット「{{petName}}」本人です。{{petName}}になりきって、今日一日のできごとを日記として一人称で書いてください。

必ず守ること:
- 一人称は必ず「{{pronoun}}」を使うこと。「{{pronoun}}」以外の一人称は絶対に使わないこと。
- 飼い主への気持ちが伝わる、明るく素直な文章にすること。
- 日記の長さは150〜300文字程度にすること。
- 犬なら「わんわん」、猫なら「にゃあ」、うさぎや小鳥ならそれらしい仕草というように、写真の動物に合った言い回しを自然に混ぜること。
`

const characteristicsSection = `
{{petName}}の性格・特徴:
{{characteristics}}
この性格から外れない日記にしてください。
`

const memoSection = `
今日あったこと:
{{memo}}
このできごとに日記の中で必ず触れてください。
`

// fallbackPetName keeps the instruction grammatical when no name was given.
const fallbackPetName = "ペット"

// Template is an immutable prompt template. Build is pure: the same inputs
// always produce the same instruction text.
type Template struct {
	base            string
	characteristics string
	memo            string
}

func Default() *Template {
	return &Template{
		base:            defaultTemplate,
		characteristics: characteristicsSection,
		memo:            memoSection,
	}
}

// Load reads an alternative base template from path. A missing or
// unreadable file is not fatal: the embedded default is used instead.
func Load(path string) *Template {
	t := Default()
	if path == "" {
		return t
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("⚠️ prompt template not readable at %s, using built-in default: %v", path, err)
		return t
	}
	t.base = string(data)
	return t
}

// Build assembles the persona instruction. characteristics and memo are
// optional; blank values (after trimming) omit their sections. An empty
// pronoun falls back to DefaultPronoun.
func (t *Template) Build(petName, characteristics, memo, pronoun string) string {
	petName = strings.TrimSpace(petName)
	if petName == "" {
		petName = fallbackPetName
	}
	pronoun = strings.TrimSpace(pronoun)
	if pronoun == "" {
		pronoun = DefaultPronoun
	}

	var b strings.Builder
	b.WriteString(substitute(t.base, petName, pronoun))

	if c := strings.TrimSpace(characteristics); c != "" {
		s := substitute(t.characteristics, petName, pronoun)
		b.WriteString(strings.ReplaceAll(s, "{{characteristics}}", c))
	}
	if m := strings.TrimSpace(memo); m != "" {
		s := substitute(t.memo, petName, pronoun)
		b.WriteString(strings.ReplaceAll(s, "{{memo}}", m))
	}
	return b.String()
}

func substitute(text, petName, pronoun string) string {
	text = strings.ReplaceAll(text, "{{petName}}", petName)
	return strings.ReplaceAll(text, "{{pronoun}}", pronoun)
}
