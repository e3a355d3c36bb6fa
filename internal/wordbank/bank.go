// Package wordbank holds the tiered word and phrase lists the game draws
// prompts from.
//
// Lists come from JSON configuration: an embedded default bank, or a file
// supplied at startup. A Bank is read-only once built.
package wordbank

import (
	"crypto/rand"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/samber/lo"
)

//go:embed data/bank.json
var embeddedBank []byte

// ErrEmptyTier is returned when a tier has no usable entries.
var ErrEmptyTier = errors.New("wordbank: tier has no entries")

// Tier is a difficulty band selected by level.
type Tier int

const (
	Easy Tier = iota
	Medium
	Hard
)

// Level thresholds: up to EasyMaxLevel is easy, up to MediumMaxLevel is medium.
const (
	EasyMaxLevel   = 5
	MediumMaxLevel = 10
)

func (t Tier) String() string {
	switch t {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Mode selects between single words and full phrases.
type Mode int

const (
	Words Mode = iota
	Phrases
)

func (m Mode) String() string {
	if m == Phrases {
		return "phrases"
	}
	return "words"
}

// ModeFor maps the phrase-mode flag to a Mode.
func ModeFor(phraseMode bool) Mode {
	return lo.Ternary(phraseMode, Phrases, Words)
}

// TierFor returns the tier a level plays in.
func TierFor(level int) Tier {
	switch {
	case level <= EasyMaxLevel:
		return Easy
	case level <= MediumMaxLevel:
		return Medium
	default:
		return Hard
	}
}

// Source draws a uniform integer in [0, n). *math/rand/v2.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// cryptoSource draws from crypto/rand, matching how session words are picked
// elsewhere. It falls back to 0 if the entropy source fails.
type cryptoSource struct{}

func (cryptoSource) IntN(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// TierLists is the JSON shape of one mode's lists.
type TierLists struct {
	Easy   []string `json:"easy"`
	Medium []string `json:"medium"`
	Hard   []string `json:"hard"`
}

// Config is the JSON shape of a bank file.
type Config struct {
	Words   TierLists `json:"words"`
	Phrases TierLists `json:"phrases"`
}

// Bank is an immutable set of tiered lists plus a random source.
type Bank struct {
	lists [2][3][]string
	src   Source
}

// Option configures a Bank.
type Option func(*Bank)

// WithSource replaces the default crypto/rand source.
func WithSource(src Source) Option {
	return func(b *Bank) {
		if src != nil {
			b.src = src
		}
	}
}

// New builds a Bank from cfg. Entries are trimmed, blanks dropped and
// duplicates removed; every tier of both modes must keep at least one entry.
func New(cfg Config, opts ...Option) (*Bank, error) {
	b := &Bank{src: cryptoSource{}}
	for _, opt := range opts {
		opt(b)
	}

	for mode, tl := range map[Mode]TierLists{Words: cfg.Words, Phrases: cfg.Phrases} {
		for tier, raw := range map[Tier][]string{Easy: tl.Easy, Medium: tl.Medium, Hard: tl.Hard} {
			entries := normalize(raw)
			if len(entries) == 0 {
				return nil, fmt.Errorf("%w: %s/%s", ErrEmptyTier, mode, tier)
			}
			b.lists[mode][tier] = entries
		}
	}
	return b, nil
}

func normalize(raw []string) []string {
	trimmed := lo.Map(raw, func(s string, _ int) string {
		return strings.Join(strings.Fields(s), " ")
	})
	return lo.Uniq(lo.Compact(trimmed))
}

// Parse decodes a JSON bank and builds it.
func Parse(data []byte, opts ...Option) (*Bank, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode word bank: %w", err)
	}
	return New(cfg, opts...)
}

// LoadFile reads a JSON bank from path.
func LoadFile(path string, opts ...Option) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read word bank %s: %w", path, err)
	}
	return Parse(data, opts...)
}

// Default returns the embedded bank.
func Default(opts ...Option) (*Bank, error) {
	return Parse(embeddedBank, opts...)
}

// PromptForLevel returns a random entry from the tier matching level, taken
// from the phrase lists when phraseMode is set. Repeats are allowed.
func (b *Bank) PromptForLevel(level int, phraseMode bool) string {
	entries := b.lists[ModeFor(phraseMode)][TierFor(level)]
	return entries[b.src.IntN(len(entries))]
}

// Entries returns a copy of one tier's list.
func (b *Bank) Entries(mode Mode, tier Tier) []string {
	return append([]string(nil), b.lists[mode][tier]...)
}

// Contains reports whether s is an entry of the given tier.
func (b *Bank) Contains(mode Mode, tier Tier, s string) bool {
	return lo.Contains(b.lists[mode][tier], s)
}

// Size reports how many entries each mode holds across all tiers.
func (b *Bank) Size() map[string]int {
	return lo.SliceToMap([]Mode{Words, Phrases}, func(m Mode) (string, int) {
		return m.String(), lo.SumBy(b.lists[m][:], func(entries []string) int { return len(entries) })
	})
}
