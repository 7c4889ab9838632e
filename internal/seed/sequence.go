// Package seed records and replays the random decisions made while a dungeon
// is generated. A Sequence in generate mode draws from a *rand.Rand and
// appends one token per decision; in replay mode it hands the recorded tokens
// back in order and never touches the random source.
package seed

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strings"
)

var (
	// ErrSequenceExhausted is returned when a replayed sequence has fewer
	// tokens than the generator needs. It indicates a corrupted save.
	ErrSequenceExhausted = errors.New("seed: sequence exhausted")

	// ErrMalformedToken is returned when a boolean draw replays a token that
	// is neither "0" nor "1".
	ErrMalformedToken = errors.New("seed: malformed token")

	// ErrUnexpectedToken is returned in strict mode when a replayed choice is
	// not a member of the offered pool.
	ErrUnexpectedToken = errors.New("seed: token not in pool")
)

// Boolean tokens.
const (
	TokenFalse = "0"
	TokenTrue  = "1"
)

// Sequence is an ordered, consumable list of decision tokens.
type Sequence struct {
	tokens []string
	cursor int
	rng    *rand.Rand // nil in replay mode
	strict bool
}

// Option configures a replaying Sequence.
type Option func(*Sequence)

// WithStrictPools makes NextChoice reject replayed tokens that are not in the
// pool offered by the caller.
func WithStrictPools() Option {
	return func(s *Sequence) { s.strict = true }
}

// New returns a Sequence in generate mode drawing from rng.
func New(rng *rand.Rand) *Sequence {
	return &Sequence{rng: rng}
}

// Replay returns a Sequence that consumes tokens left to right.
// The slice is copied.
func Replay(tokens []string, opts ...Option) *Sequence {
	s := &Sequence{tokens: slices.Clone(tokens)}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Parse builds a replaying Sequence from one space-separated line.
func Parse(line string, opts ...Option) *Sequence {
	return Replay(strings.Fields(line), opts...)
}

// Replaying reports whether the sequence consumes recorded tokens.
func (s *Sequence) Replaying() bool { return s.rng == nil }

// NextChoice returns one key of pool. In generate mode the key is drawn
// uniformly and recorded. In replay mode the next recorded token is returned;
// pool membership is only checked when the sequence is strict.
func (s *Sequence) NextChoice(pool []string) (string, error) {
	if s.Replaying() {
		tok, err := s.pop()
		if err != nil {
			return "", err
		}
		if s.strict && !slices.Contains(pool, tok) {
			return "", fmt.Errorf("%w: %q at position %d", ErrUnexpectedToken, tok, s.cursor-1)
		}
		return tok, nil
	}
	if len(pool) == 0 {
		panic("seed: NextChoice called with empty pool")
	}
	key := pool[s.rng.Intn(len(pool))]
	s.tokens = append(s.tokens, key)
	return key, nil
}

// NextBoolean returns true with chancePercent probability (0-100).
func (s *Sequence) NextBoolean(chancePercent int) (bool, error) {
	if s.Replaying() {
		tok, err := s.pop()
		if err != nil {
			return false, err
		}
		switch tok {
		case TokenTrue:
			return true, nil
		case TokenFalse:
			return false, nil
		default:
			return false, fmt.Errorf("%w: %q at position %d", ErrMalformedToken, tok, s.cursor-1)
		}
	}
	ok := s.rng.Intn(100) < chancePercent
	if ok {
		s.tokens = append(s.tokens, TokenTrue)
	} else {
		s.tokens = append(s.tokens, TokenFalse)
	}
	return ok, nil
}

func (s *Sequence) pop() (string, error) {
	if s.cursor >= len(s.tokens) {
		return "", fmt.Errorf("%w after %d tokens", ErrSequenceExhausted, len(s.tokens))
	}
	tok := s.tokens[s.cursor]
	s.cursor++
	return tok, nil
}

// Tokens returns a copy of every token recorded (or loaded for replay).
func (s *Sequence) Tokens() []string { return slices.Clone(s.tokens) }

// Len returns the number of tokens held.
func (s *Sequence) Len() int { return len(s.tokens) }

// Remaining returns how many replay tokens have not been consumed yet.
// It is always zero in generate mode.
func (s *Sequence) Remaining() int {
	if !s.Replaying() {
		return 0
	}
	return len(s.tokens) - s.cursor
}

// String joins the tokens with single spaces (line 1 of a save record).
func (s *Sequence) String() string { return strings.Join(s.tokens, " ") }
