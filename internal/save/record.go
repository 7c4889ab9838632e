// Package save holds the run record: the three seed streams plus the player
// and companion state needed to rebuild a session, in a line-oriented text
// format, and a sqlite store for named save slots.
package save

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedRecord is returned by Parse for text that is not a record.
var ErrMalformedRecord = errors.New("save: malformed record")

// Player is line 4 of a record.
type Player struct {
	X, Y    float64
	YOffset float64 // Y relative to the start marker
	Level   int
	Health  int
	Mana    int
	Money   int
}

// Companion is one trailing line of a record.
type Companion struct {
	X, Y   float64
	Health int
	Mana   int
	Name   string
}

// Record is everything needed to restore a run.
type Record struct {
	Generation []string // dungeon tokens in draw order
	Monsters   []string
	Loot       []string
	Player     Player
	Companions []Companion
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Marshal renders r in the record text format. Parse(Marshal(r)) returns
// a record equal to r.
func Marshal(r *Record) string {
	var b strings.Builder
	for _, stream := range [][]string{r.Generation, r.Monsters, r.Loot} {
		b.WriteString(strings.Join(stream, " "))
		b.WriteByte('\n')
	}
	p := r.Player
	fmt.Fprintf(&b, "%s %s %s %d %d %d %d %d\n",
		formatFloat(p.X), formatFloat(p.Y), formatFloat(p.YOffset),
		p.Level, p.Health, p.Mana, p.Money, len(r.Companions))
	for _, c := range r.Companions {
		fmt.Fprintf(&b, "%s %s %d %d %s\n", formatFloat(c.X), formatFloat(c.Y), c.Health, c.Mana, c.Name)
	}
	return b.String()
}

// Parse reads a record. Trailing blank lines are ignored.
func Parse(text string) (*Record, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for len(lines) > 4 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) < 4 {
		return nil, fmt.Errorf("%w: %d lines, want at least 4", ErrMalformedRecord, len(lines))
	}

	r := &Record{
		Generation: strings.Fields(lines[0]),
		Monsters:   strings.Fields(lines[1]),
		Loot:       strings.Fields(lines[2]),
	}
	count, err := parsePlayer(lines[3], &r.Player)
	if err != nil {
		return nil, err
	}
	if len(lines)-4 != count {
		return nil, fmt.Errorf("%w: %d companion lines, header says %d", ErrMalformedRecord, len(lines)-4, count)
	}
	for i, line := range lines[4:] {
		c, err := parseCompanion(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+5, err)
		}
		r.Companions = append(r.Companions, c)
	}
	return r, nil
}

func parsePlayer(line string, p *Player) (int, error) {
	f := strings.Fields(line)
	if len(f) != 8 {
		return 0, fmt.Errorf("%w: line 4 has %d fields, want 8", ErrMalformedRecord, len(f))
	}
	var (
		floats = []*float64{&p.X, &p.Y, &p.YOffset}
		ints   = []*int{&p.Level, &p.Health, &p.Mana, &p.Money}
		count  int
		err    error
	)
	for i, dst := range floats {
		if *dst, err = strconv.ParseFloat(f[i], 64); err != nil {
			return 0, fmt.Errorf("%w: line 4 field %d: %v", ErrMalformedRecord, i+1, err)
		}
	}
	for i, dst := range append(ints, &count) {
		if *dst, err = strconv.Atoi(f[3+i]); err != nil {
			return 0, fmt.Errorf("%w: line 4 field %d: %v", ErrMalformedRecord, 4+i, err)
		}
	}
	if count < 0 {
		return 0, fmt.Errorf("%w: negative companion count %d", ErrMalformedRecord, count)
	}
	return count, nil
}

// parseCompanion reads "x y health mana name". The name is the rest of the
// line and may contain spaces.
func parseCompanion(line string) (Companion, error) {
	f := strings.SplitN(strings.TrimSpace(line), " ", 5)
	if len(f) != 5 || f[4] == "" {
		return Companion{}, fmt.Errorf("%w: companion needs 5 fields", ErrMalformedRecord)
	}
	var (
		c   = Companion{Name: f[4]}
		err error
	)
	if c.X, err = strconv.ParseFloat(f[0], 64); err != nil {
		return Companion{}, fmt.Errorf("%w: companion x: %v", ErrMalformedRecord, err)
	}
	if c.Y, err = strconv.ParseFloat(f[1], 64); err != nil {
		return Companion{}, fmt.Errorf("%w: companion y: %v", ErrMalformedRecord, err)
	}
	if c.Health, err = strconv.Atoi(f[2]); err != nil {
		return Companion{}, fmt.Errorf("%w: companion health: %v", ErrMalformedRecord, err)
	}
	if c.Mana, err = strconv.Atoi(f[3]); err != nil {
		return Companion{}, fmt.Errorf("%w: companion mana: %v", ErrMalformedRecord, err)
	}
	return c, nil
}
