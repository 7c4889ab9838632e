package catalog

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Slot is one cell of a level form.
type Slot byte

const (
	SlotRoom  Slot = 'R'
	SlotStart Slot = 'S'
	SlotEnd   Slot = 'E'
	SlotChest Slot = 'C'
	SlotEmpty Slot = '.'
)

// Form is a coarse grid of room slots. Rows are padded to equal length.
type Form struct {
	Key  string
	Rows [][]Slot
}

// Width returns the number of slots per row.
func (f *Form) Width() int {
	if len(f.Rows) == 0 {
		return 0
	}
	return len(f.Rows[0])
}

// String renders the form in its file notation.
func (f *Form) String() string {
	var b strings.Builder
	for i, row := range f.Rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, s := range row {
			b.WriteByte(byte(s))
		}
	}
	return b.String()
}

type formsFile struct {
	Forms []struct {
		Key  string   `yaml:"key"`
		Rows []string `yaml:"rows"`
	} `yaml:"forms"`
	Levels []struct {
		Level int      `yaml:"level"`
		Forms []string `yaml:"forms"`
	} `yaml:"levels"`
}

// ParseForm validates one form. Exactly one start and one end slot are
// required.
func ParseForm(key string, rows []string) (*Form, error) {
	if len(rows) == 0 {
		return nil, formErr(key, "no rows")
	}
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	f := &Form{Key: key}
	starts, ends := 0, 0
	for y, r := range rows {
		row := make([]Slot, width)
		for x := range row {
			row[x] = SlotEmpty
			if x >= len(r) {
				continue
			}
			s := Slot(r[x])
			switch s {
			case SlotStart:
				starts++
			case SlotEnd:
				ends++
			case SlotRoom, SlotChest, SlotEmpty:
			default:
				return nil, formErr(key, "unknown slot %q at %d,%d", r[x], x, y)
			}
			row[x] = s
		}
		f.Rows = append(f.Rows, row)
	}
	if starts != 1 || ends != 1 {
		return nil, formErr(key, "needs exactly one start and one end, has %d and %d", starts, ends)
	}
	return f, nil
}

func (c *Catalog) loadForms(data []byte) error {
	var ff formsFile
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return &ConfigurationError{Source: "forms", Reason: fmt.Sprintf("parse yaml: %v", err)}
	}
	for _, def := range ff.Forms {
		if _, dup := c.forms[def.Key]; dup {
			return formErr(def.Key, "duplicate key")
		}
		f, err := ParseForm(def.Key, def.Rows)
		if err != nil {
			return err
		}
		c.forms[def.Key] = f
		c.formKeys = append(c.formKeys, def.Key)
	}
	if len(c.formKeys) == 0 {
		return formErr("", "no forms defined")
	}

	for i, lv := range ff.Levels {
		if lv.Level != i+1 {
			return formErr("", "levels must be listed in order from 1, got %d at position %d", lv.Level, i)
		}
		if len(lv.Forms) == 0 {
			return formErr("", "level %d has an empty form pool", lv.Level)
		}
		for _, k := range lv.Forms {
			if _, ok := c.forms[k]; !ok {
				return formErr(k, "level %d references an undefined form", lv.Level)
			}
		}
		c.levels = append(c.levels, lv.Forms)
	}
	if len(c.levels) == 0 {
		c.levels = [][]string{c.formKeys}
	}
	return nil
}

// Form returns the form for key.
func (c *Catalog) Form(key string) (*Form, bool) {
	f, ok := c.forms[key]
	return f, ok
}

// FormKeys returns every form key in file order.
func (c *Catalog) FormKeys() []string {
	return c.formKeys
}

// FormsForLevel returns the form pool for a dungeon level. Levels below 1
// use the first pool; levels past the table reuse the last one.
func (c *Catalog) FormsForLevel(level int) []string {
	i := min(max(level-1, 0), len(c.levels)-1)
	return c.levels[i]
}
