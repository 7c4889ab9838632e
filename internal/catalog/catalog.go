// Package catalog loads the room templates and level forms the dungeon
// generator stitches together.
package catalog

import (
	"fmt"
	"strings"

	"spellcrawl/assets"
	"spellcrawl/internal/gamemap"

	"gopkg.in/yaml.v3"
)

// Category names a disjoint pool of room templates.
type Category string

const (
	CategoryStart  Category = "start"
	CategoryEnd    Category = "end"
	CategoryEvil   Category = "evil"   // standard monster rooms
	CategoryDouble Category = "double" // two slots wide
	CategoryCovert Category = "covert" // secret rooms
	CategoryFiller Category = "filler" // empty slot, built at load
)

var categories = []Category{CategoryStart, CategoryEnd, CategoryEvil, CategoryDouble, CategoryCovert}

// FillerKey is the key of the generated blank room.
const FillerKey = "empty"

// Template is one immutable room layout.
type Template struct {
	Key      string
	Name     string
	Category Category
	Rows     []string
}

// Width returns the template width in tiles.
func (t *Template) Width() int { return len(t.Rows[0]) }

// Height returns the template height in tiles.
func (t *Template) Height() int { return len(t.Rows) }

// Catalog is the read-only registry of templates, forms and level pools.
type Catalog struct {
	SlotWidth, SlotHeight int

	templates map[string]*Template
	pools     map[Category][]string
	forms     map[string]*Form
	formKeys  []string
	levels    [][]string // index 0 is level 1
}

type roomsFile struct {
	Slot struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"slot"`
	Rooms []struct {
		Key      string   `yaml:"key"`
		Category string   `yaml:"category"`
		Name     string   `yaml:"name"`
		Rows     []string `yaml:"rows"`
	} `yaml:"rooms"`
}

// Default loads the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Load(assets.RoomsYAML, assets.FormsYAML)
}

// Load parses and validates room and form YAML. Any problem is returned as
// a *ConfigurationError.
func Load(roomsYAML, formsYAML []byte) (*Catalog, error) {
	var rf roomsFile
	if err := yaml.Unmarshal(roomsYAML, &rf); err != nil {
		return nil, &ConfigurationError{Source: "rooms", Reason: fmt.Sprintf("parse yaml: %v", err)}
	}
	if rf.Slot.Width <= 0 || rf.Slot.Height <= 0 {
		return nil, roomErr("", "slot size %dx%d must be positive", rf.Slot.Width, rf.Slot.Height)
	}

	c := &Catalog{
		SlotWidth:  rf.Slot.Width,
		SlotHeight: rf.Slot.Height,
		templates:  make(map[string]*Template),
		pools:      make(map[Category][]string),
		forms:      make(map[string]*Form),
	}
	for _, r := range rf.Rooms {
		t := &Template{Key: r.Key, Name: r.Name, Category: Category(r.Category), Rows: r.Rows}
		if err := c.addTemplate(t); err != nil {
			return nil, err
		}
	}
	for _, cat := range categories {
		if len(c.pools[cat]) == 0 {
			return nil, roomErr("", "category %q has no templates", cat)
		}
	}
	for _, cat := range []Category{CategoryStart, CategoryEnd} {
		if n := len(c.pools[cat]); n != 1 {
			return nil, roomErr("", "category %q must hold exactly one template, has %d", cat, n)
		}
	}

	blank := strings.Repeat(string(gamemap.GlyphBlank), c.SlotWidth)
	filler := &Template{Key: FillerKey, Name: "Empty", Category: CategoryFiller}
	for range c.SlotHeight {
		filler.Rows = append(filler.Rows, blank)
	}
	if _, dup := c.templates[FillerKey]; dup {
		return nil, roomErr(FillerKey, "key is reserved for the empty slot")
	}
	c.templates[FillerKey] = filler

	if err := c.loadForms(formsYAML); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) addTemplate(t *Template) error {
	if t.Key == "" {
		return roomErr("", "template with empty key")
	}
	if _, dup := c.templates[t.Key]; dup {
		return roomErr(t.Key, "duplicate key")
	}
	wantW := c.SlotWidth
	switch t.Category {
	case CategoryStart, CategoryEnd, CategoryEvil, CategoryCovert:
	case CategoryDouble:
		wantW = 2 * c.SlotWidth
	default:
		return roomErr(t.Key, "unknown category %q", t.Category)
	}
	if len(t.Rows) != c.SlotHeight {
		return roomErr(t.Key, "height %d, want %d", len(t.Rows), c.SlotHeight)
	}
	for y, row := range t.Rows {
		if len(row) != wantW {
			return roomErr(t.Key, "row %d has width %d, want %d", y, len(row), wantW)
		}
		for x := 0; x < len(row); x++ {
			if !gamemap.Glyph(row[x]).Valid() {
				return roomErr(t.Key, "unknown glyph %q at %d,%d", row[x], x, y)
			}
		}
	}
	if t.Category == CategoryStart && strings.Count(strings.Join(t.Rows, ""), string(gamemap.GlyphStart)) != 1 {
		return roomErr(t.Key, "start room needs exactly one %q marker", gamemap.GlyphStart)
	}
	if t.Category == CategoryEnd && strings.Count(strings.Join(t.Rows, ""), string(gamemap.GlyphEnd)) != 1 {
		return roomErr(t.Key, "end room needs exactly one %q marker", gamemap.GlyphEnd)
	}
	c.templates[t.Key] = t
	c.pools[t.Category] = append(c.pools[t.Category], t.Key)
	return nil
}

// Template returns the template for key.
func (c *Catalog) Template(key string) (*Template, bool) {
	t, ok := c.templates[key]
	return t, ok
}

// Pool returns the template keys of a category in file order.
func (c *Catalog) Pool(cat Category) []string {
	return c.pools[cat]
}

// Fixed returns the single template of the start or end category.
func (c *Catalog) Fixed(cat Category) *Template {
	return c.templates[c.pools[cat][0]]
}

// Filler returns the blank template used for empty slots.
func (c *Catalog) Filler() *Template {
	return c.templates[FillerKey]
}
