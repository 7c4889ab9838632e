package catalog

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultCatalogLoads(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if c.SlotWidth != 13 || c.SlotHeight != 9 {
		t.Fatalf("slot = %dx%d, want 13x9", c.SlotWidth, c.SlotHeight)
	}
	for _, cat := range categories {
		if len(c.Pool(cat)) == 0 {
			t.Errorf("pool %q is empty", cat)
		}
	}
	for _, key := range c.Pool(CategoryDouble) {
		tpl, _ := c.Template(key)
		if tpl.Width() != 2*c.SlotWidth {
			t.Errorf("double %q width %d", key, tpl.Width())
		}
	}
	f := c.Filler()
	if f.Width() != c.SlotWidth || f.Height() != c.SlotHeight {
		t.Fatalf("filler is %dx%d", f.Width(), f.Height())
	}
	if strings.Trim(strings.Join(f.Rows, ""), " ") != "" {
		t.Fatal("filler should be all blank")
	}
	for _, k := range []string{"L1", "L2", "L3", "L4", "L5", "L6"} {
		if _, ok := c.Form(k); !ok {
			t.Errorf("form %s missing", k)
		}
	}
}

func TestFormsForLevelClamps(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	if got := c.FormsForLevel(0); got[0] != "L1" {
		t.Errorf("level 0 pool = %v", got)
	}
	last := c.FormsForLevel(5)
	if got := c.FormsForLevel(99); strings.Join(got, ",") != strings.Join(last, ",") {
		t.Errorf("level 99 pool = %v, want %v", got, last)
	}
}

const goodForms = `
forms:
  - key: A
    rows: ["SE"]
`

func roomsWith(extra string) []byte {
	base := `
slot: {width: 3, height: 3}
rooms:
  - {key: s, category: start, rows: ["404", "2S3", "617"]}
  - {key: e, category: end, rows: ["404", "2E3", "617"]}
  - {key: r, category: evil, rows: ["4t5", "l.r", "6b7"]}
  - {key: d, category: double, rows: ["400005", "2....3", "611117"]}
  - {key: c, category: covert, rows: ["FFF", "FCF", "FFF"]}
`
	return []byte(base + extra)
}

func TestLoadRejectsBadTemplates(t *testing.T) {
	tests := []struct {
		name  string
		extra string
		want  string
	}{
		{"short row", `  - {key: x, category: evil, rows: ["40", "2.3", "617"]}`, "row 0 has width 2"},
		{"wrong height", `  - {key: x, category: evil, rows: ["405", "617"]}`, "height 2"},
		{"unknown glyph", `  - {key: x, category: evil, rows: ["4#5", "2.3", "617"]}`, "unknown glyph"},
		{"duplicate key", `  - {key: r, category: evil, rows: ["405", "2.3", "617"]}`, "duplicate key"},
		{"unknown category", `  - {key: x, category: lair, rows: ["405", "2.3", "617"]}`, "unknown category"},
		{"reserved key", `  - {key: empty, category: evil, rows: ["405", "2.3", "617"]}`, "reserved"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(roomsWith(tt.extra), []byte(goodForms))
			var cerr *ConfigurationError
			if !errors.As(err, &cerr) {
				t.Fatalf("expected ConfigurationError, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadAcceptsMinimalCatalog(t *testing.T) {
	c, err := Load(roomsWith(""), []byte(goodForms))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := c.FormsForLevel(3); len(got) != 1 || got[0] != "A" {
		t.Fatalf("implicit level pool = %v", got)
	}
	if c.Fixed(CategoryStart).Key != "s" {
		t.Fatal("start template not fixed")
	}
}

func TestParseForm(t *testing.T) {
	tests := []struct {
		name    string
		rows    []string
		wantErr bool
	}{
		{"valid", []string{"SRR", "..E"}, false},
		{"ragged", []string{"SRRC", "R", "ER"}, false},
		{"no end", []string{"SRR"}, true},
		{"two starts", []string{"SRS", "E"}, true},
		{"bad slot", []string{"SXE"}, true},
		{"empty", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseForm("T", tt.rows)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseForm: %v", err)
			}
			for _, row := range f.Rows {
				if len(row) != f.Width() {
					t.Fatalf("form not padded: %q", f.String())
				}
			}
		})
	}
}

func TestRaggedFormPaddedWithEmpty(t *testing.T) {
	f, err := ParseForm("T", []string{"SRRC", "R", "ER"})
	if err != nil {
		t.Fatal(err)
	}
	if got := f.String(); got != "SRRC\nR...\nER.." {
		t.Fatalf("padded form = %q", got)
	}
}
