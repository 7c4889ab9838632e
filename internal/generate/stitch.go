package generate

import (
	"fmt"

	"spellcrawl/internal/catalog"
	"spellcrawl/internal/gamemap"
	"spellcrawl/internal/seed"
)

// resolveSlots walks the form row-major and picks a template for every slot.
// An R whose right neighbour is also R draws once for promotion to a double
// room, which then fills both slots.
func (g *Generator) resolveSlots(form *catalog.Form, swap bool, seq *seed.Sequence) ([]PlacedRoom, error) {
	start, end := catalog.CategoryStart, catalog.CategoryEnd
	if swap {
		start, end = end, start
	}

	var rooms []PlacedRoom
	for fy, row := range form.Rows {
		x := 0
		y := fy * g.catalog.SlotHeight
		for fx := 0; fx < len(row); fx++ {
			var tpl *catalog.Template
			var err error
			switch row[fx] {
			case catalog.SlotRoom:
				if fx+1 < len(row) && row[fx+1] == catalog.SlotRoom {
					promote, err := seq.NextBoolean(g.chances.Double)
					if err != nil {
						return nil, fmt.Errorf("double room at slot %d,%d: %w", fx, fy, err)
					}
					if promote {
						tpl, err = g.draw(seq, catalog.CategoryDouble)
						if err != nil {
							return nil, fmt.Errorf("slot %d,%d: %w", fx, fy, err)
						}
						fx++
						break
					}
				}
				tpl, err = g.draw(seq, catalog.CategoryEvil)
			case catalog.SlotChest:
				tpl, err = g.draw(seq, catalog.CategoryCovert)
			case catalog.SlotStart:
				tpl = g.catalog.Fixed(start)
			case catalog.SlotEnd:
				tpl = g.catalog.Fixed(end)
			default:
				tpl = g.catalog.Filler()
			}
			if err != nil {
				return nil, fmt.Errorf("slot %d,%d: %w", fx, fy, err)
			}
			rooms = append(rooms, PlacedRoom{
				Key:      tpl.Key,
				Category: tpl.Category,
				X:        x,
				Y:        y,
				W:        tpl.Width(),
				H:        tpl.Height(),
			})
			x += tpl.Width()
		}
	}
	return rooms, nil
}

// draw picks a template key from a category pool. A replayed key is looked
// up in the whole catalog, so a key from another pool is accepted unless
// the sequence validates pools.
func (g *Generator) draw(seq *seed.Sequence, cat catalog.Category) (*catalog.Template, error) {
	key, err := seq.NextChoice(g.catalog.Pool(cat))
	if err != nil {
		return nil, fmt.Errorf("%s room: %w", cat, err)
	}
	tpl, ok := g.catalog.Template(key)
	if !ok {
		return nil, fmt.Errorf("%s room: %w: unknown template %q", cat, seed.ErrUnexpectedToken, key)
	}
	return tpl, nil
}

// stitch copies every placed template into one grid. Rows that come out
// shorter than the widest are padded with floor.
func (g *Generator) stitch(rooms []PlacedRoom) *gamemap.Grid {
	height := 0
	for _, r := range rooms {
		height = max(height, r.Y+r.H)
	}
	rows := make([][]byte, height)
	for _, r := range rooms {
		tpl, _ := g.catalog.Template(r.Key)
		for dy, line := range tpl.Rows {
			rows[r.Y+dy] = append(rows[r.Y+dy], line...)
		}
	}
	lines := make([]string, height)
	for i, b := range rows {
		lines[i] = string(b)
	}
	return gamemap.FromRows(lines)
}
