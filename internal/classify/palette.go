package classify

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Palette groups recommended color tokens into three tiers.
type Palette struct {
	Primary   []string `json:"primary"`
	Secondary []string `json:"secondary"`
	Accent    []string `json:"accent"`
}

// Validate requires every tier to hold at least one token.
func (p Palette) Validate() error {
	if len(p.Primary) == 0 {
		return errors.New("palette primary tier empty")
	}
	if len(p.Secondary) == 0 {
		return errors.New("palette secondary tier empty")
	}
	if len(p.Accent) == 0 {
		return errors.New("palette accent tier empty")
	}
	return nil
}

// Value encodes the palette as JSON for storage.
func (p Palette) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan decodes a JSON palette read from storage.
func (p *Palette) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*p = Palette{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan palette: unsupported type %T", src)
	}
	return json.Unmarshal(data, p)
}

var palettes = map[Category]Palette{
	SpringWarm: {
		Primary:   []string{"#FFB6C1", "#FFA07A", "#F0E68C", "#98FB98"},
		Secondary: []string{"#FF6347", "#FFD700", "#ADFF2F", "#FF69B4"},
		Accent:    []string{"#FF4500", "#DAA520", "#32CD32"},
	},
	SummerCool: {
		Primary:   []string{"#E6E6FA", "#B0C4DE", "#F0F8FF", "#DDA0DD"},
		Secondary: []string{"#9370DB", "#87CEEB", "#98FB98", "#F0E68C"},
		Accent:    []string{"#6A5ACD", "#4682B4", "#00CED1"},
	},
	AutumnWarm: {
		Primary:   []string{"#D2691E", "#CD853F", "#B22222", "#8B4513"},
		Secondary: []string{"#A0522D", "#BC8F8F", "#F4A460", "#DEB887"},
		Accent:    []string{"#8B0000", "#FF6347", "#DAA520"},
	},
	WinterCool: {
		Primary:   []string{"#000080", "#800080", "#DC143C", "#008B8B"},
		Secondary: []string{"#4B0082", "#2F4F4F", "#8B008B", "#00008B"},
		Accent:    []string{"#FF1493", "#0000CD", "#8A2BE2"},
	},
	Neutral: {
		Primary:   []string{"#808080", "#A9A9A9", "#C0C0C0", "#D3D3D3"},
		Secondary: []string{"#696969", "#778899", "#B0C4DE", "#F5F5DC"},
		Accent:    []string{"#2F4F4F", "#708090", "#556B2F"},
	},
}

// PaletteFor returns a copy of the standard palette for c.
func PaletteFor(c Category) Palette {
	p := palettes[c]
	return Palette{
		Primary:   append([]string(nil), p.Primary...),
		Secondary: append([]string(nil), p.Secondary...),
		Accent:    append([]string(nil), p.Accent...),
	}
}
