package xlsx

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/javajack/sheetcore"
)

func formatFromStyle(st *excelize.Style) sheetcore.Format {
	var f sheetcore.Format
	if st == nil {
		return f
	}
	if st.Font != nil {
		if st.Font.Bold {
			f.FontWeight = "bold"
		}
		if st.Font.Italic {
			f.FontStyle = "italic"
		}
		f.ForegroundColor = normalizeColor(st.Font.Color)
	}
	if st.Fill.Type == "pattern" && st.Fill.Pattern == 1 && len(st.Fill.Color) > 0 {
		f.BackgroundColor = normalizeColor(st.Fill.Color[0])
	}
	if st.Alignment != nil {
		f.TextAlign = st.Alignment.Horizontal
	}
	if st.CustomNumFmt != nil {
		f.NumberFormat = *st.CustomNumFmt
	}
	return f
}

func styleFromFormat(f sheetcore.Format) *excelize.Style {
	st := &excelize.Style{}
	bold, italic := f.FontWeight == "bold", f.FontStyle == "italic"
	fg, fgOK := excelColor(f.ForegroundColor)
	if bold || italic || fgOK {
		st.Font = &excelize.Font{Bold: bold, Italic: italic, Color: fg}
	}
	if bg, ok := excelColor(f.BackgroundColor); ok {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{bg}}
	}
	if f.TextAlign != "" {
		st.Alignment = &excelize.Alignment{Horizontal: f.TextAlign}
	}
	if f.NumberFormat != "" {
		code := f.NumberFormat
		st.CustomNumFmt = &code
	}
	return st
}

// normalizeColor turns an excelize colour (RRGGBB or AARRGGBB, with or
// without '#') into lowercase #rrggbb.
func normalizeColor(c string) string {
	c = strings.TrimPrefix(c, "#")
	if len(c) == 8 {
		c = c[2:]
	}
	if len(c) != 6 || !isHex(c) {
		return ""
	}
	return "#" + strings.ToLower(c)
}

// excelColor accepts only #rrggbb; named colours have no xlsx form.
func excelColor(c string) (string, bool) {
	if len(c) != 7 || c[0] != '#' || !isHex(c[1:]) {
		return "", false
	}
	return strings.ToUpper(c), true
}

func isHex(s string) bool {
	for i := range len(s) {
		switch b := s[i]; {
		case b >= '0' && b <= '9', b >= 'a' && b <= 'f', b >= 'A' && b <= 'F':
		default:
			return false
		}
	}
	return true
}
