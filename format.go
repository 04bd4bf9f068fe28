package sheetcore

// Format is the visual format of a cell. Empty fields are unset, so the zero
// Format means "no format". Formats are comparable values.
type Format struct {
	BackgroundColor string
	ForegroundColor string
	FontWeight      string
	FontStyle       string
	TextAlign       string
	NumberFormat    string
	Icon            string
}

// IsEmpty reports whether no field is set.
func (f Format) IsEmpty() bool { return f == Format{} }

// Merge returns f overlaid with every field o sets.
func (f Format) Merge(o Format) Format {
	if o.BackgroundColor != "" {
		f.BackgroundColor = o.BackgroundColor
	}
	if o.ForegroundColor != "" {
		f.ForegroundColor = o.ForegroundColor
	}
	if o.FontWeight != "" {
		f.FontWeight = o.FontWeight
	}
	if o.FontStyle != "" {
		f.FontStyle = o.FontStyle
	}
	if o.TextAlign != "" {
		f.TextAlign = o.TextAlign
	}
	if o.NumberFormat != "" {
		f.NumberFormat = o.NumberFormat
	}
	if o.Icon != "" {
		f.Icon = o.Icon
	}
	return f
}
