package stats

// Classification is the dominant category of a matrix.
// The zero value means the matrix carried no signal.
type Classification struct {
	Category Category
	Value    float64
}

// OK reports whether a category was found.
func (c Classification) OK() bool { return c.Category != "" }

// Label returns the capitalized category name, or "" when !OK.
func (c Classification) Label() string { return c.Category.Label() }

// Classify returns the category with the strictly greatest weight.
//
// Categories are scanned in [Categories] order, so on an exact tie the
// earlier category wins. When the greatest weight is 0 the result is the
// zero Classification and callers must not display any rating.
func Classify(m ConfidenceMatrix) Classification {
	var best Classification
	for _, c := range Categories {
		if v := m.Value(c); v > best.Value {
			best = Classification{Category: c, Value: v}
		}
	}
	return best
}
