package stats

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		matrix ConfidenceMatrix
		want   Category
		value  float64
	}{
		{
			name:   "unique easy",
			matrix: ConfidenceMatrix{Easy: 0.7, Hard: 0.1, Tricky: 0.1, Peer: 0.1},
			want:   Easy,
			value:  0.7,
		},
		{
			name:   "unique peer",
			matrix: ConfidenceMatrix{Easy: 0.1, Hard: 0.2, Tricky: 0.3, Peer: 0.4},
			want:   Peer,
			value:  0.4,
		},
		{
			name:   "tie resolves to canonical order",
			matrix: ConfidenceMatrix{Hard: 0.5, Tricky: 0.5},
			want:   Hard,
			value:  0.5,
		},
		{
			name:   "four way tie",
			matrix: ConfidenceMatrix{Easy: 0.25, Hard: 0.25, Tricky: 0.25, Peer: 0.25},
			want:   Easy,
			value:  0.25,
		},
		{
			name:   "all zero",
			matrix: ConfidenceMatrix{},
			want:   "",
			value:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.matrix)
			if got.Category != tt.want {
				t.Errorf("Classify().Category = %q, want %q", got.Category, tt.want)
			}
			if got.Value != tt.value {
				t.Errorf("Classify().Value = %v, want %v", got.Value, tt.value)
			}
			if got.OK() != (tt.want != "") {
				t.Errorf("Classify().OK() = %v", got.OK())
			}
		})
	}
}

func TestClassifyUniqueMaximum(t *testing.T) {
	for _, c := range Categories {
		m := ConfidenceMatrix{Easy: 0.1, Hard: 0.1, Tricky: 0.1, Peer: 0.1}.With(c, 0.6)
		if got := Classify(m).Category; got != c {
			t.Errorf("Classify(max at %s) = %q", c, got)
		}
	}
}

func TestClassificationLabel(t *testing.T) {
	tests := []struct {
		c    Classification
		want string
	}{
		{Classification{Category: Easy}, "Easy"},
		{Classification{Category: Hard}, "Hard"},
		{Classification{Category: Tricky}, "Tricky"},
		{Classification{Category: Peer}, "Peer"},
		{Classification{}, ""},
	}
	for _, tt := range tests {
		if got := tt.c.Label(); got != tt.want {
			t.Errorf("Label() = %q, want %q", got, tt.want)
		}
	}
}
