package utils

import "testing"

func TestPadFloat(t *testing.T) {
	tests := []struct {
		num   float64
		width int
		want  string
	}{
		{num: 7, width: 3, want: "007"},
		{num: 7.5, width: 3, want: "007.5"},
		{num: 123, width: 2, want: "123"},
		{num: 0, width: 3, want: "000"},
		{num: 12.25, width: 0, want: "12.25"},
	}

	for _, tt := range tests {
		if got := PadFloat(tt.num, tt.width); got != tt.want {
			t.Errorf("PadFloat(%v, %d) = %q, want %q", tt.num, tt.width, got, tt.want)
		}
	}
}
