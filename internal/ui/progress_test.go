package ui

import "testing"

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name  string
		count int
	}{
		{name: "known count", count: 3},
		{name: "spinner", count: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewProgressBar(tt.count)
			bar.Update(1, 0, 1)
			bar.Update(1, 1, 2)
			bar.Finish()
		})
	}
}
