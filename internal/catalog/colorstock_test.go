package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddColorStock(t *testing.T) {
	tests := []struct {
		name  string
		in    map[string]int
		color string
		delta int
		want  int
	}{
		{"increment existing", map[string]int{"red": 2, "blue": 3}, "red", 2, 4},
		{"decrement existing", map[string]int{"red": 4}, "red", -2, 2},
		{"missing entry counts as zero", map[string]int{"blue": 3}, "red", 2, 2},
		{"floors at zero", map[string]int{"red": 1}, "red", -5, 0},
		{"decrement on missing entry floors", map[string]int{}, "red", -3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddColorStock(tt.in, tt.color, tt.delta)
			assert.Equal(t, tt.want, got[tt.color])
		})
	}
}

func TestAddColorStockCopies(t *testing.T) {
	orig := map[string]int{"red": 2}
	out := AddColorStock(orig, "red", 3)
	assert.Equal(t, 2, orig["red"])
	assert.Equal(t, 5, out["red"])
}

func TestSumColorStock(t *testing.T) {
	assert.Equal(t, 0, SumColorStock(nil))
	assert.Equal(t, 5, SumColorStock(map[string]int{"red": 2, "blue": 3}))
}
