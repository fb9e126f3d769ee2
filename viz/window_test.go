package viz

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowKeepsLastTen(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 25} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			w := NewWindow(Capacity)
			for i := 1; i <= n; i++ {
				assert.True(t, w.Push(fmt.Sprintf("n%d", i), uint8(i)))
				assert.LessOrEqual(t, w.Len(), Capacity)
			}

			want := min(n, Capacity)
			got := w.Entries()
			assert.Len(t, got, want)

			// Last `want` events in emission order
			for i, e := range got {
				v := n - want + i + 1
				assert.Equal(t, fmt.Sprintf("n%d", v), e.Name)
				assert.Equal(t, uint8(v), e.Velocity)
			}
		})
	}
}

func TestWindowIgnoresZeroVelocity(t *testing.T) {
	w := NewWindow(0)
	assert.False(t, w.Push("C4", 0))
	assert.Equal(t, 0, w.Len())
	assert.Equal(t, Capacity, w.Cap())
}

func TestEntriesIsACopy(t *testing.T) {
	w := NewWindow(3)
	w.Push("C4", 60)

	got := w.Entries()
	got[0].Name = "X"
	assert.Equal(t, "C4", w.Entries()[0].Name)
}

func TestReset(t *testing.T) {
	w := NewWindow(3)
	w.Push("C4", 60)
	w.Push("D4", 70)
	w.Reset()
	assert.Equal(t, 0, w.Len())

	w.Push("E4", 80)
	assert.Equal(t, []Entry{{Name: "E4", Velocity: 80}}, w.Entries())
}
