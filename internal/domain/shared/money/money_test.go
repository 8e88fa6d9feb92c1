package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentBps(t *testing.T) {
	assert.Equal(t, IDR(100_000), IDR(1_000_000).PercentBps(1000))
	assert.Equal(t, IDR(1_000_000), IDR(1_000_000).PercentBps(10000))
	assert.Equal(t, IDR(0), IDR(1_000_000).PercentBps(0))
	assert.Equal(t, IDR(0), IDR(-500).PercentBps(1000))
	// Truncates toward zero.
	assert.Equal(t, IDR(33), IDR(333).PercentBps(1000))
}

func TestCapAt(t *testing.T) {
	assert.Equal(t, IDR(50), IDR(100).CapAt(50))
	assert.Equal(t, IDR(100), IDR(100).CapAt(200))
	assert.Equal(t, IDR(100), IDR(100).CapAt(0), "zero cap means uncapped")
}

func TestMinAndClamp(t *testing.T) {
	assert.Equal(t, IDR(3), IDR(3).Min(7))
	assert.Equal(t, IDR(3), IDR(7).Min(3))
	assert.Equal(t, IDR(0), IDR(-1).ClampNonNegative())
	assert.Equal(t, IDR(9), IDR(9).ClampNonNegative())
}

func TestString(t *testing.T) {
	assert.Equal(t, "Rp1500000", IDR(1_500_000).String())
}
