package money

import "fmt"

// IDR is a rupiah amount kept as a whole integer to avoid floating point issues.
type IDR int64

// BpsDenominator is the basis-point scale: 10000 bps = 100%.
const BpsDenominator = 10000

// PercentBps returns bps/10000 of the amount, truncated toward zero.
func (a IDR) PercentBps(bps int64) IDR {
	if a <= 0 || bps <= 0 {
		return 0
	}
	return IDR(int64(a) * bps / BpsDenominator)
}

// Min returns the smaller of the two amounts.
func (a IDR) Min(b IDR) IDR {
	if b < a {
		return b
	}
	return a
}

// ClampNonNegative floors the amount at zero.
func (a IDR) ClampNonNegative() IDR {
	if a < 0 {
		return 0
	}
	return a
}

// CapAt limits the amount to cap when cap is positive; zero cap means no cap.
func (a IDR) CapAt(cap IDR) IDR {
	if cap > 0 && a > cap {
		return cap
	}
	return a
}

func (a IDR) String() string {
	return fmt.Sprintf("Rp%d", int64(a))
}
