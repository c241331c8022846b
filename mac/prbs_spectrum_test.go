package mac

import (
	"math/cmplx"
	"testing"

	"gonum.org/v1/gonum/dsp/fourier"
)

// TestPRBSSpectrumIsWideband checks that the spectrum-shaping PRBS
// sequence spreads its energy across the band rather than concentrating
// it in a few tones, the property duobinary coding relies on to avoid a
// discrete carrier line in the transmitted spectrum.
func TestPRBSSpectrumIsWideband(t *testing.T) {
	const n = 1024
	p := NewPRBS()
	seq := make([]float64, n)
	for i := range seq {
		if p.Next() != 0 {
			seq[i] = 1
		} else {
			seq[i] = -1
		}
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, seq)

	var total float64
	power := make([]float64, len(coeffs))
	for i, c := range coeffs {
		power[i] = cmplx.Abs(c) * cmplx.Abs(c)
		total += power[i]
	}

	// The DC bin should be small relative to total power: a balanced
	// +-1 PRBS sequence carries almost no energy at zero frequency.
	if power[0] > 0.05*total {
		t.Errorf("DC bin carries %.1f%% of total power, want a wideband sequence", 100*power[0]/total)
	}

	// No single non-DC bin should dominate the spectrum; a real
	// spreading sequence distributes energy across many bins.
	var maxBin float64
	for _, p := range power[1:] {
		if p > maxBin {
			maxBin = p
		}
	}
	if maxBin > 0.2*total {
		t.Errorf("a single frequency bin carries %.1f%% of total power, want spread energy", 100*maxBin/total)
	}
}
