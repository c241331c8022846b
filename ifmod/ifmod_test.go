package ifmod

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/hacktv/hacktv/line"
	"github.com/hacktv/hacktv/mode"
)

func TestFMModulatesToUnitCircle(t *testing.T) {
	l := line.NewLine(100)
	l.Reset(1, 1, 100)
	for x := 0; x < 100; x++ {
		l.SetI(x, int16(x*300-15000))
	}
	f := NewFM(25000, 4e6, 0)
	f.Process(l)
	for x := 0; x < 100; x++ {
		i, q := float64(l.I(x)), float64(l.Q(x))
		mag := math.Hypot(i, q)
		if mag < int16Max*0.99 || mag > int16Max*1.01 {
			t.Fatalf("sample %d: magnitude %f not on unit circle", x, mag)
		}
	}
}

func TestAMModulatesAmplitude(t *testing.T) {
	l := line.NewLine(10)
	l.Reset(1, 1, 10)
	l.SetI(0, int16Max)
	a := NewAM(1000, 4e6)
	a.Process(l)
	mag := math.Hypot(float64(l.I(0)), float64(l.Q(0)))
	if mag < int16Max*0.9 {
		t.Fatalf("AM output magnitude too small: %f", mag)
	}
}

func TestAMZeroCarrierIsNoOp(t *testing.T) {
	l := line.NewLine(4)
	l.Reset(1, 1, 4)
	l.SetI(0, 1234)
	a := NewAM(0, 4e6)
	a.Process(l)
	if l.I(0) != 1234 {
		t.Fatalf("zero-carrier AM modified the line: got %d", l.I(0))
	}
}

func TestSwapIQ(t *testing.T) {
	l := line.NewLine(2)
	l.Reset(1, 1, 2)
	l.SetI(0, 100)
	l.SetQ(0, -50)
	SwapIQ(l)
	if l.I(0) != -50 || l.Q(0) != 100 {
		t.Fatalf("SwapIQ: got I=%d Q=%d, want I=-50 Q=100", l.I(0), l.Q(0))
	}
}

func TestFreqOffsetZeroIsNoOp(t *testing.T) {
	l := line.NewLine(4)
	l.Reset(1, 1, 4)
	l.SetI(0, 42)
	l.SetQ(0, -7)
	NewFreqOffset(0, 4e6).Process(l)
	if l.I(0) != 42 || l.Q(0) != -7 {
		t.Fatalf("zero-offset mixer modified the line")
	}
}

func TestFreqOffsetPreservesMagnitude(t *testing.T) {
	l := line.NewLine(8)
	l.Reset(1, 1, 8)
	l.SetI(0, 10000)
	l.SetQ(0, 0)
	before := math.Hypot(float64(l.I(0)), float64(l.Q(0)))
	NewFreqOffset(1000, 4e6).Process(l)
	after := math.Hypot(float64(l.I(0)), float64(l.Q(0)))
	if math.Abs(before-after) > 2 {
		t.Fatalf("frequency offset changed magnitude: %f -> %f", before, after)
	}
}

func TestPassthruAddsSamples(t *testing.T) {
	l := line.NewLine(2)
	l.Reset(1, 1, 2)
	l.SetI(0, 100)
	Passthru(l, []int16{50, 25, 10, 10})
	if l.I(0) != 150 || l.Q(0) != 25 {
		t.Fatalf("Passthru: got I=%d Q=%d, want I=150 Q=25", l.I(0), l.Q(0))
	}
}

// TestFMMagnitudeRMSWithinHalfDB checks that the FM modulator's output
// magnitude holds to the unit circle within 0.5 dB RMS across a full
// line, rather than just sampling a handful of points.
func TestFMMagnitudeRMSWithinHalfDB(t *testing.T) {
	const n = 200
	l := line.NewLine(n)
	l.Reset(1, 1, n)
	for x := 0; x < n; x++ {
		l.SetI(x, int16(math.Sin(float64(x)/7)*15000))
	}
	f := NewFM(25000, 4e6, 0)
	f.Process(l)

	mags := make([]float64, n)
	for x := 0; x < n; x++ {
		mags[x] = math.Hypot(float64(l.I(x)), float64(l.Q(x)))
	}
	rms := math.Sqrt(floats.Dot(mags, mags) / float64(n))
	dB := 20 * math.Log10(rms/int16Max)
	if math.Abs(dB) > 0.5 {
		t.Fatalf("RMS magnitude %.2f dB off unit circle, want within 0.5 dB", dB)
	}
}

func TestVSBShapesWithoutPanicking(t *testing.T) {
	l := line.NewLine(64)
	l.Reset(1, 1, 64)
	for x := 0; x < 64; x++ {
		l.SetI(x, int16(x*100))
	}
	v := NewVSB(mode.Modulation{Kind: mode.ModVSB, VSBUpperBW: 1.25e6, VSBLowerBW: 0.25e6}, 16e6)
	v.Process(l)
}
