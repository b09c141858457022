package game

import (
	"testing"
	"time"
)

var t0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestClock_Fixed(t *testing.T) {
	c := NewClock(StepFixed)
	for _, gap := range []time.Duration{0, time.Millisecond, time.Second, -time.Second} {
		if got := c.Next(t0.Add(gap)); !approx(got, 1.0/60, 1e-12) {
			t.Fatalf("fixed step after %s = %.6f, want 1/60", gap, got)
		}
	}
}

func TestClock_Measured(t *testing.T) {
	c := NewClock(StepMeasured)
	tests := []struct {
		name string
		at   time.Time
		want float64
	}{
		{"first step is nominal", t0, 1.0 / 60},
		{"measured gap", t0.Add(20 * time.Millisecond), 0.020},
		{"stall is clamped", t0.Add(5 * time.Second), 0.1},
		{"clock going backwards", t0.Add(4 * time.Second), 0},
		{"resumes", t0.Add(4*time.Second + 10*time.Millisecond), 0.010},
	}
	for _, tc := range tests {
		if got := c.Next(tc.at); !approx(got, tc.want, 1e-12) {
			t.Fatalf("%s: dt = %.6f, want %.6f", tc.name, got, tc.want)
		}
	}
}

func TestClock_Reset(t *testing.T) {
	c := NewClock(StepMeasured)
	c.Next(t0)
	c.Reset()
	if got := c.Next(t0.Add(time.Hour)); !approx(got, 1.0/60, 1e-12) {
		t.Fatalf("after reset dt = %.6f, want nominal", got)
	}
}

func TestClock_ZeroNominalFallsBack(t *testing.T) {
	c := &Clock{Mode: StepFixed}
	if got := c.Next(t0); !approx(got, DefaultNominalDelta.Seconds(), 1e-12) {
		t.Fatalf("dt = %.6f", got)
	}
}

func TestParseStepMode(t *testing.T) {
	tests := []struct {
		in      string
		want    StepMode
		wantErr bool
	}{
		{"fixed", StepFixed, false},
		{"", StepFixed, false},
		{"measured", StepMeasured, false},
		{"variable", StepFixed, true},
	}
	for _, tc := range tests {
		got, err := ParseStepMode(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseStepMode(%q) err = %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseStepMode(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
	if s := StepMode(3).String(); s != "StepMode(3)" {
		t.Fatalf("unknown mode string = %q", s)
	}
}

func TestChargeSession(t *testing.T) {
	var c ChargeSession
	if _, ok := c.Release(t0); ok {
		t.Fatal("release without press must not fire")
	}

	c.Press(t0)
	if !c.Active() {
		t.Fatal("charge should be active after press")
	}
	if got := c.Elapsed(t0.Add(500 * time.Millisecond)); got != 500*time.Millisecond {
		t.Fatalf("Elapsed = %s", got)
	}
	d, ok := c.Release(t0.Add(1500 * time.Millisecond))
	if !ok || d != 1500*time.Millisecond {
		t.Fatalf("Release = (%s, %v), want (1.5s, true)", d, ok)
	}
	if c.Active() || c.Elapsed(t0.Add(time.Hour)) != 0 {
		t.Fatal("charge should be idle after release")
	}
	if _, ok := c.Release(t0.Add(2 * time.Second)); ok {
		t.Fatal("a second release must not fire")
	}
}

func TestChargeSession_NegativeClampsToZero(t *testing.T) {
	var c ChargeSession
	c.Press(t0)
	if got := c.Elapsed(t0.Add(-time.Second)); got != 0 {
		t.Fatalf("Elapsed before press = %s, want 0", got)
	}
	d, ok := c.Release(t0.Add(-time.Second))
	if !ok || d != 0 {
		t.Fatalf("Release = (%s, %v), want (0, true)", d, ok)
	}
}

func TestChargeSession_RepressRestarts(t *testing.T) {
	var c ChargeSession
	c.Press(t0)
	c.Press(t0.Add(time.Second))
	d, _ := c.Release(t0.Add(1200 * time.Millisecond))
	if d != 200*time.Millisecond {
		t.Fatalf("charge = %s, want 200ms", d)
	}
	c.Press(t0)
	c.Reset()
	if c.Active() {
		t.Fatal("Reset should drop the charge")
	}
}
