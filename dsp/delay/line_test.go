package delay

import (
	"errors"
	"testing"
)

// --- construction and validation ---

func TestNewValidation(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := New(size); !errors.Is(err, ErrInvalidCapacity) {
			t.Fatalf("New(%d): err = %v, want ErrInvalidCapacity", size, err)
		}
	}
}

func TestNewZeroFilled(t *testing.T) {
	d, err := New(16)
	if err != nil {
		t.Fatal(err)
	}

	if d.Len() != 16 {
		t.Fatalf("Len: got %d want 16", d.Len())
	}
	if d.WritePos() != 0 {
		t.Fatalf("WritePos: got %d want 0", d.WritePos())
	}

	for i := 0; i < 20; i++ {
		if got := d.Read(i); got != 0 {
			t.Fatalf("Read(%d) = %v on fresh line, want 0", i, got)
		}
	}
}

// --- Read/Write ---

func TestReadWrite(t *testing.T) {
	d, err := New(8)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 8; i++ {
		d.Write(float64(i))
	}
	// delay=1 => most recently written (7)
	if got := d.Read(1); got != 7 {
		t.Fatalf("got %v want 7", got)
	}
	// delay=3 => 3 samples back from write head
	if got := d.Read(3); got != 5 {
		t.Fatalf("got %v want 5", got)
	}
}

func TestRoundTrip(t *testing.T) {
	const capacity = 32

	for n := 1; n < capacity; n++ {
		d, err := New(capacity)
		if err != nil {
			t.Fatal(err)
		}

		for i := 0; i < n; i++ {
			d.Write(float64(i + 1))
		}

		for k := 1; k <= n; k++ {
			want := float64(n - k + 1)
			if got := d.Read(k); got != want {
				t.Fatalf("n=%d Read(%d) = %v, want %v", n, k, got, want)
			}
		}
	}
}

func TestReadWraparound(t *testing.T) {
	d, err := New(4)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		d.Write(float64(i))
	}
	// buffer should contain [8, 9, 6, 7], writePos=2
	if d.WritePos() != 2 {
		t.Fatalf("WritePos = %d, want 2", d.WritePos())
	}
	if got := d.Read(1); got != 9 {
		t.Fatalf("got %v want 9", got)
	}
	if got := d.Read(3); got != 7 {
		t.Fatalf("got %v want 7", got)
	}
}

func TestReadSaturates(t *testing.T) {
	d, err := New(5)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 7; i++ {
		d.Write(float64(i * 10))
	}

	want := d.Read(d.Len() - 1)
	for _, offset := range []int{5, 6, 100, 1 << 30} {
		if got := d.Read(offset); got != want {
			t.Fatalf("Read(%d) = %v, want Read(%d) = %v", offset, got, d.Len()-1, want)
		}
	}
}

func TestReadNegativeOffsetClamped(t *testing.T) {
	d, err := New(4)
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= 6; i++ {
		d.Write(float64(i))
	}

	if got, want := d.Read(-3), d.Read(0); got != want {
		t.Fatalf("Read(-3) = %v, want %v", got, want)
	}
}

func TestReadDoesNotMutate(t *testing.T) {
	d, err := New(4)
	if err != nil {
		t.Fatal(err)
	}

	d.Write(1)
	d.Write(2)
	pos := d.WritePos()

	for i := 0; i < 3; i++ {
		_ = d.Read(1)
	}

	if d.WritePos() != pos {
		t.Fatalf("WritePos moved after Read: %d -> %d", pos, d.WritePos())
	}
	if got := d.Read(1); got != 2 {
		t.Fatalf("Read(1) = %v, want 2", got)
	}
}

func TestZeroValueLineReadsZero(t *testing.T) {
	var d Line
	if got := d.Read(3); got != 0 {
		t.Fatalf("Read on zero Line = %v, want 0", got)
	}
}

// --- Reset / Clear ---

func TestReset(t *testing.T) {
	d, err := New(4)
	if err != nil {
		t.Fatal(err)
	}

	d.Write(1)
	d.Write(2)

	if err := d.Reset(6, 3); err != nil {
		t.Fatal(err)
	}

	if d.Len() != 6 {
		t.Fatalf("Len after Reset = %d, want 6", d.Len())
	}
	if d.WritePos() != 3 {
		t.Fatalf("WritePos after Reset = %d, want 3", d.WritePos())
	}

	for i := 0; i < 6; i++ {
		if got := d.Read(i); got != 0 {
			t.Fatalf("after reset Read(%d): got %v want 0", i, got)
		}
	}
}

func TestResetShrinkReusesStorage(t *testing.T) {
	d, err := New(8)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 8; i++ {
		d.Write(float64(i + 1))
	}

	if err := d.Reset(3, 0); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if got := d.Read(i); got != 0 {
			t.Fatalf("stale sample at Read(%d): %v", i, got)
		}
	}
}

func TestResetValidation(t *testing.T) {
	d, err := New(4)
	if err != nil {
		t.Fatal(err)
	}

	if err := d.Reset(0, 0); !errors.Is(err, ErrInvalidCapacity) {
		t.Fatalf("Reset(0, 0): err = %v, want ErrInvalidCapacity", err)
	}
	if err := d.Reset(4, 4); !errors.Is(err, ErrInvalidWritePos) {
		t.Fatalf("Reset(4, 4): err = %v, want ErrInvalidWritePos", err)
	}
	if err := d.Reset(4, -1); !errors.Is(err, ErrInvalidWritePos) {
		t.Fatalf("Reset(4, -1): err = %v, want ErrInvalidWritePos", err)
	}
	if d.Len() != 4 {
		t.Fatalf("failed Reset changed Len to %d", d.Len())
	}
}

func TestClear(t *testing.T) {
	d, err := New(4)
	if err != nil {
		t.Fatal(err)
	}

	d.Write(1)
	d.Write(2)
	d.Clear()

	if d.WritePos() != 0 {
		t.Fatalf("WritePos after Clear = %d, want 0", d.WritePos())
	}
	for i := 0; i < 4; i++ {
		if got := d.Read(i); got != 0 {
			t.Fatalf("after Clear Read(%d): got %v want 0", i, got)
		}
	}
}

// --- allocation ---

func TestReadWriteAllocs(t *testing.T) {
	d, err := New(1024)
	if err != nil {
		t.Fatal(err)
	}

	allocs := testing.AllocsPerRun(100, func() {
		v := d.Read(100)
		d.Write(v*0.5 + 1)
	})
	if allocs != 0 {
		t.Fatalf("Read/Write allocated %v times per run", allocs)
	}
}

// --- benchmarks ---

func BenchmarkReadWrite(b *testing.B) {
	d, _ := New(96000)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		v := d.Read(48000)
		d.Write(v*0.5 + 1)
	}
}
