package inset

import (
	"bytes"
	"errors"
	"image"
	"log/slog"
	"math/rand"
	"strings"
	"testing"

	"git.sr.ht/~gioverse/patchkit"
	"git.sr.ht/~gioverse/patchkit/ninepatch"
)

// bitmap records whether it has been released.
type bitmap struct {
	image.Rectangle
	released bool
}

func (b *bitmap) Release() { b.released = true }

func newBitmap(w, h int) *bitmap {
	return &bitmap{Rectangle: image.Rect(0, 0, w, h)}
}

func attached(t *testing.T, w, h int, scale ninepatch.Scale) *Model {
	t.Helper()
	m := New()
	if err := m.Attach(newBitmap(w, h), scale); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestSetInsets(t *testing.T) {
	for _, tt := range []struct {
		Label      string
		Patch      Patch
		Horizontal Edge
		Vertical   Edge
		Want       ninepatch.Insets
	}{
		{
			Label:      "right gives way",
			Patch:      Patch{Left: Value(6), Right: Value(6)},
			Horizontal: Right,
			Vertical:   Bottom,
			Want:       ninepatch.Insets{Left: 6, Right: 3},
		},
		{
			Label:      "left gives way",
			Patch:      Patch{Left: Value(6), Right: Value(6)},
			Horizontal: Left,
			Vertical:   Bottom,
			Want:       ninepatch.Insets{Left: 3, Right: 6},
		},
		{
			Label:      "bottom gives way",
			Patch:      Patch{Top: Value(5), Bottom: Value(4)},
			Horizontal: Right,
			Vertical:   Bottom,
			Want:       ninepatch.Insets{Top: 5, Bottom: 2},
		},
		{
			Label:      "top gives way",
			Patch:      Patch{Top: Value(5), Bottom: Value(4)},
			Horizontal: Right,
			Vertical:   Top,
			Want:       ninepatch.Insets{Top: 3, Bottom: 4},
		},
		{
			Label:      "values clamp to the dimension",
			Patch:      Patch{Left: Value(-3), Right: Value(40), Top: Value(8)},
			Horizontal: Right,
			Vertical:   Bottom,
			Want:       ninepatch.Insets{Left: 0, Right: 9, Top: 7},
		},
		{
			Label:      "both pushed to the limit",
			Patch:      PatchOf(ninepatch.Insets{Left: 9, Right: 9, Top: 7, Bottom: 7}),
			Horizontal: Right,
			Vertical:   Bottom,
			Want:       ninepatch.Insets{Left: 9, Right: 0, Top: 7, Bottom: 0},
		},
	} {
		t.Run(tt.Label, func(t *testing.T) {
			m := attached(t, 10, 8, 1)
			if err := m.SetInsets(tt.Patch, tt.Horizontal, tt.Vertical); err != nil {
				t.Fatal(err)
			}
			if got := m.State().Insets; got != tt.Want {
				t.Fatalf("got %+v, want %+v", got, tt.Want)
			}
		})
	}
}

func TestSetInsetsMerges(t *testing.T) {
	m := attached(t, 20, 20, 1)
	if err := m.SetInsets(PatchOf(ninepatch.Insets{Left: 2, Right: 3, Top: 4, Bottom: 5}), Right, Bottom); err != nil {
		t.Fatal(err)
	}
	if err := m.SetInsets(Patch{Top: Value(1)}, Right, Bottom); err != nil {
		t.Fatal(err)
	}
	if got, want := m.State().Insets, (ninepatch.Insets{Left: 2, Right: 3, Top: 1, Bottom: 5}); got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestSetInsetsErrors(t *testing.T) {
	m := New()
	if err := m.SetInsets(Patch{Left: Value(1)}, Right, Bottom); !errors.Is(err, ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}
	m = attached(t, 10, 10, 1)
	if err := m.SetInsets(Patch{Left: Value(1)}, Top, Bottom); !errors.Is(err, ErrPriority) {
		t.Fatalf("expected ErrPriority, got %v", err)
	}
	if err := m.SetInsets(Patch{Left: Value(1)}, Left, Right); !errors.Is(err, ErrPriority) {
		t.Fatalf("expected ErrPriority, got %v", err)
	}
	if got := m.State().Insets; got != (ninepatch.Insets{}) {
		t.Fatalf("failed update mutated the model: %+v", got)
	}
}

func TestAttach(t *testing.T) {
	m := New()
	first := newBitmap(30, 31)
	if err := m.Attach(first, 3); err != nil {
		t.Fatal(err)
	}
	st := m.State()
	if st.Natural != image.Pt(30, 31) || st.Canvas != image.Pt(10, 10) {
		t.Fatalf("got natural %v canvas %v", st.Natural, st.Canvas)
	}
	if err := m.SetInsets(PatchOf(ninepatch.Insets{Left: 8, Right: 1, Top: 2, Bottom: 2}), Right, Bottom); err != nil {
		t.Fatal(err)
	}

	// Re-attaching the same bitmap must not free it.
	if err := m.Attach(first, 3); err != nil {
		t.Fatal(err)
	}
	if first.released {
		t.Fatalf("re-attached bitmap was released")
	}

	second := newBitmap(6, 40)
	if err := m.Attach(second, 1); err != nil {
		t.Fatal(err)
	}
	if !first.released {
		t.Fatalf("previous bitmap was not released")
	}
	if m.Source() != Bitmap(second) {
		t.Fatalf("source not replaced")
	}
	if got, want := m.State().Insets, (ninepatch.Insets{Left: 5, Right: 0, Top: 2, Bottom: 2}); got != want {
		t.Fatalf("insets not re-clamped: got %+v, want %+v", got, want)
	}

	m.Release()
	if !second.released || m.Source() != nil {
		t.Fatalf("release did not free the source")
	}
}

func TestAttachErrors(t *testing.T) {
	m := attached(t, 10, 10, 1)
	before := m.State()
	if err := m.Attach(newBitmap(4, 4), 5); !errors.Is(err, ninepatch.ErrInvalidScale) {
		t.Fatalf("expected ErrInvalidScale, got %v", err)
	}
	if err := m.Attach(newBitmap(0, 4), 1); !errors.Is(err, ninepatch.ErrInvalidDimensions) {
		t.Fatalf("expected ErrInvalidDimensions, got %v", err)
	}
	if err := m.Attach(nil, 1); !errors.Is(err, ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}
	if m.State() != before {
		t.Fatalf("failed attach mutated the model")
	}
}

func TestSetScale(t *testing.T) {
	m := attached(t, 30, 30, 1)
	if err := m.SetInsets(PatchOf(ninepatch.Insets{Left: 12, Right: 12, Top: 3, Bottom: 3}), Right, Bottom); err != nil {
		t.Fatal(err)
	}
	if err := m.SetScale(3); err != nil {
		t.Fatal(err)
	}
	st := m.State()
	if st.Canvas != image.Pt(10, 10) || st.Natural != image.Pt(30, 30) {
		t.Fatalf("got canvas %v natural %v", st.Canvas, st.Natural)
	}
	if want := (ninepatch.Insets{Left: 9, Right: 0, Top: 3, Bottom: 3}); st.Insets != want {
		t.Fatalf("got %+v, want %+v", st.Insets, want)
	}
	if err := m.SetScale(0); !errors.Is(err, ninepatch.ErrInvalidScale) {
		t.Fatalf("expected ErrInvalidScale, got %v", err)
	}
}

func TestSetModeIdempotent(t *testing.T) {
	m := attached(t, 12, 12, 2)
	if err := m.SetMode(ninepatch.ThreePartHorizontal, ninepatch.Tile); err != nil {
		t.Fatal(err)
	}
	once := m.State()
	if err := m.SetMode(ninepatch.ThreePartHorizontal, ninepatch.Tile); err != nil {
		t.Fatal(err)
	}
	if m.State() != once {
		t.Fatalf("second SetMode changed the state")
	}
	if err := m.SetMode("4-part", ninepatch.Tile); !errors.Is(err, ninepatch.ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
	if m.State() != once {
		t.Fatalf("failed SetMode changed the state")
	}
}

func TestNearestEdge(t *testing.T) {
	m := attached(t, 100, 50, 1)
	if err := m.SetInsets(PatchOf(ninepatch.Insets{Left: 10, Right: 20, Top: 5, Bottom: 15}), Right, Bottom); err != nil {
		t.Fatal(err)
	}
	for _, tt := range []struct {
		Label string
		X, Y  float64
		Want  Edge
	}{
		{Label: "near left", X: 12, Y: 25, Want: Left},
		{Label: "near right", X: 79, Y: 25, Want: Right},
		{Label: "near top", X: 50, Y: 6, Want: Top},
		{Label: "near bottom", X: 50, Y: 34, Want: Bottom},
		{Label: "tie goes to left", X: 15, Y: 10, Want: Left},
		{Label: "tie between right and bottom", X: 83, Y: 32, Want: Right},
	} {
		t.Run(tt.Label, func(t *testing.T) {
			if got := m.NearestEdge(tt.X, tt.Y); got != tt.Want {
				t.Fatalf("got %v, want %v", got, tt.Want)
			}
		})
	}
}

// TestInvariants applies random mutations and checks that the center never
// collapses.
func TestInvariants(t *testing.T) {
	var (
		rng = rand.New(rand.NewSource(42))
		m   = New()
	)
	edges := [...]Edge{Left, Right, Top, Bottom}
	for ii := 0; ii < 2000; ii++ {
		switch rng.Intn(4) {
		case 0:
			_ = m.Attach(newBitmap(1+rng.Intn(40), 1+rng.Intn(40)), ninepatch.Scale(1+rng.Intn(3)))
		case 1:
			_ = m.SetScale(ninepatch.Scale(1 + rng.Intn(3)))
		default:
			p := Patch{}
			if rng.Intn(2) == 0 {
				p.Left = Value(rng.Intn(60) - 10)
			}
			if rng.Intn(2) == 0 {
				p.Right = Value(rng.Intn(60) - 10)
			}
			if rng.Intn(2) == 0 {
				p.Top = Value(rng.Intn(60) - 10)
			}
			if rng.Intn(2) == 0 {
				p.Bottom = Value(rng.Intn(60) - 10)
			}
			_ = m.SetInsets(p, edges[rng.Intn(2)], edges[2+rng.Intn(2)])
		}
		st := m.State()
		if st.Canvas == (image.Point{}) {
			continue
		}
		in := st.Insets
		if in.Left < 0 || in.Right < 0 || in.Top < 0 || in.Bottom < 0 {
			t.Fatalf("step %d: negative inset %+v", ii, in)
		}
		if in.Horizontal() >= st.Canvas.X || in.Vertical() >= st.Canvas.Y {
			t.Fatalf("step %d: insets %+v cover canvas %v", ii, in, st.Canvas)
		}
	}
}

func TestReleaseLogged(t *testing.T) {
	var buf bytes.Buffer
	patchkit.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer patchkit.SetLogger(nil)

	m := attached(t, 10, 10, 1)
	if err := m.Attach(newBitmap(20, 20), 1); err != nil {
		t.Fatal(err)
	}
	m.Release()
	out := buf.String()
	for _, want := range []string{"releasing replaced bitmap", "releasing bitmap"} {
		if !strings.Contains(out, "msg=\""+want+"\"") {
			t.Errorf("missing %q in log:\n%s", want, out)
		}
	}
}
