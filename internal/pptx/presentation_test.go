package pptx

import (
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	t.Parallel()

	p := New("Quarterly Review", 10, 5.625, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	if p.SlideCount() != 0 {
		t.Errorf("SlideCount() = %d, want 0", p.SlideCount())
	}
	if p.SlideWidth() != 9144000 {
		t.Errorf("SlideWidth() = %d, want 9144000", p.SlideWidth())
	}
	if p.SlideHeight() != 5143500 {
		t.Errorf("SlideHeight() = %d, want 5143500", p.SlideHeight())
	}
}

func TestAddSlide(t *testing.T) {
	t.Parallel()

	p := New("", 10, 7.5, time.Now())

	first := p.AddSlide()
	second := p.AddSlide()

	if p.SlideCount() != 2 {
		t.Fatalf("SlideCount() = %d, want 2", p.SlideCount())
	}
	if p.Slide(0) != first {
		t.Error("Slide(0) is not the first added slide")
	}
	if p.Slide(1) != second {
		t.Error("Slide(1) is not the second added slide")
	}
}

func TestSlideOutOfRange(t *testing.T) {
	t.Parallel()

	p := New("", 10, 5.625, time.Now())
	p.AddSlide()

	tests := []struct {
		name  string
		index int
	}{
		{"negative", -1},
		{"at count", 1},
		{"past count", 99},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := p.Slide(tt.index); got != nil {
				t.Errorf("Slide(%d) = %v, want nil", tt.index, got)
			}
		})
	}
}

func TestSlideShapeAccounting(t *testing.T) {
	t.Parallel()

	s := &Slide{}

	s.AddPicture(Picture{W: 100, H: 100, Data: []byte{1}})
	s.AddTextBox(TextBox{Text: "first"})
	s.AddTextBox(TextBox{Text: "second"})

	if s.PictureCount() != 1 {
		t.Errorf("PictureCount() = %d, want 1", s.PictureCount())
	}
	if s.TextBoxCount() != 2 {
		t.Errorf("TextBoxCount() = %d, want 2", s.TextBoxCount())
	}

	// Insertion order is preserved across shape kinds.
	wantKinds := []shapeKind{kindPicture, kindTextBox, kindTextBox}
	if len(s.shapes) != len(wantKinds) {
		t.Fatalf("len(shapes) = %d, want %d", len(s.shapes), len(wantKinds))
	}
	for i, want := range wantKinds {
		if s.shapes[i].kind != want {
			t.Errorf("shapes[%d].kind = %v, want %v", i, s.shapes[i].kind, want)
		}
	}
}

func TestSlideNotes(t *testing.T) {
	t.Parallel()

	s := &Slide{}

	if s.Notes() != "" {
		t.Errorf("Notes() = %q, want empty", s.Notes())
	}

	s.SetNotes("remember the demo")
	if s.Notes() != "remember the demo" {
		t.Errorf("Notes() = %q, want %q", s.Notes(), "remember the demo")
	}
}
