package pptx

import "time"

// Align is a paragraph horizontal alignment.
type Align string

// Paragraph alignments, matching OOXML algn values.
const (
	AlignLeft   Align = "l"
	AlignCenter Align = "ctr"
	AlignRight  Align = "r"
)

// TextBox is a wrapped text box positioned in EMU.
type TextBox struct {
	X, Y, W, H int64
	Text       string
	SizePt     int // font size in points
	Bold       bool
	Color      Color
	Align      Align
}

// Picture is an embedded PNG image positioned in EMU. The image is stretched
// to exactly fill the rectangle.
type Picture struct {
	X, Y, W, H int64
	Data       []byte
}

// Slide holds the shapes of one output slide in z-order.
type Slide struct {
	background *Color
	textBoxes  []TextBox
	pictures   []Picture
	shapes     []shapeRef
	notes      string
}

// shapeRef preserves insertion order across shape kinds.
type shapeRef struct {
	kind shapeKind
	idx  int
}

type shapeKind int

const (
	kindTextBox shapeKind = iota
	kindPicture
)

// SetBackground applies a solid background fill.
func (s *Slide) SetBackground(c Color) {
	s.background = &c
}

// AddTextBox appends a text box shape.
func (s *Slide) AddTextBox(tb TextBox) {
	s.textBoxes = append(s.textBoxes, tb)
	s.shapes = append(s.shapes, shapeRef{kind: kindTextBox, idx: len(s.textBoxes) - 1})
}

// AddPicture appends a picture shape. Data must be PNG bytes.
func (s *Slide) AddPicture(p Picture) {
	s.pictures = append(s.pictures, p)
	s.shapes = append(s.shapes, shapeRef{kind: kindPicture, idx: len(s.pictures) - 1})
}

// SetNotes attaches speaker notes text to the slide.
func (s *Slide) SetNotes(text string) {
	s.notes = text
}

// Notes returns the speaker notes text, empty when unset.
func (s *Slide) Notes() string {
	return s.notes
}

// PictureCount returns the number of embedded pictures.
func (s *Slide) PictureCount() int {
	return len(s.pictures)
}

// TextBoxCount returns the number of text boxes.
func (s *Slide) TextBoxCount() int {
	return len(s.textBoxes)
}

// Presentation is an in-memory deck ready to be written as a .pptx package.
type Presentation struct {
	title   string
	created time.Time
	slideW  int64
	slideH  int64
	slides  []*Slide
}

// New creates an empty presentation with the given title and slide size in
// inches. The creation timestamp is recorded in the document properties.
func New(title string, widthInches, heightInches float64, created time.Time) *Presentation {
	return &Presentation{
		title:   title,
		created: created,
		slideW:  Inch(widthInches),
		slideH:  Inch(heightInches),
	}
}

// AddSlide appends a new empty slide and returns it.
func (p *Presentation) AddSlide() *Slide {
	s := &Slide{}
	p.slides = append(p.slides, s)
	return s
}

// SlideCount returns the number of slides.
func (p *Presentation) SlideCount() int {
	return len(p.slides)
}

// Slide returns the slide at index, or nil when out of range.
func (p *Presentation) Slide(index int) *Slide {
	if index < 0 || index >= len(p.slides) {
		return nil
	}
	return p.slides[index]
}

// SlideWidth returns the slide width in EMU.
func (p *Presentation) SlideWidth() int64 { return p.slideW }

// SlideHeight returns the slide height in EMU.
func (p *Presentation) SlideHeight() int64 { return p.slideH }
