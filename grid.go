package deck2pptx

import "fmt"

// Slide geometry. The deck viewer lays slides out on a 32-column by 18-row
// CSS grid addressed by 1-based grid lines, and the output canvas is a
// fixed physical size, so a grid region maps to inches without consulting
// the browser.
const (
	gridCols = 32
	gridRows = 18

	canvasWidthInches = 10.0
	canvasHeight16x9  = 5.625
	canvasHeight4x3   = 7.5
)

// Region addresses a rectangle on the slide grid by 1-based grid lines.
// A region spanning the full slide is {1, 33, 1, 19}: grid lines run from
// 1 to gridCols+1 horizontally and 1 to gridRows+1 vertically.
type Region struct {
	ColStart int
	ColEnd   int
	RowStart int
	RowEnd   int
}

// validate checks grid-line bounds. Start lines must be at least 1, end
// lines at most one past the last column/row, and spans non-empty.
func (r Region) validate() error {
	if r.ColStart < 1 || r.RowStart < 1 {
		return fmt.Errorf("%w: start line below 1 in (%d,%d,%d,%d)",
			ErrInvalidRegion, r.ColStart, r.ColEnd, r.RowStart, r.RowEnd)
	}
	if r.ColEnd > gridCols+1 || r.RowEnd > gridRows+1 {
		return fmt.Errorf("%w: end line past grid edge in (%d,%d,%d,%d)",
			ErrInvalidRegion, r.ColStart, r.ColEnd, r.RowStart, r.RowEnd)
	}
	if r.ColStart >= r.ColEnd || r.RowStart >= r.RowEnd {
		return fmt.Errorf("%w: empty span in (%d,%d,%d,%d)",
			ErrInvalidRegion, r.ColStart, r.ColEnd, r.RowStart, r.RowEnd)
	}
	return nil
}

// Rect is a rectangle on the output canvas in inches.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// gridMapper converts grid regions to canvas rectangles for one canvas size.
type gridMapper struct {
	width  float64 // inches
	height float64 // inches
}

// newGridMapper builds a mapper for the given aspect ratio. The canvas is
// always 10 inches wide; 16:9 decks are 5.625 inches tall, 4:3 decks 7.5.
func newGridMapper(aspect string) gridMapper {
	height := canvasHeight16x9
	if aspect == Aspect4x3 {
		height = canvasHeight4x3
	}
	return gridMapper{width: canvasWidthInches, height: height}
}

// Map converts a grid region to a canvas rectangle.
// Returns ErrInvalidRegion when the region violates grid bounds.
func (m gridMapper) Map(r Region) (Rect, error) {
	if err := r.validate(); err != nil {
		return Rect{}, err
	}

	colWidth := m.width / gridCols
	rowHeight := m.height / gridRows

	return Rect{
		Left:   float64(r.ColStart-1) * colWidth,
		Top:    float64(r.RowStart-1) * rowHeight,
		Width:  float64(r.ColEnd-r.ColStart) * colWidth,
		Height: float64(r.RowEnd-r.RowStart) * rowHeight,
	}, nil
}
