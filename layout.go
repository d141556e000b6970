package deck2pptx

import "fmt"

// Recognized layout tags.
const (
	layoutL01 = "L01" // centered chart with text above and below
	layoutL02 = "L02" // diagram left, text right
	layoutL03 = "L03" // two charts in columns with text below
	layoutL25 = "L25" // main content shell, rich content capture
	layoutL27 = "L27" // image left, content right
	layoutL29 = "L29" // hero full bleed
)

// Content field names shared across layouts. Positional fields use the
// literal "element_N" keys of the deck document.
const (
	fieldTitle            = "slide_title"
	fieldSubtitle         = "subtitle"
	fieldMainContent      = "main_content"
	fieldPresentationName = "presentation_name"
)

// Text styling shared across layouts, following the viewer's palette.
const (
	colorTitle    = "#1f2937"
	colorSubtitle = "#6b7280"
	colorBody     = "#374151"

	sizeTitle    = 42
	sizeSubtitle = 24
	sizeBody     = 20
	sizeFooter   = 18
)

// instruction is a single rendering step for the assembler, expressed in
// grid coordinates. The instruction order within a slide is the z-order:
// earlier instructions are drawn underneath later ones.
type instruction interface {
	instr()
}

// textBoxInstr places wrapped text at a grid region.
type textBoxInstr struct {
	region Region
	text   string
	sizePt int
	bold   bool
	color  string // #RRGGBB
}

// imageInstr places a captured DOM region at a grid region. The capture is
// stretched to exactly fill the mapped rectangle.
type imageInstr struct {
	region   Region
	selector string // scoped under the slide's container
}

// backgroundInstr fills the slide background with a solid color.
type backgroundInstr struct {
	color string // #RRGGBB
}

func (textBoxInstr) instr()    {}
func (imageInstr) instr()      {}
func (backgroundInstr) instr() {}

// layoutFunc builds the instruction list for one recognized layout.
type layoutFunc func(content map[string]string, slideIndex int) []instruction

// layoutHandlers maps recognized layout tags to their builders.
var layoutHandlers = map[string]layoutFunc{
	layoutL01: renderL01,
	layoutL02: renderL02,
	layoutL03: renderL03,
	layoutL25: renderL25,
	layoutL27: renderL27,
	layoutL29: renderL29,
}

// layoutRenderer produces the instruction list for one slide.
type layoutRenderer interface {
	Render(slide Slide, index int) ([]instruction, bool)
}

// gridLayoutRenderer is the built-in renderer over the recognized layout
// set. It is stateless.
type gridLayoutRenderer struct{}

// Render returns the slide's instructions and whether the layout tag was
// recognized. A missing tag defaults to L01. Unrecognized tags yield at
// most the background instruction; the policy decision (warn or reject)
// belongs to the caller.
func (gridLayoutRenderer) Render(slide Slide, index int) ([]instruction, bool) {
	var instrs []instruction
	if slide.BackgroundColor != "" {
		instrs = append(instrs, backgroundInstr{color: slide.BackgroundColor})
	}

	tag := slide.Layout
	if tag == "" {
		tag = layoutL01
	}

	fn, ok := layoutHandlers[tag]
	if !ok {
		return instrs, false
	}
	return append(instrs, fn(slide.Content, index)...), true
}

// slideSelector scopes a selector under the slide's container.
func slideSelector(index int, selector string) string {
	return fmt.Sprintf(`[data-slide-index="%d"] %s`, index, selector)
}

// footerInstr returns the footer text box, or nil when the deck name is
// not part of the slide content.
func footerInstr(content map[string]string, region Region) []instruction {
	name := content[fieldPresentationName]
	if name == "" {
		return nil
	}
	return []instruction{
		textBoxInstr{region: region, text: name, sizePt: sizeFooter, color: colorTitle},
	}
}

// standardFooter is the footer band shared by the centered layouts.
var standardFooter = Region{2, 7, 18, 19}

func renderL01(content map[string]string, slideIndex int) []instruction {
	instrs := []instruction{
		textBoxInstr{region: Region{2, 32, 2, 3}, text: content[fieldTitle], sizePt: sizeTitle, bold: true, color: colorTitle},
		textBoxInstr{region: Region{2, 32, 3, 4}, text: content["element_1"], sizePt: sizeSubtitle, color: colorSubtitle},
		imageInstr{region: Region{2, 32, 5, 15}, selector: slideSelector(slideIndex, ".chart-container")},
		textBoxInstr{region: Region{2, 32, 15, 17}, text: content["element_3"], sizePt: sizeBody, color: colorBody},
	}
	return append(instrs, footerInstr(content, standardFooter)...)
}

func renderL02(content map[string]string, slideIndex int) []instruction {
	instrs := []instruction{
		textBoxInstr{region: Region{2, 32, 2, 3}, text: content[fieldTitle], sizePt: sizeTitle, bold: true, color: colorTitle},
		textBoxInstr{region: Region{2, 32, 3, 4}, text: content["element_1"], sizePt: sizeSubtitle, color: colorSubtitle},
		imageInstr{region: Region{2, 23, 5, 17}, selector: slideSelector(slideIndex, ".diagram-container")},
		textBoxInstr{region: Region{23, 32, 5, 17}, text: content["element_2"], sizePt: sizeBody, color: colorBody},
	}
	return append(instrs, footerInstr(content, standardFooter)...)
}

func renderL03(content map[string]string, slideIndex int) []instruction {
	instrs := []instruction{
		textBoxInstr{region: Region{2, 32, 2, 3}, text: content[fieldTitle], sizePt: sizeTitle, bold: true, color: colorTitle},
		textBoxInstr{region: Region{2, 32, 3, 4}, text: content["element_1"], sizePt: sizeSubtitle, color: colorSubtitle},
		imageInstr{region: Region{2, 16, 5, 14}, selector: slideSelector(slideIndex, `[data-section-type="chart1"]`)},
		imageInstr{region: Region{17, 31, 5, 14}, selector: slideSelector(slideIndex, `[data-section-type="chart2"]`)},
		textBoxInstr{region: Region{2, 16, 14, 17}, text: content["element_3"], sizePt: sizeBody, color: colorBody},
		textBoxInstr{region: Region{17, 31, 14, 17}, text: content["element_5"], sizePt: sizeBody, color: colorBody},
	}
	return append(instrs, footerInstr(content, standardFooter)...)
}

func renderL25(content map[string]string, slideIndex int) []instruction {
	subtitle := content[fieldSubtitle]
	if subtitle == "" {
		subtitle = content["element_1"]
	}
	instrs := []instruction{
		textBoxInstr{region: Region{2, 32, 2, 3}, text: content[fieldTitle], sizePt: sizeTitle, bold: true, color: colorTitle},
		textBoxInstr{region: Region{2, 32, 3, 4}, text: subtitle, sizePt: sizeSubtitle, color: colorSubtitle},
		imageInstr{region: Region{2, 32, 5, 17}, selector: slideSelector(slideIndex, ".rich-content-area")},
	}
	return append(instrs, footerInstr(content, standardFooter)...)
}

func renderL27(content map[string]string, slideIndex int) []instruction {
	// The image goes first so the right-column text draws above it when
	// the capture bleeds past its column.
	instrs := []instruction{
		imageInstr{region: Region{1, 12, 1, 19}, selector: slideSelector(slideIndex, ".image-container")},
		textBoxInstr{region: Region{13, 32, 2, 3}, text: content[fieldTitle], sizePt: sizeTitle, bold: true, color: colorTitle},
		textBoxInstr{region: Region{13, 32, 3, 4}, text: content["element_1"], sizePt: sizeSubtitle, color: colorSubtitle},
		textBoxInstr{region: Region{13, 32, 5, 17}, text: content[fieldMainContent], sizePt: sizeBody, color: colorBody},
	}
	return append(instrs, footerInstr(content, Region{13, 18, 18, 19})...)
}

func renderL29(content map[string]string, slideIndex int) []instruction {
	// The hero capture bleeds over the whole slide; the title and footer
	// draw above it.
	instrs := []instruction{
		imageInstr{region: Region{1, 33, 1, 19}, selector: slideSelector(slideIndex, ".hero-content-area")},
		textBoxInstr{region: Region{2, 32, 2, 3}, text: content[fieldTitle], sizePt: sizeTitle, bold: true, color: colorTitle},
	}
	return append(instrs, footerInstr(content, standardFooter)...)
}
