package pptx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// XML namespace constants.
const (
	nsRelationships  = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes   = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsPresentationML = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsDrawingML      = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsOfficeDocRels  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsDCTerms        = "http://purl.org/dc/terms/"
	nsDC             = "http://purl.org/dc/elements/1.1/"
	nsCoreProperties = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsExtProperties  = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
	nsXSI            = "http://www.w3.org/2001/XMLSchema-instance"

	relTypeSlide       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTypeSlideMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relTypeSlideLayout = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relTypeTheme       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	relTypePresProps   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/presProps"
	relTypeViewProps   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/viewProps"
	relTypeTableStyles = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/tableStyles"
	relTypeOfficeDoc   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeCoreProps   = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relTypeExtProps    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relTypeImage       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relTypeNotesSlide  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide"

	ctPresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctSlideMaster  = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctSlideLayout  = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctTheme        = "application/vnd.openxmlformats-officedocument.theme+xml"
	ctPresProps    = "application/vnd.openxmlformats-officedocument.presentationml.presProps+xml"
	ctViewProps    = "application/vnd.openxmlformats-officedocument.presentationml.viewProps+xml"
	ctTableStyles  = "application/vnd.openxmlformats-officedocument.presentationml.tableStyles+xml"
	ctCoreProps    = "application/vnd.openxmlformats-package.core-properties+xml"
	ctExtProps     = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	ctRels         = "application/vnd.openxmlformats-package.relationships+xml"
	ctNotesSlide   = "application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml"
)

// ContentType is the MIME type of a .pptx file.
const ContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// WriteTo writes the presentation as a complete .pptx package.
func (p *Presentation) WriteTo(w io.Writer) error {
	if len(p.slides) == 0 {
		return fmt.Errorf("presentation has no slides")
	}

	zw := zip.NewWriter(w)

	if err := p.writeContentTypes(zw); err != nil {
		return err
	}
	if err := p.writeRootRels(zw); err != nil {
		return err
	}
	if err := p.writeAppProperties(zw); err != nil {
		return err
	}
	if err := p.writeCoreProperties(zw); err != nil {
		return err
	}
	if err := p.writePresentation(zw); err != nil {
		return err
	}
	if err := p.writePresentationRels(zw); err != nil {
		return err
	}
	if err := p.writePresProps(zw); err != nil {
		return err
	}
	if err := p.writeViewProps(zw); err != nil {
		return err
	}
	if err := p.writeTableStyles(zw); err != nil {
		return err
	}
	if err := p.writeSlideMaster(zw); err != nil {
		return err
	}
	if err := p.writeSlideLayout(zw); err != nil {
		return err
	}
	if err := p.writeTheme(zw); err != nil {
		return err
	}

	for i, slide := range p.slides {
		if err := p.writeSlide(zw, slide, i+1); err != nil {
			return err
		}
		if err := p.writeSlideRels(zw, slide, i+1); err != nil {
			return err
		}
	}

	if err := p.writeMedia(zw); err != nil {
		return err
	}

	for i, slide := range p.slides {
		if slide.notes != "" {
			if err := p.writeNotesSlide(zw, slide, i+1); err != nil {
				return err
			}
		}
	}

	return zw.Close()
}

func writeRawXMLToZip(zw *zip.Writer, path string, content string) error {
	fw, err := zw.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s in zip: %w", path, err)
	}
	_, err = fw.Write([]byte(content))
	return err
}

// xmlEscape escapes special XML characters using the standard library.
func xmlEscape(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		// EscapeText writing to strings.Builder never fails, but handle gracefully.
		return s
	}
	return b.String()
}

func (p *Presentation) writeContentTypes(zw *zip.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="%s">
  <Default Extension="rels" ContentType="%s"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Default Extension="png" ContentType="image/png"/>
  <Override PartName="/ppt/presentation.xml" ContentType="%s"/>
  <Override PartName="/ppt/presProps.xml" ContentType="%s"/>
  <Override PartName="/ppt/viewProps.xml" ContentType="%s"/>
  <Override PartName="/ppt/tableStyles.xml" ContentType="%s"/>
  <Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="%s"/>
  <Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="%s"/>
  <Override PartName="/ppt/theme/theme1.xml" ContentType="%s"/>
  <Override PartName="/docProps/core.xml" ContentType="%s"/>
  <Override PartName="/docProps/app.xml" ContentType="%s"/>`,
		nsContentTypes, ctRels,
		ctPresentation, ctPresProps, ctViewProps, ctTableStyles,
		ctSlideMaster, ctSlideLayout, ctTheme, ctCoreProps, ctExtProps)

	for i := range p.slides {
		fmt.Fprintf(&b, `
  <Override PartName="/ppt/slides/slide%d.xml" ContentType="%s"/>`, i+1, ctSlide)
	}
	for i, slide := range p.slides {
		if slide.notes != "" {
			fmt.Fprintf(&b, `
  <Override PartName="/ppt/notesSlides/notesSlide%d.xml" ContentType="%s"/>`, i+1, ctNotesSlide)
		}
	}
	b.WriteString(`
</Types>`)
	return writeRawXMLToZip(zw, "[Content_Types].xml", b.String())
}

func (p *Presentation) writeRootRels(zw *zip.Writer) error {
	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="%s">
  <Relationship Id="rId1" Type="%s" Target="ppt/presentation.xml"/>
  <Relationship Id="rId2" Type="%s" Target="docProps/core.xml"/>
  <Relationship Id="rId3" Type="%s" Target="docProps/app.xml"/>
</Relationships>`, nsRelationships, relTypeOfficeDoc, relTypeCoreProps, relTypeExtProps)
	return writeRawXMLToZip(zw, "_rels/.rels", content)
}

func (p *Presentation) writeAppProperties(zw *zip.Writer) error {
	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Properties xmlns="%s" xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">
  <Application>go-deck2pptx</Application>
  <Slides>%d</Slides>
</Properties>`, nsExtProperties, len(p.slides))
	return writeRawXMLToZip(zw, "docProps/app.xml", content)
}

func (p *Presentation) writeCoreProperties(zw *zip.Writer) error {
	stamp := p.created.UTC().Format("2006-01-02T15:04:05Z")
	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="%s" xmlns:dc="%s" xmlns:dcterms="%s" xmlns:xsi="%s">
  <dc:title>%s</dc:title>
  <dc:creator>go-deck2pptx</dc:creator>
  <cp:lastModifiedBy>go-deck2pptx</cp:lastModifiedBy>
  <dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>
  <dcterms:modified xsi:type="dcterms:W3CDTF">%s</dcterms:modified>
</cp:coreProperties>`,
		nsCoreProperties, nsDC, nsDCTerms, nsXSI,
		xmlEscape(p.title), stamp, stamp)
	return writeRawXMLToZip(zw, "docProps/core.xml", content)
}

func (p *Presentation) writePresentation(zw *zip.Writer) error {
	var slideIDs strings.Builder
	for i := range p.slides {
		// Slide IDs start at 256; rId1 is the slide master.
		fmt.Fprintf(&slideIDs, `
    <p:sldId id="%d" r:id="rId%d"/>`, 256+i, 2+i)
	}

	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentation xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">
  <p:sldMasterIdLst>
    <p:sldMasterId id="2147483648" r:id="rId1"/>
  </p:sldMasterIdLst>
  <p:sldIdLst>%s
  </p:sldIdLst>
  <p:sldSz cx="%d" cy="%d"/>
  <p:notesSz cx="6858000" cy="9144000"/>
  <p:defaultTextStyle/>
</p:presentation>`, nsDrawingML, nsOfficeDocRels, nsPresentationML,
		slideIDs.String(), p.slideW, p.slideH)
	return writeRawXMLToZip(zw, "ppt/presentation.xml", content)
}

func (p *Presentation) writePresentationRels(zw *zip.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="%s">
  <Relationship Id="rId1" Type="%s" Target="slideMasters/slideMaster1.xml"/>`,
		nsRelationships, relTypeSlideMaster)

	relIdx := 2
	for i := range p.slides {
		fmt.Fprintf(&b, `
  <Relationship Id="rId%d" Type="%s" Target="slides/slide%d.xml"/>`, relIdx, relTypeSlide, i+1)
		relIdx++
	}

	fmt.Fprintf(&b, `
  <Relationship Id="rId%d" Type="%s" Target="presProps.xml"/>`, relIdx, relTypePresProps)
	relIdx++
	fmt.Fprintf(&b, `
  <Relationship Id="rId%d" Type="%s" Target="viewProps.xml"/>`, relIdx, relTypeViewProps)
	relIdx++
	fmt.Fprintf(&b, `
  <Relationship Id="rId%d" Type="%s" Target="tableStyles.xml"/>`, relIdx, relTypeTableStyles)
	relIdx++
	fmt.Fprintf(&b, `
  <Relationship Id="rId%d" Type="%s" Target="theme/theme1.xml"/>`, relIdx, relTypeTheme)

	b.WriteString(`
</Relationships>`)
	return writeRawXMLToZip(zw, "ppt/_rels/presentation.xml.rels", b.String())
}

func (p *Presentation) writeMedia(zw *zip.Writer) error {
	imgIdx := 1
	for _, slide := range p.slides {
		for _, pic := range slide.pictures {
			fw, err := zw.Create(fmt.Sprintf("ppt/media/image%d.png", imgIdx))
			if err != nil {
				return err
			}
			if _, err := fw.Write(pic.Data); err != nil {
				return err
			}
			imgIdx++
		}
	}
	return nil
}
