package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/archetype-cli/archetype/pkg/diagram"
)

// Part names inside the package archive.
const (
	partContentTypes = "[Content_Types].xml"
	partRootRels     = "_rels/.rels"
	partDocument     = "visio/document.xml"
	partPage         = "visio/pages/page1.xml"
	partPageRels     = "visio/pages/_rels/page1.xml.rels"
	partAppProps     = "docProps/app.xml"
	partCoreProps    = "docProps/core.xml"
)

// Pixel-to-physical-unit conversion for the page part.
const (
	pixelsPerInch = 72.0
	pageWidthIn   = 11.0
	pageHeightIn  = 8.5
)

// applicationName is written into the package metadata parts.
const applicationName = "Archetype Architecture Generator"

// =============================================================================
// PackageResult - Tagged Export Outcome
// =============================================================================

// PackageResult is the tagged outcome of package assembly: either a complete
// archive, or the degraded plain-XML fallback with the reason assembly
// failed. The caller chooses the output file extension from the variant
// rather than from an error.
type PackageResult struct {
	Archive  []byte // complete zip bytes; nil when degraded
	Fallback []byte // enhanced XML document; set only when degraded
	Reason   string // why assembly degraded; empty on success
}

// Degraded reports whether assembly fell back to plain XML.
func (r *PackageResult) Degraded() bool { return r.Archive == nil }

// Ext returns the file extension matching the result variant.
func (r *PackageResult) Ext() string {
	if r.Degraded() {
		return ".xml"
	}
	return ".vsdx"
}

// Bytes returns the payload for the chosen variant.
func (r *PackageResult) Bytes() []byte {
	if r.Degraded() {
		return r.Fallback
	}
	return r.Archive
}

// =============================================================================
// Package Assembly
// =============================================================================

// part is one named XML document inside the archive. overrideType is the
// manifest content type for parts that need an Override entry; rels parts
// are covered by the Default extension declarations.
type part struct {
	name         string
	overrideType string
	data         []byte
}

// BuildPackage assembles the zip package entirely in memory. On any
// assembly failure it degrades to the enhanced-XML fallback instead of
// returning an error; the returned error is reserved for the case where even
// the fallback could not be produced.
func BuildPackage(d *diagram.Diagram) (*PackageResult, error) {
	archive, err := buildArchive(d)
	if err == nil {
		return &PackageResult{Archive: archive}, nil
	}

	fallback, fbErr := buildFallbackXML(d)
	if fbErr != nil {
		return nil, fmt.Errorf("package assembly failed (%v) and fallback failed: %w", err, fbErr)
	}
	return &PackageResult{Fallback: fallback, Reason: err.Error()}, nil
}

// ExportPackage writes the package next to basePath, choosing the extension
// from the result variant. basePath should carry no extension. The archive
// is fully assembled before any byte reaches the filesystem. It returns the
// path actually written and the assembly result.
func ExportPackage(d *diagram.Diagram, basePath string) (string, *PackageResult, error) {
	res, err := BuildPackage(d)
	if err != nil {
		return "", nil, err
	}
	path := basePath + res.Ext()
	if err := os.WriteFile(path, res.Bytes(), 0644); err != nil {
		return "", res, fmt.Errorf("write %s: %w", path, err)
	}
	return path, res, nil
}

// buildArchive renders every XML part and zips them. The manifest is
// generated from the same part list that is written into the archive, so
// declared and physical parts cannot drift apart.
func buildArchive(d *diagram.Diagram) ([]byte, error) {
	parts, err := buildParts(d)
	if err != nil {
		return nil, err
	}

	manifest, err := buildContentTypes(parts)
	if err != nil {
		return nil, err
	}
	entries := append([]part{{name: partContentTypes, data: manifest}}, parts...)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range entries {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("create entry %s: %w", p.name, err)
		}
		if _, err := w.Write(p.data); err != nil {
			return nil, fmt.Errorf("write entry %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

func buildParts(d *diagram.Diagram) ([]part, error) {
	builders := []struct {
		name         string
		overrideType string
		build        func(*diagram.Diagram) ([]byte, error)
	}{
		{partRootRels, "", buildRootRels},
		{partDocument, "application/vnd.ms-visio.drawing.main+xml", buildDocumentPart},
		{partPage, "application/vnd.ms-visio.page+xml", buildPagePart},
		{partPageRels, "", buildPageRels},
		{partAppProps, "application/vnd.openxmlformats-officedocument.extended-properties+xml", buildAppProps},
		{partCoreProps, "application/vnd.openxmlformats-package.core-properties+xml", buildCoreProps},
	}

	parts := make([]part, 0, len(builders))
	for _, b := range builders {
		data, err := b.build(d)
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", b.name, err)
		}
		parts = append(parts, part{name: b.name, overrideType: b.overrideType, data: data})
	}
	return parts, nil
}

// =============================================================================
// XML Parts
// =============================================================================

func newDoc() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	return doc
}

func docBytes(doc *etree.Document) ([]byte, error) {
	doc.Indent(2)
	return doc.WriteToBytes()
}

// buildContentTypes declares the MIME type of every part: Default entries
// for the xml/rels extensions plus an Override per document part.
func buildContentTypes(parts []part) ([]byte, error) {
	doc := newDoc()
	types := doc.CreateElement("Types")
	types.CreateAttr("xmlns", "http://schemas.openxmlformats.org/package/2006/content-types")

	def := types.CreateElement("Default")
	def.CreateAttr("Extension", "xml")
	def.CreateAttr("ContentType", "application/xml")
	rels := types.CreateElement("Default")
	rels.CreateAttr("Extension", "rels")
	rels.CreateAttr("ContentType", "application/vnd.openxmlformats-package.relationships+xml")

	for _, p := range parts {
		if p.overrideType == "" {
			continue
		}
		ov := types.CreateElement("Override")
		ov.CreateAttr("PartName", "/"+p.name)
		ov.CreateAttr("ContentType", p.overrideType)
	}
	return docBytes(doc)
}

// buildRootRels links the package root to the main document part and the
// metadata parts.
func buildRootRels(*diagram.Diagram) ([]byte, error) {
	doc := newDoc()
	rels := doc.CreateElement("Relationships")
	rels.CreateAttr("xmlns", "http://schemas.openxmlformats.org/package/2006/relationships")

	add := func(id, relType, target string) {
		r := rels.CreateElement("Relationship")
		r.CreateAttr("Id", id)
		r.CreateAttr("Type", relType)
		r.CreateAttr("Target", target)
	}
	add("rId1", "http://schemas.microsoft.com/visio/2010/relationships/document", "visio/document.xml")
	add("rId2", "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties", "docProps/app.xml")
	add("rId3", "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties", "docProps/core.xml")
	return docBytes(doc)
}

// buildDocumentPart carries page size, colors, and document settings.
func buildDocumentPart(d *diagram.Diagram) ([]byte, error) {
	doc := newDoc()
	root := doc.CreateElement("VisioDocument")
	root.CreateAttr("xmlns", "http://schemas.microsoft.com/office/visio/2012/main")

	settings := root.CreateElement("DocumentSettings")
	for _, name := range []string{"DefaultTabStyle", "DefaultTextStyle", "DefaultGuideStyle"} {
		settings.CreateElement(name).SetText("0")
	}

	colors := root.CreateElement("Colors")
	for i, rgb := range []string{"#000000", "#FFFFFF", "#4472C4", "#70AD47", "#E07C24", "#B91C1C"} {
		entry := colors.CreateElement("ColorEntry")
		entry.CreateAttr("IX", strconv.Itoa(i))
		entry.CreateAttr("RGB", rgb)
	}

	pages := root.CreateElement("Pages")
	page := pages.CreateElement("Page")
	page.CreateAttr("ID", "1")
	page.CreateAttr("Name", d.Title)
	page.CreateAttr("NameU", "page-1")
	props := page.CreateElement("PageSheet").CreateElement("PageProps")
	width := props.CreateElement("PageWidth")
	width.CreateAttr("Unit", "IN")
	width.SetText(formatNum(pageWidthIn))
	height := props.CreateElement("PageHeight")
	height.CreateAttr("Unit", "IN")
	height.SetText(formatNum(pageHeightIn))

	return docBytes(doc)
}

// buildPagePart emits one shape per component and one connector per
// connection. Shape ids follow diagram order starting at 1; connector ids
// continue after the last shape. Every connector references only shape ids
// present in this part.
func buildPagePart(d *diagram.Diagram) ([]byte, error) {
	doc := newDoc()
	root := doc.CreateElement("PageContents")
	root.CreateAttr("xmlns", "http://schemas.microsoft.com/office/visio/2012/main")
	shapes := root.CreateElement("Shapes")

	shapeIDs := make(map[string]int, len(d.Components))
	for i, c := range d.Components {
		shapeIDs[c.ID] = i + 1
		addShape(shapes, c, i+1)
	}

	connectorID := len(d.Components) + 1
	for _, c := range d.Components {
		from := shapeIDs[c.ID]
		for _, target := range c.Connections {
			to, ok := shapeIDs[target]
			if !ok {
				continue
			}
			addConnector(shapes, connectorID, from, to)
			connectorID++
		}
	}

	return docBytes(doc)
}

func addShape(parent *etree.Element, c *diagram.Component, id int) {
	shape := parent.CreateElement("Shape")
	shape.CreateAttr("ID", strconv.Itoa(id))
	shape.CreateAttr("Type", "Shape")
	shape.CreateAttr("Master", stencilMaster(c.Type))

	p := c.Position
	x, y, w, h := 0.0, 0.0, 0.0, 0.0
	if p != nil {
		x, y = p.X/pixelsPerInch, p.Y/pixelsPerInch
		w, h = p.Width/pixelsPerInch, p.Height/pixelsPerInch
	}
	xform := shape.CreateElement("XForm")
	addUnitCell(xform, "PinX", "IN", x+w/2)
	// The page origin is bottom-left; canvas Y grows downward.
	addUnitCell(xform, "PinY", "IN", pageHeightIn-(y+h/2))
	addUnitCell(xform, "Width", "IN", w)
	addUnitCell(xform, "Height", "IN", h)

	shape.CreateElement("Text").SetText(c.Name + "\n" + c.ServiceLabel)

	shape.CreateElement("Fill").CreateElement("FillColor").SetText(tierColor(c.Tier))

	line := shape.CreateElement("Line")
	line.CreateElement("LineColor").SetText("#000000")
	weight := line.CreateElement("LineWeight")
	weight.CreateAttr("Unit", "PT")
	weight.SetText("1")

	data := shape.CreateElement("Data")
	data.CreateElement("ComponentType").SetText(string(c.Type))
	data.CreateElement("AzureService").SetText(c.ServiceLabel)
	data.CreateElement("Tier").SetText(string(c.Tier))
	data.CreateElement("SourceServer").SetText(c.SourceRef)
	data.CreateElement("MigrationType").SetText(string(c.MigrationType))
}

func addConnector(parent *etree.Element, id, fromShape, toShape int) {
	shape := parent.CreateElement("Shape")
	shape.CreateAttr("ID", strconv.Itoa(id))
	shape.CreateAttr("Type", "Shape")
	shape.CreateAttr("Master", "Dynamic Connector")

	xform := shape.CreateElement("XForm")
	addUnitCell(xform, "PinX", "IN", 4)
	addUnitCell(xform, "PinY", "IN", 4)

	connects := shape.CreateElement("Connects")
	begin := connects.CreateElement("Connect")
	begin.CreateAttr("FromSheet", strconv.Itoa(id))
	begin.CreateAttr("FromCell", "BeginX")
	begin.CreateAttr("ToSheet", strconv.Itoa(fromShape))
	begin.CreateAttr("ToCell", "Connections.X1")
	end := connects.CreateElement("Connect")
	end.CreateAttr("FromSheet", strconv.Itoa(id))
	end.CreateAttr("FromCell", "EndX")
	end.CreateAttr("ToSheet", strconv.Itoa(toShape))
	end.CreateAttr("ToCell", "Connections.X1")

	line := shape.CreateElement("Line")
	line.CreateElement("LineColor").SetText("#666666")
	weight := line.CreateElement("LineWeight")
	weight.CreateAttr("Unit", "PT")
	weight.SetText("1")
}

// buildPageRels is currently empty, reserved for page-level media.
func buildPageRels(*diagram.Diagram) ([]byte, error) {
	doc := newDoc()
	rels := doc.CreateElement("Relationships")
	rels.CreateAttr("xmlns", "http://schemas.openxmlformats.org/package/2006/relationships")
	return docBytes(doc)
}

func buildAppProps(*diagram.Diagram) ([]byte, error) {
	doc := newDoc()
	props := doc.CreateElement("Properties")
	props.CreateAttr("xmlns", "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties")
	props.CreateElement("Application").SetText(applicationName)
	props.CreateElement("AppVersion").SetText("1.0")
	return docBytes(doc)
}

func buildCoreProps(d *diagram.Diagram) ([]byte, error) {
	doc := newDoc()
	core := doc.CreateElement("cp:coreProperties")
	core.CreateAttr("xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties")
	core.CreateAttr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	core.CreateAttr("xmlns:dcterms", "http://purl.org/dc/terms/")
	core.CreateAttr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")

	core.CreateElement("dc:title").SetText(d.Title)
	core.CreateElement("dc:creator").SetText(applicationName)
	created := core.CreateElement("dcterms:created")
	created.CreateAttr("xsi:type", "dcterms:W3CDTF")
	created.SetText(d.Created.Format(time.RFC3339))
	modified := core.CreateElement("dcterms:modified")
	modified.CreateAttr("xsi:type", "dcterms:W3CDTF")
	modified.SetText(d.Created.Format(time.RFC3339))
	core.CreateElement("dc:description").SetText(
		fmt.Sprintf("Target architecture generated from %d source servers", d.Metadata.SourceServers))

	return docBytes(doc)
}

// =============================================================================
// Plain-XML Fallback
// =============================================================================

// buildFallbackXML renders the whole diagram as a single enhanced XML
// document with the same logical content as the package.
func buildFallbackXML(d *diagram.Diagram) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)

	root := doc.CreateElement("VisioDocument")
	root.CreateAttr("xmlns", "http://schemas.microsoft.com/office/visio/2003/core")

	props := root.CreateElement("DocumentProperties")
	props.CreateElement("Title").SetText(d.Title)
	props.CreateElement("Creator").SetText(applicationName)
	props.CreateElement("Description").SetText(
		fmt.Sprintf("Target architecture with %d components", len(d.Components)))

	root.CreateElement("DocumentSettings").CreateElement("DefaultUnits").SetText("inches")

	page := root.CreateElement("Pages").CreateElement("Page")
	page.CreateAttr("ID", "1")
	page.CreateAttr("Name", "Architecture")
	pageProps := page.CreateElement("PageProps")
	pageProps.CreateElement("PageWidth").SetText(formatNum(pageWidthIn))
	pageProps.CreateElement("PageHeight").SetText(formatNum(pageHeightIn))

	shapes := page.CreateElement("Shapes")
	shapeIDs := make(map[string]int, len(d.Components))
	for i, c := range d.Components {
		shapeIDs[c.ID] = i + 1
		addFallbackShape(shapes, c, i+1)
	}

	conns := page.CreateElement("Connections")
	connectorID := len(d.Components) + 1
	for _, c := range d.Components {
		for _, target := range c.Connections {
			to, ok := shapeIDs[target]
			if !ok {
				continue
			}
			conn := conns.CreateElement("Connection")
			conn.CreateAttr("ID", strconv.Itoa(connectorID))
			conn.CreateAttr("FromSheet", strconv.Itoa(shapeIDs[c.ID]))
			conn.CreateAttr("ToSheet", strconv.Itoa(to))
			conn.CreateAttr("FromCell", "Connections.X1")
			conn.CreateAttr("ToCell", "Connections.X1")
			connectorID++
		}
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

func addFallbackShape(parent *etree.Element, c *diagram.Component, id int) {
	shape := parent.CreateElement("Shape")
	shape.CreateAttr("ID", strconv.Itoa(id))
	shape.CreateAttr("Name", c.Name)
	shape.CreateAttr("Type", "Shape")
	shape.CreateAttr("Master", stencilMaster(c.Type))

	p := c.Position
	x, y, w, h := 0.0, 0.0, 0.0, 0.0
	if p != nil {
		x, y, w, h = p.X, p.Y, p.Width, p.Height
	}
	xform := shape.CreateElement("XForm")
	xform.CreateElement("PinX").SetText(formatNum(x / pixelsPerInch))
	xform.CreateElement("PinY").SetText(formatNum((600 - y) / pixelsPerInch))
	xform.CreateElement("Width").SetText(formatNum(w / pixelsPerInch))
	xform.CreateElement("Height").SetText(formatNum(h / pixelsPerInch))

	shape.CreateElement("Text").SetText(c.Name + "\n" + c.ServiceLabel)
	shape.CreateElement("Fill").CreateElement("FillColor").SetText(tierColor(c.Tier))

	custom := shape.CreateElement("CustomProperties")
	addProp := func(name, value string) {
		prop := custom.CreateElement("CustomProperty")
		prop.CreateAttr("Name", name)
		prop.CreateAttr("Value", value)
	}
	addProp("ComponentType", string(c.Type))
	addProp("AzureService", c.ServiceLabel)
	addProp("Tier", string(c.Tier))
	addProp("SourceServer", c.SourceRef)
	addProp("MigrationType", string(c.MigrationType))
	for _, key := range sortedKeys(c.Attributes) {
		addProp("Prop_"+key, c.Attributes[key])
	}
}

// =============================================================================
// Helpers
// =============================================================================

func addUnitCell(parent *etree.Element, name, unit string, value float64) {
	el := parent.CreateElement(name)
	el.CreateAttr("Unit", unit)
	el.SetText(formatNum(value))
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
