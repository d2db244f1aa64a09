// Package epub extracts book metadata and cover images from EPUB container
// files. Per the system's contract, EPUB parsing is treated as an external
// collaborator: this package owns the zip/XML mechanics so the rest of the
// system only ever sees a metadata map and an optional cover blob.
package epub

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bcorrigan/shelfcontrol/internal/sanitize"
)

// Parsed holds everything a single EPUB yields before identity and
// filesystem fields (id, filesize, modtime, canonical path) are attached by
// the ingestion pipeline.
type Parsed struct {
	Title       string
	Description string
	Publisher   string
	Creator     string
	Subject     []string
	PubDate     string
	ModDate     string
	CoverBytes  []byte
	CoverMIME   string
}

// Parse opens an EPUB file and extracts its first-value metadata fields
// (title, description, publisher, creator, date) plus all subject values,
// matching the "pull first value... pull all values for subject" contract.
// The description is HTML-sanitized to the allow-list before it is
// returned. Cover bytes are extracted when findable; their absence is not
// an error.
func Parse(path string) (Parsed, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return Parsed{}, fmt.Errorf("open epub %q: %w", path, err)
	}
	defer zr.Close()

	opfPath, err := readContainerXML(&zr.Reader)
	if err != nil {
		return Parsed{}, fmt.Errorf("epub container %q: %w", path, err)
	}

	pkg, err := readOPFPackage(&zr.Reader, opfPath)
	if err != nil {
		return Parsed{}, fmt.Errorf("epub opf %q: %w", path, err)
	}
	meta := pkg.Metadata

	date := firstOf(meta.Dates)
	p := Parsed{
		Title:       firstOf(meta.Titles),
		Description: sanitize.Description(firstOf(meta.Descriptions)),
		Publisher:   firstOf(meta.Publishers),
		Creator:     firstCreator(meta.Creators),
		Subject:     meta.Subjects,
		PubDate:     date,
		ModDate:     date,
	}

	p.CoverBytes, p.CoverMIME = extractCover(&zr.Reader, opfPath, pkg)

	return p, nil
}

func firstOf(vals []string) string {
	if len(vals) > 0 {
		return vals[0]
	}
	return ""
}

func firstCreator(vals []opfAuthor) string {
	if len(vals) > 0 {
		return strings.TrimSpace(vals[0].Name)
	}
	return ""
}

// --- internal XML struct types for OPF/container parsing ---

type opfPackage struct {
	Metadata opfMetadata `xml:"metadata"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`
}

type opfSpine struct {
	ItemRefs []opfItemRef `xml:"itemref"`
}

type opfItemRef struct {
	IDRef string `xml:"idref,attr"`
}

type opfMetadata struct {
	Titles       []string    `xml:"title"`
	Creators     []opfAuthor `xml:"creator"`
	Subjects     []string    `xml:"subject"`
	Descriptions []string    `xml:"description"`
	Publishers   []string    `xml:"publisher"`
	Dates        []string    `xml:"date"`
	Metas        []opfMeta   `xml:"meta"`
}

type opfAuthor struct {
	Name string `xml:",chardata"`
	Role string `xml:"role,attr"`
}

type opfMeta struct {
	Name    string `xml:"name,attr"`
	Content string `xml:"content,attr"`
}

type opfManifest struct {
	Items []opfItem `xml:"item"`
}

type opfItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

type containerXML struct {
	Rootfile struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

func readContainerXML(zr *zip.Reader) (string, error) {
	for _, f := range zr.File {
		if f.Name == "META-INF/container.xml" {
			rc, err := f.Open()
			if err != nil {
				return "", err
			}
			defer rc.Close()

			var c containerXML
			if err := xml.NewDecoder(rc).Decode(&c); err != nil {
				return "", err
			}
			if c.Rootfile.FullPath == "" {
				return "", fmt.Errorf("no rootfile found in container.xml")
			}
			return c.Rootfile.FullPath, nil
		}
	}
	return "", fmt.Errorf("META-INF/container.xml not found")
}

func readOPFPackage(zr *zip.Reader, opfPath string) (opfPackage, error) {
	for _, f := range zr.File {
		if f.Name == opfPath {
			rc, err := f.Open()
			if err != nil {
				return opfPackage{}, err
			}
			defer rc.Close()

			data, err := io.ReadAll(rc)
			if err != nil {
				return opfPackage{}, err
			}

			var pkg opfPackage
			if err := xml.Unmarshal(data, &pkg); err != nil {
				return opfPackage{}, err
			}
			return pkg, nil
		}
	}
	return opfPackage{}, fmt.Errorf("OPF file %q not found in epub", opfPath)
}

// extractCover returns the raw cover bytes and MIME type, or (nil, "") if no
// cover can be found. It tries the manifest's cover-image property, then
// the legacy <meta name="cover"> pointer, then falls back to the first
// <img> tag in the first HTML spine item.
func extractCover(zr *zip.Reader, opfPath string, pkg opfPackage) ([]byte, string) {
	opfDir := filepath.ToSlash(filepath.Dir(opfPath))
	if opfDir == "." {
		opfDir = ""
	}

	coverItemID := ""
	for _, m := range pkg.Metadata.Metas {
		if strings.EqualFold(m.Name, "cover") && m.Content != "" {
			coverItemID = m.Content
			break
		}
	}

	var coverHref, coverMIME string
	for _, item := range pkg.Manifest.Items {
		if strings.Contains(item.Properties, "cover-image") {
			coverHref = item.Href
			coverMIME = item.MediaType
			break
		}
		if coverItemID != "" && item.ID == coverItemID {
			coverHref = item.Href
			coverMIME = item.MediaType
		}
	}

	if coverHref == "" {
		return findCoverInSpine(zr, opfDir, pkg)
	}

	fullHref := coverHref
	if opfDir != "" {
		fullHref = opfDir + "/" + coverHref
	}

	data := readZipFile(zr, fullHref)
	if data == nil {
		return nil, ""
	}
	if coverMIME == "" {
		coverMIME = extToMIME(strings.ToLower(filepath.Ext(coverHref)))
	}
	return data, coverMIME
}

// findCoverInSpine walks the OPF spine in order, opens the first HTML/XHTML
// item, and extracts the first <img src="…"> it finds as the cover.
func findCoverInSpine(zr *zip.Reader, opfDir string, pkg opfPackage) ([]byte, string) {
	byID := make(map[string]opfItem, len(pkg.Manifest.Items))
	for _, item := range pkg.Manifest.Items {
		byID[item.ID] = item
	}

	for _, ref := range pkg.Spine.ItemRefs {
		item, ok := byID[ref.IDRef]
		if !ok || !strings.Contains(item.MediaType, "html") {
			continue
		}

		fullPath := item.Href
		if opfDir != "" {
			fullPath = opfDir + "/" + item.Href
		}

		content := readZipFile(zr, fullPath)
		if content == nil {
			continue
		}
		if len(content) > 64*1024 {
			content = content[:64*1024]
		}

		imgSrc := findFirstImgSrc(string(content))
		if imgSrc == "" {
			continue
		}

		htmlDir := filepath.ToSlash(filepath.Dir(fullPath))
		if htmlDir == "." {
			htmlDir = ""
		}
		var imgPath string
		switch {
		case strings.HasPrefix(imgSrc, "/"):
			imgPath = strings.TrimPrefix(imgSrc, "/")
		case htmlDir != "":
			imgPath = htmlDir + "/" + imgSrc
		default:
			imgPath = imgSrc
		}
		imgPath = filepath.ToSlash(filepath.Clean(imgPath))

		data := readZipFile(zr, imgPath)
		if data == nil {
			continue
		}
		return data, extToMIME(strings.ToLower(filepath.Ext(imgSrc)))
	}
	return nil, ""
}

func readZipFile(zr *zip.Reader, name string) []byte {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil
			}
			defer rc.Close()
			data, err := io.ReadAll(rc)
			if err != nil {
				return nil
			}
			return data
		}
	}
	return nil
}

// findFirstImgSrc does a simple scan for the first <img … src="…"> in an
// HTML string. Returns the raw src value (not URL-decoded) or "".
func findFirstImgSrc(html string) string {
	lower := strings.ToLower(html)
	idx := strings.Index(lower, "<img")
	if idx == -1 {
		return ""
	}
	tag := html[idx:]
	endIdx := strings.Index(strings.ToLower(tag), ">")
	if endIdx == -1 {
		endIdx = len(tag)
	}
	tag = tag[:endIdx]

	lowerTag := strings.ToLower(tag)
	srcIdx := strings.Index(lowerTag, "src=")
	if srcIdx == -1 {
		return ""
	}
	rest := tag[srcIdx+4:]
	if len(rest) == 0 {
		return ""
	}

	var quote byte
	if rest[0] == '"' || rest[0] == '\'' {
		quote = rest[0]
		rest = rest[1:]
	}

	var endSrc int
	if quote != 0 {
		endSrc = strings.IndexByte(rest, quote)
	} else {
		endSrc = strings.IndexAny(rest, " \t\n\r>")
	}
	if endSrc == -1 {
		endSrc = len(rest)
	}

	src := rest[:endSrc]
	if i := strings.IndexByte(src, '?'); i != -1 {
		src = src[:i]
	}
	if i := strings.IndexByte(src, '#'); i != -1 {
		src = src[:i]
	}
	return strings.TrimSpace(src)
}

func extToMIME(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	default:
		return ""
	}
}
