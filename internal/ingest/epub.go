package ingest

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/johns/hondoku/internal/jptext"
)

// EPUB container and package (OPF) structures. Elements are matched by
// local name, so the dc: namespace on metadata does not matter.
type epubContainer struct {
	RootFiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type epubPackage struct {
	Metadata epubMetadata `xml:"metadata"`
	Manifest struct {
		Items []epubItem `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		ItemRefs []struct {
			IDRef string `xml:"idref,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

type epubMetadata struct {
	Titles   []string   `xml:"title"`
	Creators []string   `xml:"creator"`
	Metas    []epubMeta `xml:"meta"`
}

type epubMeta struct {
	Name       string `xml:"name,attr"`
	Content    string `xml:"content,attr"`
	Properties string `xml:"properties,attr"`
}

type epubItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

var htmlTagPattern = regexp.MustCompile(`(?s)<[^>]*>`)

// processEPUB extracts text, metadata, and the cover image from an EPUB
// into bookDir. The extracted text is filtered down to Japanese content
// and written to bookDir/book.txt.
func processEPUB(epubPath, bookDir, hash string) (Book, error) {
	r, err := zip.OpenReader(epubPath)
	if err != nil {
		return Book{}, fmt.Errorf("open epub: %w", err)
	}
	defer r.Close()

	opfPath, err := findOPF(&r.Reader)
	if err != nil {
		return Book{}, err
	}

	pkgData, err := readZipFile(&r.Reader, opfPath)
	if err != nil {
		return Book{}, fmt.Errorf("read package document: %w", err)
	}

	var pkg epubPackage
	if err := xml.Unmarshal(pkgData, &pkg); err != nil {
		return Book{}, fmt.Errorf("parse package document: %w", err)
	}

	book := Book{
		Authors:  pkg.Metadata.Creators,
		FileHash: hash,
		BookDir:  bookDir,
	}
	if len(pkg.Metadata.Titles) > 0 {
		book.Title = pkg.Metadata.Titles[0]
	}
	if book.Title == "" {
		base := filepath.Base(epubPath)
		book.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	opfDir := path.Dir(opfPath)

	text, err := spineText(&r.Reader, pkg, opfDir)
	if err != nil {
		return Book{}, err
	}

	txtPath := filepath.Join(bookDir, "book.txt")
	if err := os.WriteFile(txtPath, []byte(text), 0o644); err != nil {
		return Book{}, fmt.Errorf("write extracted text: %w", err)
	}
	book.Path = txtPath

	// Cover extraction is best effort: a book without one still analyses.
	if coverPath, err := extractCover(&r.Reader, pkg, opfDir, bookDir); err == nil {
		book.Image = coverPath
	}

	return book, nil
}

func findOPF(r *zip.Reader) (string, error) {
	data, err := readZipFile(r, "META-INF/container.xml")
	if err != nil {
		return "", fmt.Errorf("read container.xml: %w", err)
	}

	var container epubContainer
	if err := xml.Unmarshal(data, &container); err != nil {
		return "", fmt.Errorf("parse container.xml: %w", err)
	}
	if len(container.RootFiles) == 0 {
		return "", errors.New("container.xml names no rootfile")
	}
	return container.RootFiles[0].FullPath, nil
}

// spineText walks the spine in order, strips ruby annotations and markup
// from each document, and filters the result down to Japanese text.
func spineText(r *zip.Reader, pkg epubPackage, opfDir string) (string, error) {
	items := make(map[string]epubItem, len(pkg.Manifest.Items))
	for _, item := range pkg.Manifest.Items {
		items[item.ID] = item
	}

	var b strings.Builder
	for _, ref := range pkg.Spine.ItemRefs {
		item, ok := items[ref.IDRef]
		if !ok {
			continue
		}
		if !strings.Contains(item.MediaType, "html") {
			continue
		}

		data, err := readZipFile(r, resolveHref(opfDir, item.Href))
		if err != nil {
			return "", fmt.Errorf("read spine item %s: %w", item.Href, err)
		}

		markup := jptext.StripRuby(string(data))
		plain := html.UnescapeString(htmlTagPattern.ReplaceAllString(markup, " "))
		b.WriteString(plain)
		b.WriteString("\n")
	}

	return jptext.FilterJapanese(b.String()), nil
}

var errNoCover = errors.New("no cover image found")

// extractCover locates the cover via EPUB 3 properties, the EPUB 2
// meta[name=cover] pointer, or an item id containing "cover", and copies
// it into bookDir.
func extractCover(r *zip.Reader, pkg epubPackage, opfDir, bookDir string) (string, error) {
	coverID := ""
	for _, m := range pkg.Metadata.Metas {
		if m.Name == "cover" && m.Content != "" {
			coverID = m.Content
			break
		}
	}

	var cover *epubItem
	for i, item := range pkg.Manifest.Items {
		if !strings.HasPrefix(item.MediaType, "image/") {
			continue
		}
		if strings.Contains(item.Properties, "cover-image") ||
			(coverID != "" && item.ID == coverID) ||
			strings.Contains(strings.ToLower(item.ID), "cover") {
			cover = &pkg.Manifest.Items[i]
			break
		}
	}
	if cover == nil {
		return "", errNoCover
	}

	data, err := readZipFile(r, resolveHref(opfDir, cover.Href))
	if err != nil {
		return "", fmt.Errorf("read cover: %w", err)
	}

	ext := path.Ext(cover.Href)
	if ext == "" {
		ext = ".jpg"
	}
	dest := filepath.Join(bookDir, "cover"+ext)
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("write cover: %w", err)
	}
	return dest, nil
}

func resolveHref(opfDir, href string) string {
	if opfDir == "." || opfDir == "" {
		return href
	}
	return path.Clean(path.Join(opfDir, href))
}

func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("%s not in archive", name)
}
