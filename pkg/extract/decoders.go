// File: pkg/extract/decoders.go
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

// Decoder turns a binary document into text. Decoders are expected to return an
// error on failure; the Extractor converts any failure into "no content".
type Decoder func(path string) (string, error)

// Sheet is one worksheet of a spreadsheet, flattened to text.
type Sheet struct {
	Name string
	Text string
}

// SheetDecoder returns every sheet of a workbook in workbook order.
type SheetDecoder func(path string) ([]Sheet, error)

// Decoders groups the collaborators used for decoder-backed categories.
// A nil member makes its category always yield no content.
type Decoders struct {
	Document    Decoder
	Spreadsheet SheetDecoder
	PDF         Decoder
}

// DefaultDecoders returns the built-in collaborators for .docx, .xlsx and .pdf.
// Legacy .doc and .xls files are routed to the same decoders and fail over to no content.
func DefaultDecoders() Decoders {
	return Decoders{
		Document:    DecodeDocx,
		Spreadsheet: DecodeWorkbook,
		PDF:         DecodePDF,
	}
}

var errNoDocumentBody = errors.New("word/document.xml not found")

// DecodeDocx extracts the raw paragraph text of an Office Open XML document.
// Paragraphs are separated by a blank line.
func DecodeDocx(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open document body: %w", err)
		}
		defer rc.Close()
		return docxText(rc)
	}
	return "", errNoDocumentBody
}

func docxText(r io.Reader) (string, error) {
	var sb strings.Builder
	dec := xml.NewDecoder(r)
	inText := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document body: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}

// DecodeWorkbook reads every sheet of a workbook and flattens each one to
// tab-separated rows.
func DecodeWorkbook(path string) ([]Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		var sb strings.Builder
		for _, row := range rows {
			sb.WriteString(strings.Join(row, "\t"))
			sb.WriteByte('\n')
		}
		sheets = append(sheets, Sheet{Name: name, Text: sb.String()})
	}
	return sheets, nil
}

// DecodePDF returns the plain text of every page of a PDF.
func DecodePDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

// reformatJSON parses the file as JSON and prints it again with two-space
// indentation. Invalid JSON is returned unchanged.
func reformatJSON(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text, err := decodeLenient(raw)
	if err != nil {
		return "", err
	}
	pretty, err := prettyJSON([]byte(text))
	if err != nil {
		return text, nil
	}
	return pretty, nil
}

// joinSheets renders sheets with a header line before each one, in order.
func joinSheets(sheets []Sheet) string {
	var sb strings.Builder
	for _, s := range sheets {
		fmt.Fprintf(&sb, "\n=== Sheet: %s ===\n", s.Name)
		sb.WriteString(s.Text)
	}
	return sb.String()
}
