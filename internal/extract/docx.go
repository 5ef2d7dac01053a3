package extract

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

const wordprocessingNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	paragraphs, err := paragraphText(doc.Editable().GetContent())
	if err != nil {
		return "", fmt.Errorf("failed to read docx body: %w", err)
	}
	return strings.TrimSpace(strings.Join(paragraphs, "\n")), nil
}

func isWordElement(name xml.Name, local string) bool {
	return name.Local == local && (name.Space == wordprocessingNS || name.Space == "w")
}

// paragraphText walks word/document.xml and returns the text of every w:p in
// document order. Runs are concatenated; w:tab and w:br become "\t" and "\n".
// A paragraph nested inside another (text boxes) is folded into its parent.
func paragraphText(content string) ([]string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))

	var (
		paragraphs []string
		current    strings.Builder
		depth      int
		inText     bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case isWordElement(t.Name, "p"):
				if depth == 0 {
					current.Reset()
				}
				depth++
			case isWordElement(t.Name, "t"):
				inText = true
			case depth > 0 && isWordElement(t.Name, "tab"):
				current.WriteByte('\t')
			case depth > 0 && (isWordElement(t.Name, "br") || isWordElement(t.Name, "cr")):
				current.WriteByte('\n')
			}
		case xml.EndElement:
			switch {
			case isWordElement(t.Name, "p") && depth > 0:
				depth--
				if depth == 0 {
					paragraphs = append(paragraphs, current.String())
				}
			case isWordElement(t.Name, "t"):
				inText = false
			}
		case xml.CharData:
			if inText && depth > 0 {
				current.Write(t)
			}
		}
	}
	return paragraphs, nil
}
