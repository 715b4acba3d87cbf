// Package layout reads NDL OCR XML into fragments in physical reading
// order: page crops right before left and top before bottom, columns
// right to left, lines top to bottom inside a column.
package layout

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Line is one OCR line with its bounding box.
type Line struct {
	Text string
	X, Y int
	W, H int
}

type ndlLine struct {
	String string `xml:"STRING,attr"`
	X      string `xml:"X,attr"`
	Y      string `xml:"Y,attr"`
	Width  string `xml:"WIDTH,attr"`
	Height string `xml:"HEIGHT,attr"`
	Text   string `xml:",chardata"`
}

type altoString struct {
	Content string `xml:"CONTENT,attr"`
	HPos    string `xml:"HPOS,attr"`
	VPos    string `xml:"VPOS,attr"`
	Width   string `xml:"WIDTH,attr"`
	Height  string `xml:"HEIGHT,attr"`
}

// ParseXML collects the lines of every PAGE element keyed by its
// IMAGENAME. NDL LINE elements are preferred; a page without any falls
// back to ALTO String elements. Lines whose coordinates do not parse are
// skipped.
func ParseXML(r io.Reader) (map[string][]Line, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false

	pages := make(map[string][]Line)
	var (
		inPage    bool
		image     string
		lines     []Line
		altoLines []Line
		pageDepth int
		depth     int
	)

	flush := func() {
		if len(lines) == 0 {
			lines = altoLines
		}
		if len(lines) > 0 {
			pages[image] = append(pages[image], lines...)
		}
		lines, altoLines = nil, nil
		inPage = false
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode xml: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			depth++
			switch {
			case el.Name.Local == "PAGE" && !inPage:
				inPage = true
				pageDepth = depth
				image = attr(el, "IMAGENAME")
				if image == "" {
					image = "unknown"
				}
			case el.Name.Local == "LINE" && inPage:
				var nl ndlLine
				if err := dec.DecodeElement(&nl, &el); err != nil {
					return nil, fmt.Errorf("decode LINE: %w", err)
				}
				depth--
				text := nl.String
				if text == "" {
					text = nl.Text
				}
				if l, ok := newLine(text, nl.X, nl.Y, nl.Width, nl.Height); ok {
					lines = append(lines, l)
				}
			case el.Name.Local == "String" && inPage:
				var as altoString
				if err := dec.DecodeElement(&as, &el); err != nil {
					return nil, fmt.Errorf("decode String: %w", err)
				}
				depth--
				if l, ok := newLine(as.Content, as.HPos, as.VPos, as.Width, as.Height); ok {
					altoLines = append(altoLines, l)
				}
			}
		case xml.EndElement:
			if inPage && depth == pageDepth && el.Name.Local == "PAGE" {
				flush()
			}
			depth--
		}
	}
	if inPage {
		flush()
	}
	return pages, nil
}

func newLine(text, x, y, w, h string) (Line, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Line{}, false
	}
	var l Line
	l.Text = text
	for _, f := range []struct {
		raw string
		dst *int
	}{{x, &l.X}, {y, &l.Y}, {w, &l.W}, {h, &l.H}} {
		if f.raw == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(f.raw))
		if err != nil {
			return Line{}, false
		}
		*f.dst = n
	}
	return l, true
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
