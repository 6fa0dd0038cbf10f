// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PdfcpuConverter decodes text-showing operators from each page's content
// stream with pdfcpu. It handles simple-font PDFs better than the native
// backend on some KICD documents, and loses text drawn with Type0 fonts.
type PdfcpuConverter struct{}

// Pages returns the decoded text of every page.
func (PdfcpuConverter) Pages(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read %s: %w", path, err)
	}
	if ctx.PageCount == 0 {
		return nil, fmt.Errorf("pdf %s has no pages", path)
	}

	pages := make([]string, ctx.PageCount)
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil || r == nil {
			slog.Debug("skipping page without content", "path", path, "page", pageNr, "error", err)
			continue
		}
		data, err := io.ReadAll(r)
		if err != nil {
			slog.Debug("skipping unreadable page", "path", path, "page", pageNr, "error", err)
			continue
		}
		pages[pageNr-1] = decodeContentStream(data)
	}
	return pages, nil
}

var (
	// textOpRe matches the content-stream operators that show or position
	// text: TJ arrays, Tj and ' strings, Td/TD moves, and T*.
	textOpRe = regexp.MustCompile(`\[((?:\\.|[^\]\\])*)\]\s*TJ|\(((?:\\.|[^)\\])*)\)\s*(Tj|')|(-?[\d.]+)\s+(-?[\d.]+)\s+T[dD]\b|T\*`)

	pdfStringRe = regexp.MustCompile(`\(((?:\\.|[^)\\])*)\)`)
)

// decodeContentStream rebuilds page text from content-stream operators.
// Vertical moves become newlines so the page keeps its line structure.
func decodeContentStream(data []byte) string {
	var sb strings.Builder
	newline := func() {
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
	}

	for _, m := range textOpRe.FindAllSubmatch(data, -1) {
		switch {
		case m[1] != nil:
			for _, s := range pdfStringRe.FindAllSubmatch(m[1], -1) {
				sb.WriteString(unescapePDFString(s[1]))
			}
		case m[3] != nil:
			if string(m[3]) == "'" {
				newline()
			}
			sb.WriteString(unescapePDFString(m[2]))
		case m[5] != nil:
			if ty, err := strconv.ParseFloat(string(m[5]), 64); err == nil && ty != 0 {
				newline()
			} else if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
		default:
			newline()
		}
	}
	return sb.String()
}

// unescapePDFString resolves backslash escapes in a literal string.
func unescapePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 == len(raw) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch c = raw[i]; c {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'b', 'f':
		case '\n':
			// line continuation
		default:
			if c < '0' || c > '7' {
				sb.WriteByte(c)
				continue
			}
			val := int(c - '0')
			for k := 0; k < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; k++ {
				i++
				val = val*8 + int(raw[i]-'0')
			}
			sb.WriteByte(byte(val))
		}
	}
	return sb.String()
}
