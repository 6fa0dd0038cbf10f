// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pdiddy/curriculum-engine/internal/container"
)

const imagePoppler = "poppler:latest"

// pdftotextArgs reads the PDF from stdin and writes layout-preserving text,
// one form feed after each page, to stdout.
var pdftotextArgs = []string{"pdftotext", "-layout", "-enc", "UTF-8", "-", "-"}

// PdftotextConverter runs poppler's pdftotext inside a container. It
// depends on a container.Runtime (docker or podman) injected at
// construction time.
type PdftotextConverter struct {
	runtime container.Runtime
}

// NewPdftotextConverter verifies that the poppler image exists locally
// before returning.
func NewPdftotextConverter(rt container.Runtime) (*PdftotextConverter, error) {
	if err := rt.ImageExists(imagePoppler); err != nil {
		return nil, fmt.Errorf("poppler image not available in %s: %w", rt.Name(), err)
	}
	return &PdftotextConverter{runtime: rt}, nil
}

// Pages pipes the PDF through pdftotext and splits the output on form feeds.
func (p *PdftotextConverter) Pages(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := p.runtime.Run(imagePoppler, pdftotextArgs, f, &out); err != nil {
		return nil, fmt.Errorf("converting %s with pdftotext: %w", path, err)
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("pdftotext produced empty output for %s", path)
	}
	return splitPages(out.String()), nil
}
