// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Document is one source curriculum document as handed to the assembler:
// its filename stem and the plain text of each page in order.
type Document struct {
	// Stem is the filename without directory or extension,
	// e.g. "Social_Studies_Grade_7".
	Stem string `json:"stem" yaml:"stem"`

	// Path is the file the pages were read from.
	Path string `json:"path" yaml:"path"`

	// Pages holds the extracted text of each page; index 0 is page 1.
	Pages []string `json:"pages" yaml:"pages"`
}
