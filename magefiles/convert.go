//go:build mage

package main

// Convert dumps every PDF in "cbc pdfs" to form-feed separated page files
// under pages/ for inspection.
func Convert() error {
	return runCLI("convert", "--batch")
}
