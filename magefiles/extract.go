//go:build mage

package main

// Extract runs the batch extraction over "cbc pdfs" into data/curriculum.db.
func Extract() error {
	return runCLI("extract", "--batch")
}

// Review lists the records that still need manual attention.
func Review() error {
	return runCLI("review")
}
