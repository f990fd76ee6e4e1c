// Package ocr turns an uploaded menu PDF into a typed menu document using
// an external vision model, with a rasterized fallback for PDFs the model
// cannot open.
package ocr

import "bytes"

var pdfMagic = []byte("%PDF-")

// IsPDF reports whether data starts with the PDF magic bytes.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic)
}
