package pdfinspect

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// Inspector performs deep validation of an uploaded payload by actually
// parsing it as a PDF. Suffix and base64 checks upstream are cheap but accept
// any bytes; this catches renamed or truncated files.
type Inspector struct{}

func New() Inspector {
	return Inspector{}
}

func (Inspector) Inspect(data []byte) (pages int, err error) {
	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			pages = 0
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	if len(data) == 0 {
		return 0, errors.New("empty payload")
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("parse pdf: %w", err)
	}
	pages = reader.NumPage()
	if pages < 1 {
		return 0, errors.New("pdf has no pages")
	}
	return pages, nil
}
