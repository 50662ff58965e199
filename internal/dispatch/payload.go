package dispatch

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

const contentTypeJSON = "application/json"

// Payload is a request body together with the content type it announces
type Payload struct {
	data        []byte
	contentType string
}

// JSONPayload wraps an already-encoded JSON document.
// It is sent with Content-Type: application/json.
func JSONPayload(s string) *Payload {
	return &Payload{data: []byte(s), contentType: contentTypeJSON}
}

// ContentType returns the Content-Type header value sent with the payload
func (p *Payload) ContentType() string {
	return p.contentType
}

func (p *Payload) reader() io.Reader {
	return bytes.NewReader(p.data)
}

// Form builds a multipart/form-data payload
type Form struct {
	buf bytes.Buffer
	w   *multipart.Writer
}

// NewForm starts an empty multipart form
func NewForm() *Form {
	f := &Form{}
	f.w = multipart.NewWriter(&f.buf)
	return f
}

// Field adds a plain form field
func (f *Form) Field(name, value string) error {
	if err := f.w.WriteField(name, value); err != nil {
		return fmt.Errorf("failed to write form field %s: %w", name, err)
	}
	return nil
}

// File adds a file part read from r
func (f *Form) File(field, filename string, r io.Reader) error {
	part, err := f.w.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("failed to create form file %s: %w", field, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("failed to copy form file %s: %w", field, err)
	}
	return nil
}

// Payload finishes the form. The content type carries the multipart boundary.
func (f *Form) Payload() (*Payload, error) {
	if err := f.w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart form: %w", err)
	}
	return &Payload{data: f.buf.Bytes(), contentType: f.w.FormDataContentType()}, nil
}
