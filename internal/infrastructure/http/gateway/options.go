package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

// Options describes a single backend call. At most one of JSON, Body and
// Multipart may be set.
type Options struct {
	// Method defaults to GET
	Method string
	// Header is overlaid on the default headers; caller values win
	Header http.Header
	// JSON is marshalled by the gateway
	JSON any
	// Body is an already serialized JSON payload
	Body []byte
	// Multipart sends a multipart/form-data body
	Multipart *MultipartBody
}

var errConflictingBodies = errors.New("gateway: only one of JSON, Body and Multipart may be set")

func (o Options) method() string {
	if o.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(o.Method)
}

// encode returns the request payload and, for multipart bodies, the content
// type carrying the boundary.
func (o Options) encode() ([]byte, string, error) {
	set := 0
	for _, present := range []bool{o.JSON != nil, o.Body != nil, o.Multipart != nil} {
		if present {
			set++
		}
	}
	if set > 1 {
		return nil, "", errConflictingBodies
	}

	switch {
	case o.Multipart != nil:
		return o.Multipart.encode()
	case o.Body != nil:
		return o.Body, "", nil
	case o.JSON != nil:
		data, err := json.Marshal(o.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal request: %w", err)
		}
		return data, "", nil
	default:
		return nil, "", nil
	}
}

// FormField is a plain text multipart field
type FormField struct {
	Name  string
	Value string
}

// FilePart is a file attached to a multipart body
type FilePart struct {
	Field       string
	FileName    string
	ContentType string
	Data        []byte
}

// MultipartBody is an ordered multipart/form-data payload
type MultipartBody struct {
	Fields []FormField
	Files  []FilePart
}

// AddField appends a text field
func (m *MultipartBody) AddField(name, value string) *MultipartBody {
	m.Fields = append(m.Fields, FormField{Name: name, Value: value})
	return m
}

// AddFile appends a file part
func (m *MultipartBody) AddFile(part FilePart) *MultipartBody {
	m.Files = append(m.Files, part)
	return m
}

func (m *MultipartBody) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range m.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", f.Name, err)
		}
	}

	for _, f := range m.Files {
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.FileName))
		h.Set("Content-Type", contentType)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("failed to write form file %s: %w", f.Field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}
