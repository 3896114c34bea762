/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package httpserver

import (
	"bytes"
	"fmt"
	"strings"
)

// MultipartFile is one uploaded file extracted from a multipart/form-data
// body.
type MultipartFile struct {
	FieldName   string
	FileName    string
	ContentType string
	Content     []byte
}

// MultipartForm is the result of parsing a multipart/form-data request
// body: plain text fields and uploaded files, both keyed by field name.
type MultipartForm struct {
	Fields map[string]string
	Files  map[string]MultipartFile
}

// boundaryOf extracts the boundary token from a Content-Type header value,
// or "" when the header does not carry one.
func boundaryOf(contentType string) string {
	for _, part := range strings.Split(contentType, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "boundary=") {
			b := strings.TrimPrefix(part, "boundary=")
			return strings.Trim(b, `"`)
		}
	}
	return ""
}

// parseMultipart decodes body against the boundary declared in
// contentType. It returns an error when contentType carries no boundary.
func parseMultipart(contentType string, body []byte) (*MultipartForm, error) {
	boundary := boundaryOf(contentType)
	if boundary == "" {
		return nil, fmt.Errorf("no multipart boundary in content-type")
	}

	delim := []byte("--" + boundary)
	form := &MultipartForm{Fields: make(map[string]string), Files: make(map[string]MultipartFile)}

	parts := bytes.Split(body, delim)
	for _, part := range parts {
		part = bytes.TrimPrefix(part, []byte("\r\n"))
		part = bytes.TrimSuffix(part, []byte("\r\n"))
		if len(part) == 0 || bytes.Equal(part, []byte("--")) {
			continue
		}

		idx := bytes.Index(part, []byte("\r\n\r\n"))
		if idx < 0 {
			continue
		}
		headerSection := string(part[:idx])
		content := part[idx+4:]

		var fieldName, fileName, fieldContentType string
		for _, line := range strings.Split(headerSection, "\r\n") {
			name, value, found := strings.Cut(line, ":")
			if !found {
				continue
			}
			switch strings.ToLower(strings.TrimSpace(name)) {
			case "content-disposition":
				fieldName, fileName = parseContentDisposition(value)
			case "content-type":
				fieldContentType = strings.TrimSpace(value)
			}
		}

		if fieldName == "" {
			continue
		}
		if fileName != "" {
			form.Files[fieldName] = MultipartFile{
				FieldName:   fieldName,
				FileName:    fileName,
				ContentType: fieldContentType,
				Content:     content,
			}
		} else {
			form.Fields[fieldName] = string(content)
		}
	}

	return form, nil
}

// parseContentDisposition extracts the name and (optional) filename
// parameters of a Content-Disposition header value.
func parseContentDisposition(value string) (name, filename string) {
	for _, part := range strings.Split(value, ";") {
		part = strings.TrimSpace(part)
		if n, v, found := strings.Cut(part, "="); found {
			v = strings.Trim(v, `"`)
			switch strings.ToLower(strings.TrimSpace(n)) {
			case "name":
				name = v
			case "filename":
				filename = v
			}
		}
	}
	return name, filename
}
