package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/textproto"
	"strings"
)

type (
	Multipart struct {
		Fields []Field
		Files  []File
	}

	Field struct {
		Name  string
		Value string
	}

	File struct {
		Field       string
		Name        string
		ContentType string
		Content     io.Reader
	}
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (m Multipart) encode() (*bytes.Buffer, string, error) {
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)

	for _, f := range m.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", err
		}
	}

	for _, f := range m.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(
			`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(f.Field), quoteEscaper.Replace(f.Name),
		))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if f.Content != nil {
			if _, err := io.Copy(part, f.Content); err != nil {
				return nil, "", err
			}
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}

// A progressReader reports rounded loaded/total percentages as they change.
type progressReader struct {
	r      io.Reader
	total  int64
	loaded int64
	last   int
	fn     func(int)
}

func newProgressReader(r io.Reader, total int64, fn func(int)) *progressReader {
	return &progressReader{r: r, total: total, last: -1, fn: fn}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.total > 0 {
		p.loaded += int64(n)
		pct := Percent(p.loaded, p.total)
		if pct != p.last {
			p.last = pct
			p.fn(pct)
		}
	}
	return n, err
}

// Percent returns round(loaded*100/total) clamped to 0..100.
func Percent(loaded, total int64) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(loaded) * 100 / float64(total)))
	return max(0, min(100, pct))
}
