package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/niksmo/storefront/internal/adapter/httpclient"
)

const DefaultPrefix = "/api"

// A Requester is the HTTP surface the resources need.
type Requester interface {
	Get(ctx context.Context, path, query string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
	PostMultipart(
		ctx context.Context,
		path string,
		form httpclient.Multipart,
		progress func(int),
		out any,
	) error
}

// A resource is used for composition.
//
// Joins a resource path under its prefix and wraps errors with the op name.
type resource struct {
	opPrefix string
	prefix   string
	rq       Requester
}

func newResource(opPrefix, prefix string, rq Requester) resource {
	return resource{
		opPrefix: opPrefix,
		prefix:   strings.TrimRight(prefix, "/"),
		rq:       rq,
	}
}

func (r resource) path(segments ...string) string {
	var b strings.Builder
	b.WriteString(r.prefix)
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(strings.Trim(s, "/"))
	}
	return b.String()
}

func (r resource) opErr(op string, err error) error {
	return fmt.Errorf("%s.%s: %w", r.opPrefix, op, err)
}

func escape(s string) string {
	return url.PathEscape(s)
}
