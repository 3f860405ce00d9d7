package query

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// Map keys are sorted, so equal values always encode the same way.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// A Key identifies a cache entry: a resource name plus every parameter that
// shapes the payload.
type Key struct {
	resource string
	hash     string
}

// NewKey canonicalizes params by value; pointers are followed, so two filters
// with equal fields produce equal keys.
//
// Params must be JSON encodable. NaN and infinite floats are not, and get a
// key that is not stable across calls.
func NewKey(resource string, params ...any) Key {
	if params == nil {
		params = []any{}
	}
	b, err := json.Marshal(params)
	if err != nil {
		b = fmt.Appendf(nil, "%#v", params)
	}
	return Key{
		resource: resource,
		hash:     resource + ":" + string(b),
	}
}

func (k Key) Resource() string {
	return k.resource
}

func (k Key) String() string {
	return k.hash
}
