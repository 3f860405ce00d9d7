package schema

import "time"

const ClientEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront",
	"name": "client_event",
	"fields": [
		{"name": "kind", "type": "string"},
		{"name": "subject", "type": "string"},
		{"name": "search", "type": "string"},
		{"name": "sizes", "type": {"type": "array", "items": "string"}},
		{"name": "min_price", "type": "string"},
		{"name": "max_price", "type": "string"},
		{"name": "quantity", "type": "int"},
		{"name": "occurred_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

type ClientEventV1 struct {
	Kind       string    `avro:"kind"`
	Subject    string    `avro:"subject"`
	Search     string    `avro:"search"`
	Sizes      []string  `avro:"sizes"`
	MinPrice   string    `avro:"min_price"`
	MaxPrice   string    `avro:"max_price"`
	Quantity   int       `avro:"quantity"`
	OccurredAt time.Time `avro:"occurred_at"`
}
