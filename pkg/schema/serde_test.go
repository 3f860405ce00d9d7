package schema_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/storefront/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSchemaIdentifier struct {
	mock.Mock
}

func (c *MockSchemaIdentifier) DetermineID(
	ctx context.Context, subject string, avroSchemaText string,
) (id int, err error) {
	args := c.Called(ctx, subject, avroSchemaText)
	return args.Int(0), args.Error(1)
}

func TestSerdeClientEventV1(t *testing.T) {
	const subject = "storefront-client-events-value"

	t.Run("NoOpts", func(t *testing.T) {
		_, err := schema.NewSerdeClientEventV1(t.Context())
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("OneOpt", func(t *testing.T) {
		_, err := schema.NewSerdeClientEventV1(
			t.Context(),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("RegistryFailure", func(t *testing.T) {
		registryErr := errors.New("registry is unavailable")
		schemaIdentifier := new(MockSchemaIdentifier)
		schemaIdentifier.On(
			"DetermineID", t.Context(), subject, schema.ClientEventSchemaTextV1,
		).Return(0, registryErr)

		_, err := schema.NewSerdeClientEventV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(schemaIdentifier),
		)
		require.ErrorIs(t, err, registryErr)
	})

	t.Run("EncodeDecode", func(t *testing.T) {
		schemaIdentifier := new(MockSchemaIdentifier)
		schemaIdentifier.On(
			"DetermineID", t.Context(), subject, schema.ClientEventSchemaTextV1,
		).Return(7, nil)

		serde, err := schema.NewSerdeClientEventV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(schemaIdentifier),
		)
		require.NoError(t, err)
		schemaIdentifier.AssertExpectations(t)

		in := schema.ClientEventV1{
			Kind:       "search",
			Search:     "tee",
			Sizes:      []string{"S", "M"},
			MinPrice:   "10",
			OccurredAt: time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC),
		}

		data, err := serde.Encode(in)
		require.NoError(t, err)
		require.Greater(t, len(data), 5)
		assert.Equal(t, byte(0), data[0], "confluent wire format magic byte")

		var out schema.ClientEventV1
		require.NoError(t, serde.Decode(data, &out))
		assert.Equal(t, in.Kind, out.Kind)
		assert.Equal(t, in.Search, out.Search)
		assert.Equal(t, in.Sizes, out.Sizes)
		assert.Equal(t, in.MinPrice, out.MinPrice)
		assert.Empty(t, out.MaxPrice)
		assert.True(t, in.OccurredAt.Equal(out.OccurredAt))
	})
}
