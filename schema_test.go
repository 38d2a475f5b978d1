package jsonlink_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/jsonlink"
	"go.jacobcolvin.com/jsonlink/scan"
)

func TestSchema(t *testing.T) {
	t.Parallel()

	t.Run("flat record", func(t *testing.T) {
		t.Parallel()

		s, err := jsonlink.Schema[testRecord]("https://example.com/record.json", "Record")
		require.NoError(t, err)

		assert.Equal(t, "http://json-schema.org/draft-07/schema#", s.Schema)
		assert.Equal(t, "https://example.com/record.json", s.ID)
		assert.Equal(t, "Record", s.Title)
		assert.Equal(t, "object", s.Type)

		require.Contains(t, s.Properties, "member0")
		assert.Equal(t, "string", s.Properties["member0"].Type)
		assert.Equal(t, "integer", s.Properties["member1"].Type)
		assert.Equal(t, "boolean", s.Properties["member2"].Type)

		assert.Equal(t, []string{"member0", "member1", "member2"}, s.Required)
	})

	t.Run("nullable members not required", func(t *testing.T) {
		t.Parallel()

		s, err := jsonlink.Schema[nullableRecord]("", "")
		require.NoError(t, err)

		assert.Equal(t, []string{"a"}, s.Required)
		assert.ElementsMatch(t, []string{"integer", "null"}, s.Properties["b"].Types)
	})

	t.Run("array and nested class", func(t *testing.T) {
		t.Parallel()

		s, err := jsonlink.Schema[nested]("", "")
		require.NoError(t, err)

		inner := s.Properties["inner"]
		require.NotNil(t, inner)
		assert.Equal(t, "object", inner.Type)
		assert.Equal(t, "integer", inner.Properties["a"].Type)

		as, err := jsonlink.Schema[intArrayHolder]("", "")
		require.NoError(t, err)

		arr := as.Properties["v"]
		require.NotNil(t, arr)
		assert.Equal(t, "array", arr.Type)
		assert.Equal(t, "integer", arr.Items.Type)
	})

	t.Run("key value array element shape", func(t *testing.T) {
		t.Parallel()

		s, err := jsonlink.Schema[kvHolder]("", "")
		require.NoError(t, err)

		elem := s.Properties["kv"].Items
		require.NotNil(t, elem)
		assert.Equal(t, "string", elem.Properties["key"].Type)
		assert.Equal(t, "integer", elem.Properties["value"].Type)
	})

	t.Run("date format", func(t *testing.T) {
		t.Parallel()

		s, err := jsonlink.Schema[dateHolder]("", "")
		require.NoError(t, err)

		assert.Equal(t, "date-time", s.Properties["when"].Format)
	})

	t.Run("quoted numerics are strings", func(t *testing.T) {
		t.Parallel()

		s, err := jsonlink.Schema[quotedRecord]("", "")
		require.NoError(t, err)

		assert.Equal(t, "string", s.Properties["a"].Type)
	})

	t.Run("unregistered type", func(t *testing.T) {
		t.Parallel()

		type unmapped struct{}

		_, err := jsonlink.Schema[unmapped]("", "")
		require.ErrorIs(t, err, scan.ErrContractMissing)
	})
}

func TestSchemaJSON(t *testing.T) {
	t.Parallel()

	out, err := jsonlink.SchemaJSON[counter]("https://example.com/counter.json", "Counter")
	require.NoError(t, err)

	var decoded map[string]any

	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "https://example.com/counter.json", decoded["$id"])
	assert.Equal(t, "Counter", decoded["title"])
}
