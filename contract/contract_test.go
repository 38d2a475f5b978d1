package contract_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/jsonlink/contract"
	"go.jacobcolvin.com/jsonlink/scan"
)

type widget struct {
	Name string
}

func widgetContract() *contract.Contract {
	return &contract.Contract{
		Members: []contract.Member{
			contract.String("name"),
		},
		New: func(vs []any) (any, error) {
			return widget{Name: vs[0].(string)}, nil
		},
		Data: func(v any) []any {
			return []any{v.(widget).Name}
		},
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("lookup after register", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, contract.Register[widget](widgetContract()))

		c, err := contract.For[widget]()
		require.NoError(t, err)
		assert.Len(t, c.Members, 1)

		c, err = contract.Lookup(reflect.TypeFor[widget]())
		require.NoError(t, err)
		assert.Len(t, c.Members, 1)
	})

	t.Run("duplicate registration", func(t *testing.T) {
		t.Parallel()

		type once struct{}

		c := &contract.Contract{
			New:  func(_ []any) (any, error) { return once{}, nil },
			Data: func(_ any) []any { return nil },
		}

		require.NoError(t, contract.Register[once](c))
		require.ErrorIs(t, contract.Register[once](c), scan.ErrContractMissing)
	})

	t.Run("duplicate member names rejected", func(t *testing.T) {
		t.Parallel()

		type dup struct{}

		err := contract.Register[dup](&contract.Contract{
			Members: []contract.Member{
				contract.Int("a"),
				contract.Bool("a"),
			},
			New:  func(_ []any) (any, error) { return dup{}, nil },
			Data: func(_ any) []any { return nil },
		})
		require.ErrorIs(t, err, scan.ErrContractMissing)
		assert.ErrorContains(t, err, `"a"`)
	})

	t.Run("unnamed member rejected", func(t *testing.T) {
		t.Parallel()

		type unnamed struct{}

		err := contract.Register[unnamed](&contract.Contract{
			Members: []contract.Member{
				contract.Int(""),
			},
			New:  func(_ []any) (any, error) { return unnamed{}, nil },
			Data: func(_ any) []any { return nil },
		})
		require.ErrorIs(t, err, scan.ErrContractMissing)
	})

	t.Run("missing constructor rejected", func(t *testing.T) {
		t.Parallel()

		type hollow struct{}

		err := contract.Register[hollow](&contract.Contract{
			Data: func(_ any) []any { return nil },
		})
		require.ErrorIs(t, err, scan.ErrContractMissing)
	})

	t.Run("lookup unmapped type names it", func(t *testing.T) {
		t.Parallel()

		type stranger struct{}

		_, err := contract.For[stranger]()
		require.ErrorIs(t, err, scan.ErrContractMissing)
		assert.ErrorContains(t, err, "stranger")
	})
}

func TestMappingOptions(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		m := contract.IntElem()

		assert.Equal(t, contract.KindInt, m.Kind)
		assert.Equal(t, 64, m.Bits)
		assert.False(t, m.Nullable())
		assert.False(t, m.RangeCheck)
		assert.Equal(t, contract.Never, m.AsString)
	})

	t.Run("nullable", func(t *testing.T) {
		t.Parallel()

		m := contract.StringElem(contract.Nullable())

		assert.True(t, m.Nullable())
		assert.Nil(t, m.NullValue())
	})

	t.Run("default value", func(t *testing.T) {
		t.Parallel()

		m := contract.StringElem(contract.WithDefault(func() any { return "d" }))

		assert.True(t, m.Nullable())
		assert.Equal(t, "d", m.NullValue())
	})

	t.Run("width and range check", func(t *testing.T) {
		t.Parallel()

		m := contract.UintElem(contract.Bits(8), contract.RangeChecked())

		assert.Equal(t, 8, m.Bits)
		assert.True(t, m.RangeCheck)
	})
}
