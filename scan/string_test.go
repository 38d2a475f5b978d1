package scan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/jsonlink/scan"
)

func TestString(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input   string
		want    string
		wantErr error
	}{
		"plain": {
			input: `"hello world"`,
			want:  "hello world",
		},
		"empty": {
			input: `""`,
			want:  "",
		},
		"simple escapes": {
			input: `"a\"b\\c\/d\be\ff\ng\rh\ti"`,
			want:  "a\"b\\c/d\be\ff\ng\rh\ti",
		},
		"unicode escape": {
			input: `"caf\u00e9"`,
			want:  "café",
		},
		"surrogate pair": {
			input: `"\uD83D\uDE49"`,
			want:  "\U0001F649",
		},
		"lone high surrogate": {
			input:   `"\uD83D"`,
			wantErr: scan.ErrInvalidUTF8,
		},
		"lone low surrogate": {
			input:   `"\uDE49"`,
			wantErr: scan.ErrInvalidUTF8,
		},
		"unknown escape": {
			input:   `"\q"`,
			wantErr: scan.ErrInvalidEscape,
		},
		"truncated unicode escape": {
			input:   `"\u12"`,
			wantErr: scan.ErrInvalidEscape,
		},
		"bad hex digit": {
			input:   `"\u12zz"`,
			wantErr: scan.ErrInvalidEscape,
		},
		"unterminated": {
			input:   `"abc`,
			wantErr: scan.ErrUnexpectedEndOfInput,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cur := scan.NewCursor([]byte(tc.input), scan.Checked)

			got, err := cur.String()
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.True(t, cur.IsExhausted())
		})
	}
}

func TestStringBytes(t *testing.T) {
	t.Parallel()

	t.Run("no escapes reports zero-copy slice", func(t *testing.T) {
		t.Parallel()

		input := []byte(`"plain text" tail`)
		cur := scan.NewCursor(input, scan.Checked)

		raw, escaped, err := cur.StringBytes()
		require.NoError(t, err)

		assert.False(t, escaped)
		assert.Equal(t, "plain text", string(raw))

		// The slice borrows from the input.
		assert.Equal(t, &input[1], &raw[0])
	})

	t.Run("escapes detected without decoding", func(t *testing.T) {
		t.Parallel()

		cur := scan.NewCursor([]byte(`"a\nb"`), scan.Checked)

		raw, escaped, err := cur.StringBytes()
		require.NoError(t, err)

		assert.True(t, escaped)
		assert.Equal(t, `a\nb`, string(raw))
	})
}
