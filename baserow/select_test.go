package baserow

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestDecodeSelectOption(t *testing.T) {
	options := []SelectOption{
		{ID: 101, Value: "Open"},
		{ID: 102, Value: "Closed"},
	}

	t.Run("Accepted", func(t *testing.T) {
		testCases := []struct {
			name     string
			input    string
			expected uint64
		}{
			{"RowObject", `{"id":102,"value":"Closed","color":"red"}`, 102},
			{"ObjectWithoutID", `{"value":"Open"}`, 101},
			{"Label", `"Open"`, 101},
			{"OptionID", `101`, 101},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				got, err := DecodeSelectOption([]byte(tc.input), options)
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, got)
			})
		}
	})

	t.Run("UnknownChoicesFail", func(t *testing.T) {
		for _, input := range []string{`"Pending"`, `999`, `{"id":5,"value":"Open"}`, `null`, `-1`} {
			_, err := DecodeSelectOption([]byte(input), options)
			assert.IsError(t, err, ErrUnknownOption, "input %s", input)
		}
	})

	t.Run("LabelLookup", func(t *testing.T) {
		assert.Equal(t, "Closed", SelectOptionLabel(options, 102))
		assert.Equal(t, "", SelectOptionLabel(options, 1))
	})

	t.Run("Encode", func(t *testing.T) {
		data, err := EncodeSelectOption(101)
		assert.NoError(t, err)
		assert.Equal(t, "101", string(data))
	})
}
