package baserow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// SelectOption is one declared choice of a single or multiple select field.
type SelectOption struct {
	ID    uint64
	Value string
}

// DecodeSelectOption resolves a select cell against the declared options.
// Baserow returns selects as {"id":..,"value":..,"color":..} objects; a bare
// label or a bare option id are accepted as well. A choice that is not
// declared is ErrUnknownOption.
func DecodeSelectOption(data []byte, options []SelectOption) (uint64, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || isNull(data) {
		return 0, fmt.Errorf("%w: empty value", ErrUnknownOption)
	}

	switch data[0] {
	case '{':
		var obj struct {
			ID    *uint64 `json:"id"`
			Value string  `json:"value"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return 0, err
		}
		if obj.ID != nil {
			return lookupOptionID(options, *obj.ID)
		}
		return lookupOptionLabel(options, obj.Value)
	case '"':
		var label string
		if err := json.Unmarshal(data, &label); err != nil {
			return 0, err
		}
		return lookupOptionLabel(options, label)
	default:
		id, err := strconv.ParseUint(string(data), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", ErrUnknownOption, data)
		}
		return lookupOptionID(options, id)
	}
}

// EncodeSelectOption writes an option the way the row endpoints accept it.
func EncodeSelectOption(id uint64) ([]byte, error) {
	return strconv.AppendUint(nil, id, 10), nil
}

// SelectOptionLabel returns the declared label for id, or "" when unknown.
func SelectOptionLabel(options []SelectOption, id uint64) string {
	for _, o := range options {
		if o.ID == id {
			return o.Value
		}
	}
	return ""
}

func lookupOptionID(options []SelectOption, id uint64) (uint64, error) {
	for _, o := range options {
		if o.ID == id {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: id %d", ErrUnknownOption, id)
}

func lookupOptionLabel(options []SelectOption, label string) (uint64, error) {
	for _, o := range options {
		if o.Value == label {
			return o.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOption, label)
}
