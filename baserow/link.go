package baserow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// LinkRow is one entry of a link_row cell. Baserow reads links as
// {"id":..,"value":..} objects but only accepts row ids on write, so Value
// is informational and is not sent back.
type LinkRow struct {
	ID    uint64 `json:"id"`
	Value any    `json:"value,omitempty"`
}

func (l LinkRow) MarshalJSON() ([]byte, error) {
	return strconv.AppendUint(nil, l.ID, 10), nil
}

func (l *LinkRow) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			ID    uint64 `json:"id"`
			Value any    `json:"value"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*l = LinkRow{ID: obj.ID, Value: obj.Value}
		return nil
	}

	id, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("baserow: invalid linked row %s", data)
	}
	*l = LinkRow{ID: id}
	return nil
}
