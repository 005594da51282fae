package animation

import (
	"encoding/json"
	"fmt"
)

type propertyValueJSON struct {
	Type  string    `json:"type"`
	Value []float64 `json:"value"`
}

func (v PropertyValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(propertyValueJSON{Type: v.typ.String(), Value: v.Fields()})
}

func (v *PropertyValue) UnmarshalJSON(data []byte) error {
	var raw propertyValueJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	t, err := ParsePropertyType(raw.Type)
	if err != nil {
		return err
	}
	if len(raw.Value) != t.NumFields() {
		return fmt.Errorf("%s value has %d fields, want %d", t, len(raw.Value), t.NumFields())
	}

	parsed, err := FromFields(t, FieldsOf(raw.Value))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
