package storefront

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ref is a reference to another resource. The backend sends it either as a
// bare id string or as a populated object; both decode into Ref.
type Ref struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler for Ref
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}

	// alias drops the method set so decoding does not recurse
	type ref Ref
	var obj ref
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unable to parse reference: %s", string(data))
	}
	*r = Ref(obj)
	return nil
}

// MarshalJSON implements json.Marshaler for Ref. A reference holding only
// an id is written back as the bare id.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.Name == "" && r.Email == "" {
		return json.Marshal(r.ID)
	}
	type ref Ref
	return json.Marshal(ref(r))
}

// String returns the display name when populated, otherwise the id
func (r Ref) String() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}
