package api

import "github.com/goccy/go-json"

// Body is a response payload exactly as the server sent it.
type Body []byte

// Decode unmarshals a JSON body into v.
func (b Body) Decode(v interface{}) error {
	return json.Unmarshal(b, v)
}

func (b Body) String() string {
	return string(b)
}
