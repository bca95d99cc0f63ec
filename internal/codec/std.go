package codec

import "encoding/json"

// stdCodec is the encoding/json baseline every other library is compared to.
type stdCodec struct{}

func (stdCodec) Name() string { return "std" }

func (stdCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (stdCodec) Decode(data []byte) (any, error) {
	var v any
	err := json.Unmarshal(data, &v)
	return v, err
}
