package codec

import gojson "github.com/goccy/go-json"

type goccyCodec struct{}

func (goccyCodec) Name() string { return "goccy" }

func (goccyCodec) Encode(v any) ([]byte, error) {
	return gojson.Marshal(v)
}

func (goccyCodec) Decode(data []byte) (any, error) {
	var v any
	err := gojson.Unmarshal(data, &v)
	return v, err
}
