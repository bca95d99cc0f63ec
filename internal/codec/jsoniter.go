package codec

import jsoniter "github.com/json-iterator/go"

// jsoniterCodec wraps a frozen json-iterator configuration.
// The "fast" variant skips HTML escaping and truncates floats to six decimal
// places. Both variants sort map keys so every trial encodes the same bytes.
type jsoniterCodec struct {
	name string
	api  jsoniter.API
}

// fastestAPI is jsoniter.ConfigFastest with map key sorting turned back on.
var fastestAPI = jsoniter.Config{
	EscapeHTML:                    false,
	MarshalFloatWith6Digits:       true,
	ObjectFieldMustBeSimpleString: true,
	SortMapKeys:                   true,
}.Froze()

func newJSONIter(name string, fastest bool) jsoniterCodec {
	api := jsoniter.ConfigCompatibleWithStandardLibrary
	if fastest {
		api = fastestAPI
	}
	return jsoniterCodec{name: name, api: api}
}

func (c jsoniterCodec) Name() string { return c.name }

func (c jsoniterCodec) Encode(v any) ([]byte, error) {
	return c.api.Marshal(v)
}

func (c jsoniterCodec) Decode(data []byte) (any, error) {
	var v any
	err := c.api.Unmarshal(data, &v)
	return v, err
}
