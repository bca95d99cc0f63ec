package codec

import "github.com/bytedance/sonic"

// sonicCodec uses sonic's std-compatible config (sorted keys, HTML escaping)
// so its output is comparable with encoding/json.
type sonicCodec struct{}

func (sonicCodec) Name() string { return "sonic" }

func (sonicCodec) Encode(v any) ([]byte, error) {
	return sonic.ConfigStd.Marshal(v)
}

func (sonicCodec) Decode(data []byte) (any, error) {
	var v any
	err := sonic.ConfigStd.Unmarshal(data, &v)
	return v, err
}
