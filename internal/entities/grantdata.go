package entities

import (
	"encoding/base64"

	"github.com/klauspost/compress/zstd"
)

var enc, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
var dec, _ = zstd.NewReader(nil)

// encodeGrantData compresses and base64-url encodes the opaque grant payload.
// Serialized grants (reference tokens, consent records) are verbose JSON from
// the protocol layer; compressing them keeps documents well under item-size
// limits.
func encodeGrantData(data string) string {
	b := enc.EncodeAll([]byte(data), make([]byte, 0, len(data)))
	return base64.RawURLEncoding.EncodeToString(b)
}

// decodeGrantData reverses encodeGrantData.
func decodeGrantData(in string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(in)
	if err != nil {
		return "", err
	}
	out, err := dec.DecodeAll(b, nil)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
