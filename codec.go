package ripple

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/zoobzio/capitan"
	"gopkg.in/yaml.v3"
)

// Codec defines the deserialization contract used by Decode.
// Implement this interface to use alternative formats like TOML or HCL.
type Codec interface {
	// Unmarshal deserializes bytes into a value.
	Unmarshal(data []byte, v any) error

	// ContentType returns the MIME type for observability and debugging.
	ContentType() string
}

// JSONCodec implements Codec using encoding/json.
type JSONCodec struct{}

// Unmarshal deserializes JSON bytes into v.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// ContentType returns the JSON MIME type.
func (JSONCodec) ContentType() string {
	return "application/json"
}

var _ Codec = JSONCodec{}

// YAMLCodec implements Codec using gopkg.in/yaml.v3.
type YAMLCodec struct{}

// Unmarshal deserializes YAML bytes into v.
func (YAMLCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// ContentType returns the YAML MIME type.
func (YAMLCodec) ContentType() string {
	return "application/x-yaml"
}

var _ Codec = YAMLCodec{}

// AutoCodec detects the format from content. Payloads whose first
// non-space byte opens a JSON object or array are decoded as JSON;
// everything else is decoded as YAML.
type AutoCodec struct{}

// Unmarshal deserializes JSON or YAML bytes into v.
func (AutoCodec) Unmarshal(data []byte, v any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return json.Unmarshal(data, v)
	}
	return yaml.Unmarshal(data, v)
}

// ContentType reports the detection mode rather than a concrete MIME type.
func (AutoCodec) ContentType() string {
	return "auto"
}

var _ Codec = AutoCodec{}

// Decode unmarshals each successful payload into a fresh T.
// Upstream failures pass through unchanged; payloads that fail to unmarshal
// become failures and emit DecodeFailed.
//
// Example:
//
//	configs := ripple.Decode[Config](ripple.FromWatcher(w), ripple.YAMLCodec{})
func Decode[T any](o Observable[Result[[]byte]], codec Codec) Observable[Result[T]] {
	if codec == nil {
		codec = JSONCodec{}
	}

	return Map(o, func(r Result[[]byte]) Result[T] {
		raw, err := r.Get()
		if err != nil {
			return Failure[T](err)
		}

		var v T
		if err := codec.Unmarshal(raw, &v); err != nil {
			capitan.Emit(context.Background(), DecodeFailed,
				KeyContentType.Field(codec.ContentType()),
				KeyError.Field(err.Error()),
			)
			return Failure[T](fmt.Errorf("decode %s: %w", codec.ContentType(), err))
		}
		return Success(v)
	})
}
