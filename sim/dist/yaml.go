package dist

import (
	"bytes"
	"errors"
	"io"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML replaces the spec wholesale, so a distribution given in a
// scenario file never inherits parameters from a default it overrides.
// Unknown keys are rejected.
func (s *DistSpec) UnmarshalYAML(value *yaml.Node) error {
	type plain DistSpec
	var p plain
	if err := DecodeStrict(value, &p); err != nil {
		return err
	}
	*s = DistSpec(p)
	return nil
}

// DecodeStrict decodes node into v with unknown-field checking. yaml.Node's
// own Decode has no strict mode, so the node is re-encoded and run through a
// KnownFields decoder.
func DecodeStrict(node *yaml.Node, v any) error {
	raw, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
