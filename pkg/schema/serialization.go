package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MarshalJSON serializes the signature as a list of "name:type" strings.
func (s Signature) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}

	raw := make([]string, len(s))
	for i, p := range s {
		if p.Type == nil {
			return nil, fmt.Errorf("param %s: type is nil", p.Name)
		}
		raw[i] = p.Name + ":" + p.Type.Name()
	}

	return json.Marshal(raw)
}

// UnmarshalJSON deserializes the signature from a list of "name:type" strings.
func (s *Signature) UnmarshalJSON(data []byte) error {
	if s == nil {
		return fmt.Errorf("schema: UnmarshalJSON on nil pointer")
	}

	if string(data) == "null" {
		*s = nil
		return nil
	}

	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed, err := ParseSignature(strings.Join(raw, " "))
	if err != nil {
		return err
	}

	*s = parsed
	return nil
}

// ParseSignature parses a whitespace separated parameter list such as
// "?v:symbol ?q1:conf ?t:trajectory ?q2:conf". A parameter without a type is "any".
func ParseSignature(src string) (Signature, error) {
	fields := strings.Fields(src)
	sig := make(Signature, 0, len(fields))
	for _, f := range fields {
		name, typeStr, _ := strings.Cut(f, ":")
		t, err := ParseType(typeStr)
		if err != nil {
			return nil, fmt.Errorf("param %s: %w", name, err)
		}
		sig = append(sig, Arg(name, t))
	}
	return sig, nil
}
