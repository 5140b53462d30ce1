package config

// SensitiveString is a string whose value must never appear in logs or
// serialized output. Formatting verbs render a redaction marker; callers use
// Value() to read the underlying secret.
type SensitiveString string

const redacted = "[REDACTED]"

func (s SensitiveString) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

// Value returns the underlying secret.
func (s SensitiveString) Value() string {
	return string(s)
}

// MarshalJSON redacts the value in JSON output.
func (s SensitiveString) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte(`""`), nil
	}
	return []byte(`"` + redacted + `"`), nil
}
