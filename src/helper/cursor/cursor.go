package cursor

import (
	"encoding/base64"
	"strings"
)

// Encode builds the opaque global id of a node: base64("<typeName>:<key>").
func Encode(typeName string, key string) string {
	return base64.StdEncoding.EncodeToString([]byte(typeName + ":" + key))
}

// Decode returns the type name and local key carried by a cursor. Input
// that is not a cursor decodes to empty values; callers treat an empty key
// as a bound that matches nothing.
func Decode(value string) (typeName string, key string) {
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", ""
	}

	typeName, key, found := strings.Cut(string(raw), ":")
	if !found {
		return "", ""
	}
	return typeName, key
}

// Key is Decode without the type name.
func Key(value string) string {
	_, key := Decode(value)
	return key
}
