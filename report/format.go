package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Format selects the artifact encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgPack Format = "msgpack"
)

// ParseFormat accepts "json" (also the empty string) and "msgpack".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return FormatJSON, nil
	case "msgpack", "messagepack":
		return FormatMsgPack, nil
	default:
		return "", fmt.Errorf("unknown artifact format %q", name)
	}
}

// Extension returns the file extension for f.
func (f Format) Extension() string {
	switch f {
	case FormatMsgPack:
		return "msgpack"
	default:
		return "json"
	}
}

// Encode writes v to w in format f.
func (f Format) Encode(w io.Writer, v any) error {
	switch f {
	case FormatMsgPack:
		return msgpack.NewEncoder(w).Encode(v)
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown artifact format %q", string(f))
	}
}

// Decode reads an artifact written by Encode.
func (f Format) Decode(r io.Reader, v any) error {
	switch f {
	case FormatMsgPack:
		return msgpack.NewDecoder(r).Decode(v)
	case FormatJSON, "":
		return json.NewDecoder(r).Decode(v)
	default:
		return fmt.Errorf("unknown artifact format %q", string(f))
	}
}
