package storage

import (
	"errors"
	"time"

	json "github.com/goccy/go-json"
)

// record is the envelope every value is written in.
type record struct {
	Data          json.RawMessage `json:"data"`
	SchemaVersion int             `json:"schemaVersion"`
	WrittenAt     time.Time       `json:"writtenAt"`
}

// Decoded is the outcome of reading a stored string: Current, LegacyV0 or Unparseable.
type Decoded interface {
	decoded()
}

// Current is a value in the present envelope shape. Its SchemaVersion may
// still differ from the store's version.
type Current struct {
	Data          json.RawMessage
	SchemaVersion int
	WrittenAt     time.Time
}

// LegacyV0 is the earlier {data, metadata: {version, updatedAt}} envelope.
type LegacyV0 struct {
	Data      json.RawMessage
	Version   int
	UpdatedAt string
}

// Unparseable is anything that matched no known envelope.
type Unparseable struct {
	Raw string
	Err error
}

func (Current) decoded()     {}
func (LegacyV0) decoded()    {}
func (Unparseable) decoded() {}

var errNoEnvelope = errors.New("no envelope fields")

type decoder func(raw []byte) (Decoded, error)

var decoders = []decoder{decodeCurrent, decodeLegacyV0}

// Decode tries the current envelope first and then each legacy shape in turn.
func Decode(raw string) Decoded {
	var lastErr error
	for _, dec := range decoders {
		d, err := dec([]byte(raw))
		if err == nil {
			return d
		}
		lastErr = err
	}
	return Unparseable{Raw: raw, Err: lastErr}
}

func decodeCurrent(raw []byte) (Decoded, error) {
	var probe struct {
		Data          json.RawMessage `json:"data"`
		SchemaVersion *int            `json:"schemaVersion"`
		WrittenAt     time.Time       `json:"writtenAt"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}
	if probe.SchemaVersion == nil || len(probe.Data) == 0 {
		return nil, errNoEnvelope
	}
	return Current{Data: probe.Data, SchemaVersion: *probe.SchemaVersion, WrittenAt: probe.WrittenAt}, nil
}

func decodeLegacyV0(raw []byte) (Decoded, error) {
	var probe struct {
		Data     json.RawMessage `json:"data"`
		Metadata *struct {
			Version   *int   `json:"version"`
			UpdatedAt string `json:"updatedAt"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}
	if probe.Metadata == nil || probe.Metadata.Version == nil || len(probe.Data) == 0 {
		return nil, errNoEnvelope
	}
	return LegacyV0{Data: probe.Data, Version: *probe.Metadata.Version, UpdatedAt: probe.Metadata.UpdatedAt}, nil
}
