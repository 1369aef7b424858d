package log

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// tlogEncMode is the CBOR encoder mode for .tlog event records.
// Canonical sorting keeps records deterministic, and RFC3339Nano
// timestamps preserve the sub-millisecond spacing between packet
// events that frame-rate analysis needs.
var tlogEncMode cbor.EncMode

// tlogDecMode is the matching decoder mode. It is deliberately
// lenient: a .tlog written by a newer revision should still read.
var tlogDecMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	tlogEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create tlog CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	tlogDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create tlog CBOR decoder mode: %v", err))
	}
}

// EncodeEvent encodes one event to CBOR bytes. The Event struct's
// integer keys keep records compact enough to log every packet of a
// running wall.
func EncodeEvent(event Event) ([]byte, error) {
	return tlogEncMode.Marshal(event)
}

// DecodeEvent decodes CBOR bytes into an Event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := tlogDecMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// NewEncoder creates a CBOR encoder for event records that writes to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return tlogEncMode.NewEncoder(w)
}

// NewDecoder creates a CBOR decoder for event records that reads from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return tlogDecMode.NewDecoder(r)
}
