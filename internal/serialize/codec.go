package serialize

import (
	"encoding/json"

	"github.com/eddiefleurent/strangengine/internal/core/errs"
)

// Frame is the two-frame transport spec.md §6 describes: an individually
// compressed header and an individually compressed body. The default
// serializer is a binary map-with-string-keys/UTF-8-byte-values format;
// this module's codec uses JSON for Body, grounded on the teacher's
// JSON-file storage (internal/storage/storage.go's encoding/json usage)
// since no other example in the pack supplies a concrete binary-map
// implementation to adopt instead.
type Frame struct {
	Header Envelope
	Body   []byte
}

// Codec encodes/decodes values into Frames, passing the body through the
// configured Compressor. The header is carried as an uncompressed
// Envelope; it is not passed through the Compressor.
type Codec struct {
	Compressor Compressor
}

// NewCodec constructs a Codec; a nil compressor defaults to bypass.
func NewCodec(c Compressor) Codec {
	if c == nil {
		c = BypassCompressor{}
	}
	return Codec{Compressor: c}
}

// Encode marshals v to JSON, compresses that body, and tags the frame's
// uncompressed header with msgType and id.
func (c Codec) Encode(msgType, id string, v any) (Frame, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return Frame{}, errs.Serialization(err)
	}
	compressedBody, err := c.Compressor.Compress(body)
	if err != nil {
		return Frame{}, errs.Serialization(err)
	}
	header := Envelope{LabelType: msgType, LabelId: id}
	return Frame{Header: header, Body: compressedBody}, nil
}

// Decode decompresses f.Body and unmarshals it into v.
func (c Codec) Decode(f Frame, v any) error {
	body, err := c.Compressor.Decompress(f.Body)
	if err != nil {
		return errs.Serialization(err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errs.Serialization(err)
	}
	return nil
}
