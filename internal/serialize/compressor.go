package serialize

// Compressor is the pluggable per-frame compressor spec.md §6 describes
// ("LZ4 or bypass"). No LZ4 binding appears anywhere in the retrieved
// example pack, so only the bypass implementation is wired here; a real
// LZ4 compressor has no concrete consumer beyond this interface boundary,
// which spec.md itself treats as pluggable/external.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// BypassCompressor performs no compression.
type BypassCompressor struct{}

// Compress returns data unchanged.
func (BypassCompressor) Compress(data []byte) ([]byte, error) { return data, nil }

// Decompress returns data unchanged.
func (BypassCompressor) Decompress(data []byte) ([]byte, error) { return data, nil }
