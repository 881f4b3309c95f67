package compress

// Compress encodes revision content before it is persisted and decodes it on
// the way back out.
type Compress interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}
