package face

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	bin "github.com/saylorsolutions/binmap"
)

// Embedding set file layout, all integers big-endian:
//
//	magic   [4]byte  "NVFE"
//	version uint16
//	count   uint32
//	dim     uint32
//	values  count*dim float64
const (
	setVersion    uint16 = 1
	setHeaderSize        = 4 + 2 + 4 + 4
)

var setMagic = [4]byte{'N', 'V', 'F', 'E'}

// EmbeddingSet is an ordered set of reference embeddings of one dimension.
// An empty set means no face is enrolled.
type EmbeddingSet []Embedding

// Dimension returns the length of the embeddings, or 0 for an empty set.
func (s EmbeddingSet) Dimension() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// Validate checks that the set is non-empty and of a single non-zero
// dimension.
func (s EmbeddingSet) Validate() error {
	if len(s) == 0 {
		return ErrNoFaceDetected
	}
	dim := len(s[0])
	for i, e := range s {
		if len(e) == 0 {
			return fmt.Errorf("%w: embedding %d is empty", ErrDimensionMismatch, i)
		}
		if len(e) != dim {
			return fmt.Errorf("%w: embedding %d has %d values, want %d", ErrDimensionMismatch, i, len(e), dim)
		}
	}
	return nil
}

// setHeader is the fixed part of the file.
type setHeader struct {
	magic   [4]byte
	version uint16
	count   uint32
	dim     uint32
}

func (h *setHeader) mapper() bin.Mapper {
	return bin.MapSequence(
		bin.Byte(&h.magic[0]),
		bin.Byte(&h.magic[1]),
		bin.Byte(&h.magic[2]),
		bin.Byte(&h.magic[3]),
		bin.Int(&h.version),
		bin.Int(&h.count),
		bin.Int(&h.dim),
	)
}

// valuesMapper maps the count*dim float64 body. Read expects set to be
// sized already.
type valuesMapper struct {
	set *EmbeddingSet
}

func (m valuesMapper) Read(r io.Reader, endian binary.ByteOrder) error {
	for _, e := range *m.set {
		if err := binary.Read(r, endian, []float64(e)); err != nil {
			return err
		}
	}
	return nil
}

func (m valuesMapper) Write(w io.Writer, endian binary.ByteOrder) error {
	for _, e := range *m.set {
		if err := binary.Write(w, endian, []float64(e)); err != nil {
			return err
		}
	}
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s EmbeddingSet) MarshalBinary() ([]byte, error) {
	if len(s) > 0 {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}

	dim := s.Dimension()
	h := setHeader{magic: setMagic, version: setVersion, count: uint32(len(s)), dim: uint32(dim)}

	buf := bytes.NewBuffer(make([]byte, 0, setHeaderSize+len(s)*dim*8))
	if err := bin.MapSequence(h.mapper(), valuesMapper{set: &s}).Write(buf, binary.BigEndian); err != nil {
		return nil, fmt.Errorf("encode embedding set: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. Unknown versions,
// truncated data and trailing bytes are rejected.
func (s *EmbeddingSet) UnmarshalBinary(data []byte) error {
	if len(data) < setHeaderSize {
		return fmt.Errorf("%w: %d bytes is shorter than the header", ErrInvalidEncoding, len(data))
	}

	r := bytes.NewReader(data)
	var h setHeader
	if err := h.mapper().Read(r, binary.BigEndian); err != nil {
		return fmt.Errorf("%w: header: %w", ErrInvalidEncoding, err)
	}
	if h.magic != setMagic {
		return fmt.Errorf("%w: bad magic %q", ErrInvalidEncoding, h.magic[:])
	}
	if h.version != setVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidEncoding, h.version)
	}

	count, dim := uint64(h.count), uint64(h.dim)
	if (count == 0) != (dim == 0) {
		return fmt.Errorf("%w: count %d with dimension %d", ErrInvalidEncoding, count, dim)
	}
	// checked before allocating so a forged header cannot request more
	// memory than the file holds
	body := uint64(r.Len())
	if body%8 != 0 || count*dim != body/8 {
		return fmt.Errorf("%w: body is %d bytes for %dx%d values", ErrInvalidEncoding, body, count, dim)
	}

	set := make(EmbeddingSet, count)
	for i := range set {
		set[i] = make(Embedding, dim)
	}
	if err := (valuesMapper{set: &set}).Read(r, binary.BigEndian); err != nil {
		return fmt.Errorf("%w: values: %w", ErrInvalidEncoding, err)
	}

	*s = set
	return nil
}
