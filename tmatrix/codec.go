package tmatrix

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/parkerwray/smuthi-1/spw"
)

// Resource format constants. The layout is fixed little-endian; see the
// package documentation for the full description.
const (
	codecMagic   = "TMAT"
	codecVersion = uint16(1)

	flagMirror = 1 << 0
	flagAxisym = 1 << 1
	flagChiral = 1 << 2
)

// Write serializes t to w in the binary resource format. The payload is
// written bit-exact, so Write followed by Read reproduces the matrix entry
// for entry.
func Write(w io.Writer, t *TMatrix) error {
	if t == nil {
		return ErrNilMatrix
	}

	var flags byte
	if t.mirror {
		flags |= flagMirror
	}
	if t.axisym {
		flags |= flagAxisym
	}
	if t.chiral {
		flags |= flagChiral
	}

	header := make([]byte, 0, 4+2+1+4+4)
	header = append(header, codecMagic...)
	header = binary.LittleEndian.AppendUint16(header, codecVersion)
	header = append(header, flags)
	header = binary.LittleEndian.AppendUint32(header, uint32(t.basis.Nrank()))
	header = binary.LittleEndian.AppendUint32(header, uint32(t.basis.Mrank()))
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("tmatrix: write header: %w", err)
	}

	buf := make([]byte, 0, 16)
	for _, v := range t.data {
		buf = buf[:0]
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(real(v)))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(imag(v)))
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("tmatrix: write payload: %w", err)
		}
	}

	return nil
}

// Read deserializes a TMatrix from r.
//
// Errors: ErrBadResource on any structural defect (wrong magic, unknown
// version, invalid truncation orders, truncated payload).
func Read(r io.Reader) (*TMatrix, error) {
	header := make([]byte, 4+2+1+4+4)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrBadResource, err)
	}
	if string(header[:4]) != codecMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrBadResource, header[:4])
	}
	if v := binary.LittleEndian.Uint16(header[4:6]); v != codecVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadResource, v)
	}
	flags := header[6]
	nrank := int(binary.LittleEndian.Uint32(header[7:11]))
	mrank := int(binary.LittleEndian.Uint32(header[11:15]))

	basis, err := spw.NewBasis(nrank, mrank)
	if err != nil {
		return nil, fmt.Errorf("%w: orders nrank=%d mrank=%d", ErrBadResource, nrank, mrank)
	}

	var opts []Option
	if flags&flagMirror != 0 {
		opts = append(opts, WithMirrorSymmetry())
	}
	if flags&flagAxisym != 0 {
		opts = append(opts, WithAxisymmetric())
	}
	if flags&flagChiral != 0 {
		opts = append(opts, WithChiral())
	}

	t := New(basis, opts...)
	buf := make([]byte, 16)
	for i := range t.data {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("%w: payload entry %d: %v", ErrBadResource, i, err)
		}
		re := math.Float64frombits(binary.LittleEndian.Uint64(buf[:8]))
		im := math.Float64frombits(binary.LittleEndian.Uint64(buf[8:]))
		t.data[i] = complex(re, im)
	}

	return t, nil
}

// WriteFile stores t at path, creating or truncating the file.
//
// Errors: ErrResourceUnavailable if the file cannot be created or written.
func WriteFile(path string, t *TMatrix) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrResourceUnavailable, err)
	}
	if err := Write(f, t); err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", ErrResourceUnavailable, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrResourceUnavailable, err)
	}
	return nil
}

// ReadFile loads a TMatrix from path.
//
// Errors: ErrResourceUnavailable if the file cannot be opened;
// ErrBadResource if its contents are malformed.
func ReadFile(path string) (*TMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResourceUnavailable, err)
	}
	defer f.Close()
	return Read(f)
}
