// Package shortvec implements the compact-u16 length prefix used by the
// Solana transaction wire format.
package shortvec

import (
	"io"
	"math"

	"github.com/pkg/errors"
)

const maxEncodedLen = 3

var ErrLengthOverflow = errors.New("length exceeds max uint16")

// EncodeLen writes length as a compact-u16 and returns the bytes written.
func EncodeLen(w io.Writer, length int) (int, error) {
	if length < 0 || length > math.MaxUint16 {
		return 0, errors.Wrapf(ErrLengthOverflow, "length %d", length)
	}

	var buf [maxEncodedLen]byte
	n := 0
	for {
		buf[n] = byte(length & 0x7f)
		length >>= 7
		if length == 0 {
			n++
			break
		}
		buf[n] |= 0x80
		n++
	}

	return w.Write(buf[:n])
}

// DecodeLen reads a compact-u16 length from r.
func DecodeLen(r io.Reader) (int, error) {
	var val int
	var b [1]byte

	for i := 0; ; i++ {
		if i == maxEncodedLen {
			return 0, errors.Errorf("invalid size: more than %d bytes", maxEncodedLen)
		}
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}

		val |= int(b[0]&0x7f) << (i * 7)
		if b[0]&0x80 == 0 {
			break
		}
	}

	if val > math.MaxUint16 {
		return 0, errors.Wrapf(ErrLengthOverflow, "length %d", val)
	}
	return val, nil
}
