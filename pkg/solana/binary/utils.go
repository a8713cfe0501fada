package binary

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"
)

const (
	// AccountOptionSize is the width of a COption tag inside account state.
	AccountOptionSize = 4

	// InstructionOptionSize is the width of a COption tag inside instruction data.
	InstructionOptionSize = 1
)

var (
	ErrShortBuffer      = errors.New("buffer too short")
	ErrInvalidOptionTag = errors.New("invalid option tag")
)

// All helpers read from or write to buf[*offset:] and advance offset by the
// number of bytes consumed.

func PutKey32(dst []byte, src ed25519.PublicKey, offset *int) {
	copy(dst[*offset:], src)
	*offset += ed25519.PublicKeySize
}

// PutOptionalKey32 writes a tag followed by a 32 byte slot. The slot is left
// zeroed when src is empty.
func PutOptionalKey32(dst []byte, src ed25519.PublicKey, offset *int, optionSize int) {
	if len(src) > 0 {
		dst[*offset] = 1
		copy(dst[*offset+optionSize:], src)
	}
	*offset += optionSize + ed25519.PublicKeySize
}

func PutUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst[*offset:], v)
	*offset += 8
}

func PutUint32(dst []byte, v uint32, offset *int) {
	binary.LittleEndian.PutUint32(dst[*offset:], v)
	*offset += 4
}

func PutUint8(dst []byte, v uint8, offset *int) {
	dst[*offset] = v
	*offset += 1
}

func PutBool(dst []byte, v bool, offset *int) {
	if v {
		dst[*offset] = 1
	}
	*offset += 1
}

func PutOptionalUint64(dst []byte, v *uint64, offset *int, optionSize int) {
	if v != nil {
		dst[*offset] = 1
		binary.LittleEndian.PutUint64(dst[*offset+optionSize:], *v)
	}
	*offset += optionSize + 8
}

func GetKey32(src []byte, dst *ed25519.PublicKey, offset *int) error {
	if err := ensure(src, *offset, ed25519.PublicKeySize); err != nil {
		return err
	}

	*dst = make([]byte, ed25519.PublicKeySize)
	copy(*dst, src[*offset:])
	*offset += ed25519.PublicKeySize
	return nil
}

// GetOptionalKey32 decodes a tagged key. A zero tag yields nil regardless of
// the slot contents.
func GetOptionalKey32(src []byte, dst *ed25519.PublicKey, offset *int, optionSize int) error {
	if err := ensure(src, *offset, optionSize+ed25519.PublicKeySize); err != nil {
		return err
	}

	present, err := getOptionTag(src[*offset:], optionSize)
	if err != nil {
		return err
	}

	*dst = nil
	if present {
		*dst = make([]byte, ed25519.PublicKeySize)
		copy(*dst, src[*offset+optionSize:])
	}
	*offset += optionSize + ed25519.PublicKeySize
	return nil
}

func GetUint64(src []byte, dst *uint64, offset *int) error {
	if err := ensure(src, *offset, 8); err != nil {
		return err
	}

	*dst = binary.LittleEndian.Uint64(src[*offset:])
	*offset += 8
	return nil
}

func GetUint32(src []byte, dst *uint32, offset *int) error {
	if err := ensure(src, *offset, 4); err != nil {
		return err
	}

	*dst = binary.LittleEndian.Uint32(src[*offset:])
	*offset += 4
	return nil
}

func GetUint8(src []byte, dst *uint8, offset *int) error {
	if err := ensure(src, *offset, 1); err != nil {
		return err
	}

	*dst = src[*offset]
	*offset += 1
	return nil
}

func GetBool(src []byte, dst *bool, offset *int) error {
	var v uint8
	if err := GetUint8(src, &v, offset); err != nil {
		return err
	}

	switch v {
	case 0:
		*dst = false
	case 1:
		*dst = true
	default:
		return errors.Errorf("invalid bool value: %d", v)
	}
	return nil
}

func GetOptionalUint64(src []byte, dst **uint64, offset *int, optionSize int) error {
	if err := ensure(src, *offset, optionSize+8); err != nil {
		return err
	}

	present, err := getOptionTag(src[*offset:], optionSize)
	if err != nil {
		return err
	}

	*dst = nil
	if present {
		val := binary.LittleEndian.Uint64(src[*offset+optionSize:])
		*dst = &val
	}
	*offset += optionSize + 8
	return nil
}

func getOptionTag(src []byte, optionSize int) (bool, error) {
	var tag uint32
	switch optionSize {
	case 1:
		tag = uint32(src[0])
	case 4:
		tag = binary.LittleEndian.Uint32(src)
	default:
		return false, errors.Errorf("unsupported option size: %d", optionSize)
	}

	switch tag {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errors.Wrapf(ErrInvalidOptionTag, "tag %d", tag)
	}
}

func ensure(src []byte, offset, n int) error {
	if offset < 0 || len(src)-offset < n {
		return errors.Wrapf(ErrShortBuffer, "need %d bytes at offset %d, have %d", n, offset, len(src))
	}
	return nil
}
