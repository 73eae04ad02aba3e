// Package image stores assembled programs as canonical CBOR so they can be
// run later without the assembler.
package image

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"stackvm/pkg/bytecode"
)

// Version is the image format written by Encode.
const Version = 1

// Magic prefixes every image.
var Magic = [4]byte{'S', 'V', 'M', 0}

var (
	ErrBadMagic   = errors.New("image: missing magic bytes")
	ErrBadVersion = errors.New("image: unsupported version")
)

type header struct {
	Version int               `cbor:"1,keyasint"`
	Program *bytecode.Program `cbor:"2,keyasint"`
}

// cborEncMode uses canonical mode so identical programs encode identically.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("image: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Encode serializes prog behind the magic prefix.
func Encode(prog *bytecode.Program) ([]byte, error) {
	body, err := cborEncMode.Marshal(header{Version: Version, Program: prog})
	if err != nil {
		return nil, fmt.Errorf("image: encode: %w", err)
	}

	return append(Magic[:], body...), nil
}

// Decode parses an image produced by Encode.
func Decode(data []byte) (*bytecode.Program, error) {
	if !IsImage(data) {
		return nil, ErrBadMagic
	}

	var h header
	if err := cbor.Unmarshal(data[len(Magic):], &h); err != nil {
		return nil, fmt.Errorf("image: decode: %w", err)
	}
	if h.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, h.Version)
	}
	if h.Program == nil {
		return nil, errors.New("image: no program")
	}
	if h.Program.Labels == nil {
		h.Program.Labels = bytecode.LabelTable{}
	}

	return h.Program, nil
}

// IsImage reports whether data starts with the image magic.
func IsImage(data []byte) bool {
	return bytes.HasPrefix(data, Magic[:])
}
