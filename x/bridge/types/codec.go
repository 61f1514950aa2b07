package types

import (
	"bytes"
	"encoding/binary"

	errorsmod "cosmossdk.io/errors"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Record is a fixed-layout value stored in one program account.
type Record interface {
	bin.BinaryMarshaler
	bin.BinaryUnmarshaler
	// Len is the exact number of bytes the record occupies.
	Len() int
	IsInitialized() bool
}

// Marshal borsh-encodes v.
func Marshal(v bin.BinaryMarshaler) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := v.MarshalWithEncoder(bin.NewBorshEncoder(buf)); err != nil {
		return nil, errorsmod.Wrap(ErrCodec, err.Error())
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a record from an account data buffer. Trailing bytes are
// allowed so that records written by an older, shorter revision still load.
func Unmarshal(data []byte, v bin.BinaryUnmarshaler) error {
	if err := v.UnmarshalWithDecoder(bin.NewBorshDecoder(data)); err != nil {
		return errorsmod.Wrapf(ErrInvalidAccountData, "decode: %s", err)
	}
	return nil
}

// WriteRecord serializes r into the head of dst, which must be large enough.
func WriteRecord(dst []byte, r Record) error {
	bz, err := Marshal(r)
	if err != nil {
		return err
	}
	if len(bz) > len(dst) {
		return errorsmod.Wrapf(ErrInvalidAccountData, "record needs %d bytes, account holds %d", len(bz), len(dst))
	}
	copy(dst, bz)
	return nil
}

// fieldWriter keeps the first encoding error so layouts read top to bottom.
type fieldWriter struct {
	enc *bin.Encoder
	err error
}

func (w *fieldWriter) u8(v uint8) {
	if w.err == nil {
		w.err = w.enc.WriteUint8(v)
	}
}

func (w *fieldWriter) u64(v uint64) {
	if w.err == nil {
		w.err = w.enc.WriteUint64(v, binary.LittleEndian)
	}
}

func (w *fieldWriter) bool(v bool) {
	if w.err == nil {
		w.err = w.enc.WriteBool(v)
	}
}

func (w *fieldWriter) raw(b []byte) {
	if w.err == nil {
		w.err = w.enc.WriteBytes(b, false)
	}
}

// str writes a borsh string: u32 length followed by the bytes.
func (w *fieldWriter) str(s string) {
	if w.err == nil {
		w.err = w.enc.WriteUint32(uint32(len(s)), binary.LittleEndian)
	}
	w.raw([]byte(s))
}

type fieldReader struct {
	dec *bin.Decoder
	err error
}

func (r *fieldReader) u8() uint8 {
	if r.err != nil {
		return 0
	}
	v, err := r.dec.ReadUint8()
	r.err = err
	return v
}

func (r *fieldReader) u64() uint64 {
	if r.err != nil {
		return 0
	}
	v, err := r.dec.ReadUint64(binary.LittleEndian)
	r.err = err
	return v
}

func (r *fieldReader) bool() bool {
	if r.err != nil {
		return false
	}
	v, err := r.dec.ReadBool()
	r.err = err
	return v
}

// raw copies exactly len(dst) bytes.
func (r *fieldReader) raw(dst []byte) {
	if r.err != nil {
		return
	}
	bz, err := r.dec.ReadNBytes(len(dst))
	if err != nil {
		r.err = err
		return
	}
	copy(dst, bz)
}

func (r *fieldReader) str() string {
	if r.err != nil {
		return ""
	}
	n, err := r.dec.ReadUint32(binary.LittleEndian)
	if err != nil {
		r.err = err
		return ""
	}
	if int(n) > r.dec.Remaining() {
		r.err = errorsmod.Wrapf(ErrCodec, "string length %d exceeds remaining %d bytes", n, r.dec.Remaining())
		return ""
	}
	bz, err := r.dec.ReadNBytes(int(n))
	r.err = err
	return string(bz)
}

func (r *fieldReader) pubkey() solana.PublicKey {
	var pk solana.PublicKey
	r.raw(pk[:])
	return pk
}
