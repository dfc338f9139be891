// Package wire implements the framing layer of the multipane protocol:
// every message travels as a 4-byte big-endian length prefix followed by
// exactly that many bytes of JSON payload. The codec knows nothing about
// message semantics; schema owns the payload shapes.
package wire

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// LengthPrefixSize is the size of the frame length prefix in bytes.
const LengthPrefixSize = 4

// MaxFrameLength caps the payload of a single frame at 16 MiB. The cap is
// enforced on encode and, on decode, before the payload is read, so a
// corrupt or malicious prefix never drives allocation.
const MaxFrameLength = 16 * 1024 * 1024

var (
	// ErrFrameTooLarge indicates a payload over MaxFrameLength, on either
	// encode or a decoded length prefix.
	ErrFrameTooLarge = errors.New("frame exceeds maximum size")
	// ErrShortLengthPrefix indicates fewer than LengthPrefixSize bytes
	// where a length prefix was expected.
	ErrShortLengthPrefix = errors.New("incomplete frame length prefix")
	// ErrConnectionClosed indicates the stream closed mid-frame: after a
	// partial length prefix or before the full payload arrived. A close on
	// a frame boundary is a clean end of stream (io.EOF), not this error.
	ErrConnectionClosed = errors.New("connection closed mid-frame")
)

// Encode serializes message as JSON and returns the complete frame: length
// prefix followed by payload.
func Encode(message any) ([]byte, error) {
	payload, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("encode frame payload: %w", err)
	}
	return EncodeFrame(payload)
}

// EncodeFrame prefixes an already-serialized payload with its big-endian
// length.
func EncodeFrame(payload []byte) ([]byte, error) {
	if len(payload) > MaxFrameLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(payload))
	}
	frame := make([]byte, LengthPrefixSize+len(payload))
	binary.BigEndian.PutUint32(frame[:LengthPrefixSize], uint32(len(payload)))
	copy(frame[LengthPrefixSize:], payload)
	return frame, nil
}

// DecodeLength interprets the first four bytes of b as a big-endian payload
// length, rejecting short input and lengths over MaxFrameLength.
func DecodeLength(b []byte) (int, error) {
	if len(b) < LengthPrefixSize {
		return 0, fmt.Errorf("%w: got %d bytes", ErrShortLengthPrefix, len(b))
	}
	length := binary.BigEndian.Uint32(b[:LengthPrefixSize])
	if length > MaxFrameLength {
		return 0, fmt.Errorf("%w: prefix declares %d bytes", ErrFrameTooLarge, length)
	}
	return int(length), nil
}

// Decode parses a frame payload into message, which must be a pointer.
func Decode(payload []byte, message any) error {
	if err := json.Unmarshal(payload, message); err != nil {
		return fmt.Errorf("decode frame payload: %w", err)
	}
	return nil
}

// WriteFrame writes one framed payload to w. The io.Writer contract retries
// partial writes internally, so a nil return means the entire frame is on
// the wire.
func WriteFrame(w io.Writer, payload []byte) error {
	frame, err := EncodeFrame(payload)
	if err != nil {
		return err
	}
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// ReadFrame reads one framed payload from r, accumulating partial reads
// until the exact byte counts are satisfied. It returns io.EOF only when
// the stream closed cleanly on a frame boundary (zero bytes read); any
// close after the first prefix byte is ErrConnectionClosed.
func ReadFrame(r io.Reader) ([]byte, error) {
	var prefix [LengthPrefixSize]byte
	n, err := io.ReadFull(r, prefix[:])
	if err != nil {
		if n == 0 && errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: %d of %d prefix bytes", ErrConnectionClosed, n, LengthPrefixSize)
		}
		return nil, fmt.Errorf("read frame prefix: %w", err)
	}
	length, err := DecodeLength(prefix[:])
	if err != nil {
		return nil, err
	}
	payload := make([]byte, length)
	if length > 0 {
		n, err := io.ReadFull(r, payload)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("%w: %d of %d payload bytes", ErrConnectionClosed, n, length)
			}
			return nil, fmt.Errorf("read frame payload: %w", err)
		}
	}
	return payload, nil
}
