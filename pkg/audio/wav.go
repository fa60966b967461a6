package audio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// WAVHeaderSize is the size of the canonical PCM RIFF/WAVE header.
const WAVHeaderSize = 44

// ErrInvalidWAV is returned when a header cannot be parsed.
var ErrInvalidWAV = errors.New("invalid wav header")

// WAVHeader holds the fields of a canonical 44-byte PCM header.
type WAVHeader struct {
	RIFFSize    uint32
	AudioFormat uint16
	Channels    uint16
	SampleRate  uint32
	ByteRate    uint32
	BlockAlign  uint16
	BitDepth    uint16
	DataLength  uint32
}

// Format returns the PCM format described by the header.
func (h WAVHeader) Format() Format {
	return Format{SampleRate: int(h.SampleRate), Channels: int(h.Channels), BitDepth: int(h.BitDepth)}
}

// WriteWAV writes a 44-byte header for body followed by body itself.
// The header is derived from len(body); nothing is patched afterwards.
func WriteWAV(w io.Writer, f Format, body []byte) (int64, error) {
	if f.Channels <= 0 || f.SampleRate <= 0 || f.BitDepth <= 0 {
		return 0, fmt.Errorf("wav: invalid format %+v", f)
	}
	if uint64(len(body)) > math.MaxUint32-36 {
		return 0, fmt.Errorf("wav: body too large (%d bytes)", len(body))
	}

	dataLen := uint32(len(body))
	bw := bufio.NewWriterSize(w, WAVHeaderSize)

	write := func(v any) error {
		return binary.Write(bw, binary.LittleEndian, v)
	}

	fields := []any{
		[4]byte{'R', 'I', 'F', 'F'},
		36 + dataLen,
		[4]byte{'W', 'A', 'V', 'E'},
		[4]byte{'f', 'm', 't', ' '},
		uint32(16),
		uint16(1), // linear PCM
		uint16(f.Channels),
		uint32(f.SampleRate),
		uint32(f.ByteRate()),
		uint16(f.BlockAlign()),
		uint16(f.BitDepth),
		[4]byte{'d', 'a', 't', 'a'},
		dataLen,
	}
	for _, v := range fields {
		if err := write(v); err != nil {
			return 0, fmt.Errorf("wav: write header: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("wav: write header: %w", err)
	}

	n, err := w.Write(body)
	if err != nil {
		return int64(WAVHeaderSize + n), fmt.Errorf("wav: write body: %w", err)
	}
	return int64(WAVHeaderSize + n), nil
}

// EncodeWAV returns header and body as a single byte slice.
func EncodeWAV(f Format, body []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(WAVHeaderSize + len(body))
	if _, err := WriteWAV(&buf, f, body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseWAVHeader reads and validates a canonical 44-byte PCM header.
func ParseWAVHeader(r io.Reader) (WAVHeader, error) {
	var raw [WAVHeaderSize]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return WAVHeader{}, fmt.Errorf("%w: %w", ErrInvalidWAV, err)
	}
	if string(raw[0:4]) != "RIFF" || string(raw[8:12]) != "WAVE" ||
		string(raw[12:16]) != "fmt " || string(raw[36:40]) != "data" {
		return WAVHeader{}, fmt.Errorf("%w: bad chunk ids", ErrInvalidWAV)
	}
	if binary.LittleEndian.Uint32(raw[16:20]) != 16 {
		return WAVHeader{}, fmt.Errorf("%w: unexpected fmt chunk size", ErrInvalidWAV)
	}

	le := binary.LittleEndian
	return WAVHeader{
		RIFFSize:    le.Uint32(raw[4:8]),
		AudioFormat: le.Uint16(raw[20:22]),
		Channels:    le.Uint16(raw[22:24]),
		SampleRate:  le.Uint32(raw[24:28]),
		ByteRate:    le.Uint32(raw[28:32]),
		BlockAlign:  le.Uint16(raw[32:34]),
		BitDepth:    le.Uint16(raw[34:36]),
		DataLength:  le.Uint32(raw[40:44]),
	}, nil
}
