package click

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

const (
	wavFormatIEEEFloat = 3
	wavChannels        = 1
	wavBitsPerSample   = 32
	wavBytesPerSample  = wavBitsPerSample / 8

	// RIFF header + 18-byte fmt chunk + fact chunk + data chunk header
	wavHeaderSize = 12 + (8 + 18) + (8 + 4) + 8
)

// WAVSize is the encoded size in bytes of a buffer with n samples.
func WAVSize(n int) int {
	return wavHeaderSize + n*wavBytesPerSample
}

// WriteWAV encodes buf as a mono 32-bit IEEE-float RIFF/WAVE stream.
// Non-PCM WAV carries a cbSize field and a fact chunk with the frame count.
func WriteWAV(w io.Writer, buf *Buffer) error {
	n := buf.Len()
	dataSize := uint32(n * wavBytesPerSample)
	rate := uint32(buf.SampleRate())

	bw := bufio.NewWriter(w)
	le := binary.LittleEndian

	header := []any{
		[4]byte{'R', 'I', 'F', 'F'},
		uint32(wavHeaderSize - 8 + int(dataSize)),
		[4]byte{'W', 'A', 'V', 'E'},

		[4]byte{'f', 'm', 't', ' '},
		uint32(18),
		uint16(wavFormatIEEEFloat),
		uint16(wavChannels),
		rate,
		rate * wavChannels * wavBytesPerSample,   // byte rate
		uint16(wavChannels * wavBytesPerSample), // block align
		uint16(wavBitsPerSample),
		uint16(0), // cbSize

		[4]byte{'f', 'a', 'c', 't'},
		uint32(4),
		uint32(n),

		[4]byte{'d', 'a', 't', 'a'},
		dataSize,
	}
	for _, v := range header {
		if err := binary.Write(bw, le, v); err != nil {
			return fmt.Errorf("write wav header: %w", err)
		}
	}

	var sample [wavBytesPerSample]byte
	for _, s := range buf.Samples() {
		le.PutUint32(sample[:], math.Float32bits(float32(s)))
		if _, err := bw.Write(sample[:]); err != nil {
			return fmt.Errorf("write wav samples: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush wav: %w", err)
	}
	return nil
}

// EncodeWAV returns the WAV encoding of b.
func (b *Buffer) EncodeWAV() []byte {
	var out bytes.Buffer
	out.Grow(WAVSize(b.Len()))
	// bytes.Buffer writes never fail
	_ = WriteWAV(&out, b)
	return out.Bytes()
}

// ErrNotFloatWAV is returned by DecodeWAV for anything but mono float32 WAV.
var ErrNotFloatWAV = errors.New("not a mono float32 wav stream")

// DecodeWAV reads back a stream produced by WriteWAV.
func DecodeWAV(r io.Reader) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read wav: %w", err)
	}
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, ErrNotFloatWAV
	}

	le := binary.LittleEndian
	var rate int
	formatOK := false
	for off := 12; off+8 <= len(data); {
		id := string(data[off : off+4])
		size := int(le.Uint32(data[off+4 : off+8]))
		body := off + 8
		if body+size > len(data) {
			return nil, fmt.Errorf("%w: chunk %q overruns stream", ErrNotFloatWAV, id)
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return nil, ErrNotFloatWAV
			}
			format := le.Uint16(data[body:])
			channels := le.Uint16(data[body+2:])
			bits := le.Uint16(data[body+14:])
			if format != wavFormatIEEEFloat || channels != wavChannels || bits != wavBitsPerSample {
				return nil, ErrNotFloatWAV
			}
			rate = int(le.Uint32(data[body+4:]))
			formatOK = true
		case "data":
			if !formatOK {
				return nil, fmt.Errorf("%w: data before fmt", ErrNotFloatWAV)
			}
			buf := NewBuffer(rate)
			samples := make([]float64, size/wavBytesPerSample)
			for i := range samples {
				samples[i] = float64(math.Float32frombits(le.Uint32(data[body+i*wavBytesPerSample:])))
			}
			buf.Append(samples...)
			return buf, nil
		}
		off = body + size + size%2
	}
	return nil, fmt.Errorf("%w: no data chunk", ErrNotFloatWAV)
}
