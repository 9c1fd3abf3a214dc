// Package codec reads and writes headerless little-endian float32 streams.
//
// A file is exactly 4*N bytes for N values. There is no magic, length prefix,
// shape or dtype; consumers must know the shape out of band.
package codec

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// ErrTruncated is returned when a stream does not hold a whole number of
// float32 values.
var ErrTruncated = errors.New("truncated float32 stream")

const chunkValues = 4096

// Encode writes data to w as consecutive little-endian float32 values.
func Encode(w io.Writer, data []float32) error {
	var buf [chunkValues * 4]byte
	for len(data) > 0 {
		n := min(len(data), chunkValues)
		for i, v := range data[:n] {
			binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
		}
		if _, err := w.Write(buf[:n*4]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// Decode reads little-endian float32 values from r until EOF.
func Decode(r io.Reader) ([]float32, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeBytes(raw)
}

// DecodeBytes converts raw little-endian bytes into float32 values.
func DecodeBytes(raw []byte) ([]float32, error) {
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(raw))
	}
	out := make([]float32, len(raw)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return out, nil
}

// WriteFile creates or truncates path and writes data to it.
func WriteFile(path string, data []float32) (err error) {
	//nolint:gosec // G304: output path is chosen by the caller
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	bw := bufio.NewWriterSize(f, 1<<16)
	if err := Encode(bw, data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

// ReadFile decodes an entire file written by WriteFile.
func ReadFile(path string) ([]float32, error) {
	//nolint:gosec // G304: input path is chosen by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data, err := DecodeBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
