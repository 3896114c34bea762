/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package compress

import (
	"bytes"
	"encoding/binary"
	"io"
	"sync/atomic"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/kcenon/network-system-sub001/errors"
	"github.com/pierrec/lz4/v4"
)

// maxDecompressSize bounds any decompression result to 100 MiB, per the
// strict bounded decompression requirement.
const maxDecompressSize = 100 * 1024 * 1024

// Pipeline is the compression pipeline: opaque compress/decompress over
// byte spans, with a mutable algorithm and threshold.
type Pipeline interface {
	Algorithm() Algorithm
	SetAlgorithm(a Algorithm)
	Threshold() int
	SetThreshold(n int)

	// Compress returns a copy of in unchanged when the algorithm is None,
	// when len(in) is below the threshold, when compression would not
	// shrink the payload, or when the underlying codec fails.
	Compress(in []byte) ([]byte, errors.Error)

	// Decompress reverses Compress. It fails on empty input and rejects
	// LZ4 frames announcing an original size over 100 MiB.
	Decompress(in []byte) ([]byte, errors.Error)
}

type pipeline struct {
	alg atomic.Int32
	thr atomic.Int64
}

// New returns a Pipeline using algorithm a and the given byte threshold
// below which Compress always returns the input unchanged.
func New(a Algorithm, threshold int) Pipeline {
	p := &pipeline{}
	p.alg.Store(int32(a))
	p.thr.Store(int64(threshold))
	return p
}

func (p *pipeline) Algorithm() Algorithm {
	return Algorithm(p.alg.Load())
}

func (p *pipeline) SetAlgorithm(a Algorithm) {
	p.alg.Store(int32(a))
}

func (p *pipeline) Threshold() int {
	return int(p.thr.Load())
}

func (p *pipeline) SetThreshold(n int) {
	p.thr.Store(int64(n))
}

func cloneBytes(in []byte) []byte {
	out := make([]byte, len(in))
	copy(out, in)
	return out
}

func (p *pipeline) Compress(in []byte) ([]byte, errors.Error) {
	a := p.Algorithm()

	if a == None || len(in) < p.Threshold() {
		return cloneBytes(in), nil
	}

	var (
		out []byte
		err error
	)

	switch a {
	case LZ4:
		out, err = compressLZ4(in)
	case Gzip:
		out, err = compressGzip(in)
	case Deflate:
		out, err = compressDeflate(in)
	default:
		return cloneBytes(in), nil
	}

	if err != nil || out == nil || len(out) >= len(in) {
		return cloneBytes(in), nil
	}

	return out, nil
}

func (p *pipeline) Decompress(in []byte) ([]byte, errors.Error) {
	if len(in) == 0 {
		return nil, ErrorInvalidArgument.Error(nil)
	}

	switch p.Algorithm() {
	case LZ4:
		return decompressLZ4(in)
	case Gzip:
		return decompressGzip(in)
	case Deflate:
		return decompressDeflate(in)
	default:
		return cloneBytes(in), nil
	}
}

// compressLZ4 emits the spec-mandated frame: a 4-byte little-endian
// original size, followed by the raw LZ4 compressed block.
func compressLZ4(in []byte) ([]byte, error) {
	buf := make([]byte, lz4.CompressBlockBound(len(in)))

	var c lz4.Compressor
	n, err := c.CompressBlock(in, buf)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// incompressible per pierrec's convention; caller will fall back
		return nil, io.ErrShortBuffer
	}

	out := make([]byte, 4+n)
	binary.LittleEndian.PutUint32(out[:4], uint32(len(in)))
	copy(out[4:], buf[:n])
	return out, nil
}

func decompressLZ4(in []byte) ([]byte, errors.Error) {
	if len(in) < 4 {
		return nil, ErrorInvalidArgument.Error(nil)
	}

	size := binary.LittleEndian.Uint32(in[:4])
	if size > maxDecompressSize {
		return nil, ErrorDecompressTooLarge.Error(nil)
	}

	out := make([]byte, size)
	n, err := lz4.UncompressBlock(in[4:], out)
	if err != nil {
		return nil, ErrorInternal.Error(err)
	}
	if uint32(n) != size {
		return nil, ErrorDecompressLengthMismatch.Error(nil)
	}

	return out[:n], nil
}

func compressGzip(in []byte) ([]byte, error) {
	var buf bytes.Buffer

	w, err := gzip.NewWriterLevel(&buf, gzip.DefaultCompression)
	if err != nil {
		return nil, err
	}
	if _, err = w.Write(in); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func decompressGzip(in []byte) ([]byte, errors.Error) {
	r, err := gzip.NewReader(bytes.NewReader(in))
	if err != nil {
		return nil, ErrorInternal.Error(err)
	}
	defer func() { _ = r.Close() }()

	return readBounded(r)
}

func compressDeflate(in []byte) ([]byte, error) {
	var buf bytes.Buffer

	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, err
	}
	if _, err = w.Write(in); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func decompressDeflate(in []byte) ([]byte, errors.Error) {
	r := flate.NewReader(bytes.NewReader(in))
	defer func() { _ = r.Close() }()

	return readBounded(r)
}

// readBounded streams r into 32 KiB chunks and fails closed if the total
// would exceed the 100 MiB decompression bound.
func readBounded(r io.Reader) ([]byte, errors.Error) {
	var out bytes.Buffer
	chunk := make([]byte, 32*1024)

	for {
		n, err := r.Read(chunk)
		if n > 0 {
			if int64(out.Len()+n) > maxDecompressSize {
				return nil, ErrorDecompressTooLarge.Error(nil)
			}
			out.Write(chunk[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, ErrorInternal.Error(err)
		}
	}

	return out.Bytes(), nil
}
