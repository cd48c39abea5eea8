// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

package tsfile

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// maxDecodedSize bounds the memory used to decompress a single catalog.
const maxDecodedSize = 256 << 20

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Reusable encoder/decoder for block (stateless) operations.
// A nil writer/reader lets us use EncodeAll/DecodeAll without streams.
var (
	zstdEncoder = sync.OnceValues(func() (*zstd.Encoder, error) {
		return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	})
	zstdDecoder = sync.OnceValues(func() (*zstd.Decoder, error) {
		return zstd.NewReader(nil, zstd.WithDecoderConcurrency(0), zstd.WithDecoderMaxMemory(maxDecodedSize))
	})
)

// IsCompressed reports whether data starts with a zstd frame header.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

// Compress wraps an encoded document in a zstd frame. [Parse] and [Decode]
// accept the result directly.
func Compress(doc []byte) ([]byte, error) {
	enc, err := zstdEncoder()
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	return enc.EncodeAll(doc, nil), nil
}

func decompress(data []byte) ([]byte, error) {
	if !IsCompressed(data) {
		return data, nil
	}

	dec, err := zstdDecoder()
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %w", ErrMalformed, err)
	}

	return out, nil
}
