package store

import (
	"bytes"
	"compress/zlib"
	"io"
)

type ZLibCompressor struct{}

func (ZLibCompressor) Compress(dec []byte) ([]byte, error) {
	var buf bytes.Buffer

	zw := zlib.NewWriter(&buf)

	if _, err := zw.Write(dec); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (ZLibCompressor) Decompress(cmp []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(cmp))
	if err != nil {
		return nil, err
	}

	defer zr.Close()

	return io.ReadAll(zr)
}
