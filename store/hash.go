package store

import (
	"crypto/sha256"
)

func hash(b []byte) []byte {
	sum := sha256.Sum256(b)

	return sum[:]
}
