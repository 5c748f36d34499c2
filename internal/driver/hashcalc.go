package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"composita/internal/version"
)

// Digest is a SHA-256 cache key.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

func (d Digest) IsZero() bool { return d == Digest{} }

// combineDigest: H(schema || compiler version || content). Кэш одного
// компилятора не подходит другому, даже если исходник тот же.
func combineDigest(schema uint16, compiler string, content [32]byte) Digest {
	h := sha256.New()
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], schema)
	_, _ = h.Write(buf[:])
	_, _ = h.Write([]byte(compiler))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(content[:])
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// CacheKey is the disk cache key of a source file with the given content hash.
func CacheKey(content [32]byte) Digest {
	return combineDigest(diskCacheSchemaVersion, version.Version, content)
}
