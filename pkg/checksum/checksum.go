// Package checksum computes and compares the file digests recorded in
// operation logs. SHA256 is the default; MD5 appears only in logs
// written by old versions and is kept so they still parse and compare.
package checksum

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Type identifies a checksum algorithm.
type Type string

const (
	// TypeSHA256 is the default checksum type.
	TypeSHA256 Type = "sha256"
	// TypeMD5 is kept for compatibility with logs written by older
	// versions.
	TypeMD5 Type = "md5"
)

// Checksum is a file digest in the self-describing text form
// "sha256(<hex>)" or "md5(<hex>)" used inside operation log records.
type Checksum string

// New computes a digest of the given type over data.
func New(typ Type, data []byte) Checksum {
	switch typ {
	case TypeMD5:
		sum := md5.Sum(data)
		return Checksum(fmt.Sprintf("md5(%s)", hex.EncodeToString(sum[:])))
	default:
		sum := sha256.Sum256(data)
		return Checksum(fmt.Sprintf("sha256(%s)", hex.EncodeToString(sum[:])))
	}
}

// Default computes a SHA256 digest over data.
func Default(data []byte) Checksum {
	return New(TypeSHA256, data)
}

// Type returns the algorithm used for this checksum.
func (c Checksum) Type() Type {
	if strings.HasPrefix(string(c), "md5(") {
		return TypeMD5
	}
	return TypeSHA256
}

func (c Checksum) String() string { return string(c) }

// Matches reports whether data hashes to this checksum, using the same
// algorithm the checksum was recorded with.
func (c Checksum) Matches(data []byte) bool {
	return New(c.Type(), data) == c
}
