package dataindex

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
)

// md5BlockSize is the read size used when checksumming files.
const md5BlockSize = 256 * 128

// MD5Sum streams r through MD5 in fixed-size blocks.
func MD5Sum(r io.Reader) ([]byte, error) {
	h := md5.New()
	buf := make([]byte, md5BlockSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return h.Sum(nil), nil
}

// MD5SumFileRaw returns the 16-byte MD5 digest of the file at path.
func MD5SumFileRaw(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return MD5Sum(f)
}

// MD5SumFile returns the MD5 digest of the file at path as 32 lowercase
// hex characters, matching the output of md5sum(1).
func MD5SumFile(path string) (string, error) {
	sum, err := MD5SumFileRaw(path)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum), nil
}
