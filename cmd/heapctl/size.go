package main

import (
	"fmt"

	"github.com/c2h5oh/datasize"
)

// sizeValue is a pflag.Value accepting "4096", "4KB", "1MB" and friends.
type sizeValue struct {
	size *datasize.ByteSize
}

func newSizeValue(def datasize.ByteSize, p *datasize.ByteSize) *sizeValue {
	*p = def
	return &sizeValue{size: p}
}

func (v *sizeValue) String() string {
	if v.size == nil {
		return "0B"
	}
	return v.size.String()
}

func (v *sizeValue) Set(s string) error {
	var b datasize.ByteSize
	if err := b.UnmarshalText([]byte(s)); err != nil {
		return fmt.Errorf("invalid size %q: %w", s, err)
	}
	if b == 0 {
		return fmt.Errorf("invalid size %q: must be positive", s)
	}
	*v.size = b
	return nil
}

func (v *sizeValue) Type() string { return "size" }

// bytesOf converts a parsed size to an int, rejecting values that overflow.
func bytesOf(b datasize.ByteSize) (int, error) {
	n := b.Bytes()
	if n > uint64(^uint(0)>>1) {
		return 0, fmt.Errorf("size %s is too large", b.HumanReadable())
	}
	return int(n), nil
}
