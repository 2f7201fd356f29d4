package main

import (
	"encoding/binary"
	"testing"

	"github.com/xenosrecomp/xenosrecomp/core/data/id"
)

func u32(v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return b[:]
}

// minimalContainer builds just enough of a header for scanFile to recognize
// and size a container: magic flags, zeroed field1C/field20, and a
// virtual+physical size that covers the whole blob.
func minimalContainer(totalSize uint32) []byte {
	data := make([]byte, totalSize)
	copy(data[0:4], u32(0x102A1101))
	copy(data[28:32], u32(0)) // field1C
	copy(data[32:36], u32(0)) // field20
	copy(data[36:40], u32(totalSize))
	copy(data[40:44], u32(0))
	return data
}

func TestScanFileFindsAndDedupsContainers(t *testing.T) {
	blob := minimalContainer(80)
	data := append(append([]byte{}, blob...), blob...)

	out := map[id.ID][]byte{}
	scanFile(data, out)

	if len(out) != 1 {
		t.Fatalf("expected one distinct shader after dedup, got %d", len(out))
	}
}

func TestScanFileSkipsNonMagicBytes(t *testing.T) {
	data := make([]byte, 200)
	out := map[id.ID][]byte{}
	scanFile(data, out)
	if len(out) != 0 {
		t.Fatalf("expected no shaders found in non-magic data, got %d", len(out))
	}
}
