package containers

import (
	"bytes"
	"encoding/binary"
	"testing"
)

type tiffEntry struct {
	tag      uint16
	dataType uint16
	value    []byte
}

// buildTIFF assembles a little-endian TIFF buffer with one IFD holding the
// given entries, each value stored past the directory. goexif accepts a raw
// TIFF stream, so no JPEG wrapper is needed.
func buildTIFF(entries []tiffEntry) []byte {
	var buf bytes.Buffer
	buf.WriteString("II")
	binary.Write(&buf, binary.LittleEndian, uint16(42))
	binary.Write(&buf, binary.LittleEndian, uint32(8))

	binary.Write(&buf, binary.LittleEndian, uint16(len(entries)))
	offset := uint32(8 + 2 + len(entries)*12 + 4)
	for _, e := range entries {
		binary.Write(&buf, binary.LittleEndian, e.tag)
		binary.Write(&buf, binary.LittleEndian, e.dataType)
		binary.Write(&buf, binary.LittleEndian, uint32(len(e.value)))
		binary.Write(&buf, binary.LittleEndian, offset)
		offset += uint32(len(e.value))
	}
	binary.Write(&buf, binary.LittleEndian, uint32(0))
	for _, e := range entries {
		buf.Write(e.value)
	}
	return buf.Bytes()
}

func utf16Bytes(s string) []byte {
	out := make([]byte, 0, len(s)*2)
	for _, r := range s {
		out = append(out, byte(r), 0)
	}
	return out
}

const (
	tagImageDescription = 0x010e
	tagUserComment      = 0x9286
	tagXPComment        = 0x9c9c
	tagXPKeywords       = 0x9c9e

	typeByte  = 1
	typeASCII = 2
	typeUndef = 7
)

func TestJPEGBlobsFieldOrder(t *testing.T) {
	userComment := append([]byte("UNICODE\x00\x00"), utf16Bytes("a fine prompt\nSteps: 20")...)
	data := buildTIFF([]tiffEntry{
		// physical order is ascending by tag; the probe order is the
		// fixed field list, UserComment first
		{tagImageDescription, typeASCII, []byte("plain description\x00")},
		{tagUserComment, typeUndef, userComment},
		{tagXPComment, typeByte, utf16Bytes("window comment")},
	})

	blobs, err := JPEGBlobs(data)
	if err != nil {
		t.Fatalf("Failed to decode EXIF: %v", err)
	}
	want := []CandidateBlob{
		{Origin: "UserComment", Text: "a fine prompt\nSteps: 20"},
		{Origin: "ImageDescription", Text: "plain description"},
		{Origin: "XPComment", Text: "window comment"},
	}
	if len(blobs) != len(want) {
		t.Fatalf("Expected %d blobs, got %d: %v", len(want), len(blobs), blobs)
	}
	for i := range want {
		if blobs[i] != want[i] {
			t.Errorf("Blob %d: expected %+v, got %+v", i, want[i], blobs[i])
		}
	}
}

func TestJPEGBlobsDiscardsShortByteFields(t *testing.T) {
	data := buildTIFF([]tiffEntry{
		{tagImageDescription, typeASCII, []byte("kept text field\x00")},
		// 6 bytes of packed UTF-16 is below the decode minimum
		{tagXPKeywords, typeByte, utf16Bytes("abc")},
	})

	blobs, err := JPEGBlobs(data)
	if err != nil {
		t.Fatalf("Failed to decode EXIF: %v", err)
	}
	if len(blobs) != 1 || blobs[0].Origin != "ImageDescription" {
		t.Fatalf("Expected only the text field to survive, got %v", blobs)
	}
}

func TestJPEGBlobsNotExif(t *testing.T) {
	if _, err := JPEGBlobs([]byte("not an image at all")); err == nil {
		t.Error("Expected an error for a non-EXIF buffer")
	}
}
