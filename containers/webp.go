package containers

import (
	"bytes"
	"errors"

	"github.com/halverson/comfyscan/textscan"
)

var unicodeMarker = []byte("UNICODE")

// WebPBlobs walks the RIFF chunks of a WebP buffer to its EXIF chunk, then
// scans that chunk for the ASCII UNICODE marker. The comment text begins 8
// bytes after the marker start (marker plus NUL pad) and is recovered with
// the same even-byte extraction rule as JPEG.
func WebPBlobs(data []byte) ([]CandidateBlob, error) {
	exifData, err := webpExifChunk(data)
	if err != nil {
		return nil, err
	}
	if exifData == nil {
		return nil, nil
	}

	idx := bytes.Index(exifData, unicodeMarker)
	if idx == -1 {
		return nil, nil
	}
	text, ok := textscan.DecodeUTF16Packed(exifData[idx+8:])
	if !ok {
		return nil, nil
	}
	return []CandidateBlob{{Origin: "EXIF", Text: text}}, nil
}

// webpExifChunk returns the payload of the EXIF chunk, or nil when the file
// has none.
func webpExifChunk(data []byte) ([]byte, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
		return nil, errors.New("not a valid WebP file")
	}

	pos := 12
	for pos+8 <= len(data) {
		chunkType := string(data[pos : pos+4])
		size, err := textscan.Uint32LE(data, pos+4)
		if err != nil {
			break
		}
		payloadStart := pos + 8
		payloadEnd := payloadStart + int(size)
		if payloadEnd > len(data) {
			break
		}
		if chunkType == "EXIF" {
			return data[payloadStart:payloadEnd], nil
		}
		// chunks are padded to even sizes
		next := payloadEnd + int(size&1)
		if next <= pos {
			break
		}
		pos = next
	}
	return nil, nil
}
