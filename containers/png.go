package containers

import (
	"bytes"
	"errors"

	"github.com/halverson/comfyscan/textscan"
)

var pngSignature = []byte{137, 80, 78, 71, 13, 10, 26, 10}

// PNGTextChunks walks the chunk stream of a PNG buffer and returns the
// contents of every tEXt chunk as a candidate blob keyed by the chunk's
// keyword. Chunks other than tEXt are skipped over. The walk stops at the
// first truncated or corrupt length field; a position that fails to
// strictly advance aborts the walk rather than looping forever.
func PNGTextChunks(data []byte) ([]CandidateBlob, error) {
	if !bytes.HasPrefix(data, pngSignature) {
		return nil, errors.New("not a valid PNG file")
	}

	retv := make([]CandidateBlob, 0)
	pos := len(pngSignature)
	for pos < len(data) {
		length, err := textscan.Uint32BE(data, pos)
		if err != nil {
			break
		}
		typeStart := pos + 4
		payloadStart := typeStart + 4
		payloadEnd := payloadStart + int(length)
		// payload + 4-byte CRC
		next := payloadEnd + 4
		if payloadEnd > len(data) || next <= pos {
			break
		}

		if string(data[typeStart:payloadStart]) == "tEXt" {
			keyword, text, ok := textscan.SplitNul(data[payloadStart:payloadEnd])
			if ok {
				retv = append(retv, CandidateBlob{
					Origin: string(keyword),
					Text:   string(text),
				})
			}
		}
		pos = next
	}
	return retv, nil
}
