package containers

import (
	"bytes"
	"io"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/halverson/comfyscan/textscan"
)

// exifFields is the fixed, ordered list of EXIF fields probed for embedded
// generation metadata. Order matters: the classifier accepts the first
// candidate that passes its heuristics.
var exifFields = []exif.FieldName{
	exif.UserComment,
	exif.ImageDescription,
	exif.XPComment,
	exif.XPKeywords,
	exif.Software,
	exif.Artist,
	exif.Copyright,
	exif.FieldName("Comment"),
}

// JPEGBlobs decodes the EXIF block of a JPEG buffer and returns the text
// recovered from the probed fields, in field order. ASCII fields pass
// through verbatim; byte-valued fields (UserComment, the XP* tags) are
// treated as packed UTF-16 and go through the even-byte recovery rule.
// Fields too short to decode are discarded.
func JPEGBlobs(data []byte) ([]CandidateBlob, error) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return exifBlobs(x), nil
}

// JPEGBlobsFromReader is JPEGBlobs over a stream.
func JPEGBlobsFromReader(r io.Reader) ([]CandidateBlob, error) {
	x, err := exif.Decode(r)
	if err != nil {
		return nil, err
	}
	return exifBlobs(x), nil
}

func exifBlobs(x *exif.Exif) []CandidateBlob {
	retv := make([]CandidateBlob, 0)
	for _, field := range exifFields {
		tag, err := x.Get(field)
		if err != nil || tag == nil {
			continue
		}
		text, ok := decodeExifTag(tag)
		if !ok {
			continue
		}
		retv = append(retv, CandidateBlob{Origin: string(field), Text: text})
	}
	return retv
}

func decodeExifTag(tag *tiff.Tag) (string, bool) {
	if tag.Format() == tiff.StringVal {
		s, err := tag.StringVal()
		if err != nil || len(s) == 0 {
			return "", false
		}
		return s, true
	}
	// byte-valued tag: packed UTF-16 with an optional UNICODE header
	return textscan.DecodeUTF16Packed(tag.Val)
}
