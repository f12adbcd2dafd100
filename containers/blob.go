// Package containers locates candidate metadata text blobs inside image and
// video containers. Each locator walks one container format and returns the
// text spans it finds, tagged with the field or chunk keyword they came
// from, ordered most-likely-relevant first. Classification of the blobs is
// the extract package's job.
package containers

// CandidateBlob is one span of text pulled from a container metadata field,
// tagged with the field name it came from.
type CandidateBlob struct {
	Origin string
	Text   string
}
