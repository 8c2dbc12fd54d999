package http

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
)

const (
	// PhotoBoundary separates the parts of a photo upload body.
	PhotoBoundary = "---------------------------14737809831466499882746641449"

	// PhotoFieldName is the form field carrying the image.
	PhotoFieldName = "uploadedfile"

	// PhotoFileName is the file name reported for every uploaded image.
	PhotoFileName = "abc.png"
)

// EncodePNG renders img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// PhotoBody lays out pngData as a single-part multipart/form-data body.
func PhotoBody(pngData []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("\r\n--" + PhotoBoundary + "\r\n")
	buf.WriteString(`Content-Disposition: form-data; name="` + PhotoFieldName + `"; filename="` + PhotoFileName + "\"\r\n")
	buf.WriteString("Content-Type: application/octet-stream\r\n\r\n")
	buf.Write(pngData)
	buf.WriteString("\r\n--" + PhotoBoundary + "--\r\n")
	return buf.Bytes()
}

// NewPhotoRequest derives a POST request from base whose body is the
// multipart photo layout for pngData. base is not modified.
func NewPhotoRequest(base *Request, pngData []byte) (*Request, error) {
	return base.with(MethodPost,
		WithHeader("Content-Type", "multipart/form-data; boundary="+PhotoBoundary),
		WithBody(PhotoBody(pngData)),
	)
}

// UploadPhoto encodes img as PNG, posts it to base's URL and returns the
// raw outcome without JSON decoding.
func (c *Client) UploadPhoto(ctx context.Context, base *Request, img image.Image) (<-chan Outcome, error) {
	pngData, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}

	req, err := NewPhotoRequest(base, pngData)
	if err != nil {
		return nil, err
	}

	return c.Dispatch(ctx, req), nil
}
