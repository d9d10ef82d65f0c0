package service

import (
	"bytes"
	"fmt"
	"io"

	"github.com/disintegration/imaging"

	"github.com/DukeRupert/schooldash/internal/domain"
)

// PhotoProcessor turns an uploaded image into the stored profile photo.
type PhotoProcessor interface {
	// Square decodes data, crops it to a centred size x size square and
	// re-encodes it as JPEG.
	Square(data io.Reader, size int) ([]byte, error)
}

type imagingProcessor struct{}

// NewImagingProcessor returns a PhotoProcessor backed by disintegration/imaging.
func NewImagingProcessor() PhotoProcessor {
	return &imagingProcessor{}
}

func (p *imagingProcessor) Square(data io.Reader, size int) ([]byte, error) {
	img, err := imaging.Decode(data, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	square := imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, square, imaging.JPEG, imaging.JPEGQuality(domain.PhotoJPEGQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode photo: %w", err)
	}
	return buf.Bytes(), nil
}
