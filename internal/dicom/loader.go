// Package dicom reads single-frame DICOM acquisitions into quality images and
// writes synthetic phantom acquisitions.
package dicom

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/mrsinham/dicomqa/internal/quality"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"
)

var (
	// ErrParse is returned when a file is missing or cannot be decoded.
	ErrParse = errors.New("cannot parse DICOM file")
	// ErrNoPixelData is returned when the dataset carries no PixelData element.
	ErrNoPixelData = errors.New("no pixel data")
	// ErrUnsupportedPixelData is returned for compressed, multi-sample or signed pixel data.
	ErrUnsupportedPixelData = errors.New("unsupported pixel data")
)

// Scan is a decoded acquisition: the first frame as an image plus the dataset metadata.
type Scan struct {
	Path     string
	Image    *quality.Image
	Metadata []MetadataEntry
}

// LoadScan reads filename from dir.
func LoadScan(dir, filename string) (*Scan, error) {
	return LoadFile(filepath.Join(dir, filename))
}

// LoadFile reads and decodes the DICOM file at path.
func LoadFile(path string) (*Scan, error) {
	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrParse, path, err)
	}

	// The decoder reads 16-bit samples as unsigned whatever PixelRepresentation says.
	if signed(ds) {
		return nil, fmt.Errorf("%s: %w: signed samples", path, ErrUnsupportedPixelData)
	}

	pixelDataElem, err := ds.FindElementByTag(tag.PixelData)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, ErrNoPixelData)
	}
	info, ok := pixelDataElem.Value.GetValue().(dicom.PixelDataInfo)
	if !ok {
		return nil, fmt.Errorf("%s: %w: unexpected value type %T", path, ErrUnsupportedPixelData, pixelDataElem.Value.GetValue())
	}
	if len(info.Frames) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoPixelData)
	}

	img, err := imageFromFrame(info.Frames[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &Scan{
		Path:     path,
		Image:    img,
		Metadata: metadataFromDataset(ds),
	}, nil
}

// signed reports whether PixelRepresentation marks two's complement samples.
func signed(ds dicom.Dataset) bool {
	elem, err := ds.FindElementByTag(tag.PixelRepresentation)
	if err != nil {
		return false
	}
	v, ok := elem.Value.GetValue().([]int)
	return ok && len(v) > 0 && v[0] == 1
}

// imageFromFrame copies a native single-sample frame into a quality.Image.
// 8-bit samples are widened to 16 bits without rescaling.
func imageFromFrame(f *frame.Frame) (*quality.Image, error) {
	if f.Encapsulated || f.NativeData == nil {
		return nil, fmt.Errorf("%w: encapsulated frame", ErrUnsupportedPixelData)
	}

	nf := f.NativeData
	if spp := nf.SamplesPerPixel(); spp != 1 {
		return nil, fmt.Errorf("%w: %d samples per pixel", ErrUnsupportedPixelData, spp)
	}
	width, height := nf.Cols(), nf.Rows()
	size := width * height

	pixels := make([]uint16, size)
	switch native := nf.(type) {
	case *frame.NativeFrame[uint16]:
		if len(native.RawData) < size {
			return nil, fmt.Errorf("%w: %d samples for %dx%d", ErrUnsupportedPixelData, len(native.RawData), width, height)
		}
		copy(pixels, native.RawData[:size])
	case *frame.NativeFrame[uint8]:
		if len(native.RawData) < size {
			return nil, fmt.Errorf("%w: %d samples for %dx%d", ErrUnsupportedPixelData, len(native.RawData), width, height)
		}
		for i, v := range native.RawData[:size] {
			pixels[i] = uint16(v)
		}
	default:
		return nil, fmt.Errorf("%w: sample type %T", ErrUnsupportedPixelData, nf)
	}

	return quality.NewImage(width, height, pixels)
}
