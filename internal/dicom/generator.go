package dicom

import (
	"cmp"
	"fmt"
	"math"
	randv2 "math/rand/v2"
	"os"
	"path/filepath"
	"slices"

	"github.com/mrsinham/dicomqa/internal/util"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Default acquisition filenames expected in the data directory.
const (
	RestFilename   = "PMD8540804318002412548_s04_T1_REST_Frame_1__PCARDM1.dcm"
	StressFilename = "PMD1907987506279511791_s08_T1_STRESS02_Frame_1__PCARDM1.dcm"
)

const (
	mrImageStorage         = "1.2.840.10008.5.1.4.1.1.4"
	explicitVRLittleEndian = "1.2.840.10008.1.2.1"
	defaultPhantomSize     = 128
	defaultBodyLevel       = 150
	defaultPoolLevel       = 4000
	defaultPhantomStdDev   = 40.0
)

// PhantomOptions describes a synthetic short-axis cardiac slice: a zero
// background, a low-intensity body ellipse and a bright blood-pool disc.
type PhantomOptions struct {
	Path              string
	Size              int     // rows and columns
	Seed              uint64  // noise seed
	BodyLevel         uint16  // mean body intensity
	PoolLevel         uint16  // mean blood-pool intensity
	NoiseStdDev       float64 // gaussian noise standard deviation
	ShiftX, ShiftY    int     // blood-pool displacement in pixels
	SeriesDescription string
	SeriesNumber      int
	StudyID           string // shared by the acquisitions of one study
}

func (o *PhantomOptions) applyDefaults() {
	if o.Size == 0 {
		o.Size = defaultPhantomSize
	}
	if o.BodyLevel == 0 {
		o.BodyLevel = defaultBodyLevel
	}
	if o.PoolLevel == 0 {
		o.PoolLevel = defaultPoolLevel
	}
	if o.NoiseStdDev == 0 {
		o.NoiseStdDev = defaultPhantomStdDev
	}
	if o.SeriesDescription == "" {
		o.SeriesDescription = "T1 PHANTOM"
	}
	if o.SeriesNumber == 0 {
		o.SeriesNumber = 1
	}
	if o.StudyID == "" {
		o.StudyID = fmt.Sprintf("PHANTOM-%d", o.Seed)
	}
}

// writeDatasetToFile writes a DICOM dataset to a file
func writeDatasetToFile(filename string, ds dicom.Dataset, opts ...dicom.WriteOption) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return dicom.Write(f, ds, opts...)
}

// mustNewElement creates a new DICOM element, panicking on error.
func mustNewElement(t tag.Tag, value interface{}) *dicom.Element {
	elem, err := dicom.NewElement(t, value)
	if err != nil {
		panic(fmt.Sprintf("failed to create element %v: %v", t, err))
	}
	return elem
}

// PhantomPixels renders the phantom described by opts without writing it.
func PhantomPixels(opts PhantomOptions) []uint16 {
	opts.applyDefaults()
	size := opts.Size
	rng := randv2.New(randv2.NewPCG(opts.Seed, opts.Seed))

	center := float64(size) / 2
	bodyRX, bodyRY := 0.45*float64(size), 0.35*float64(size)
	poolR := 0.12 * float64(size)
	poolX, poolY := center+float64(opts.ShiftX), center+float64(opts.ShiftY)

	pixels := make([]uint16, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			fx, fy := float64(x)+0.5, float64(y)+0.5

			bx, by := (fx-center)/bodyRX, (fy-center)/bodyRY
			if bx*bx+by*by > 1 {
				continue
			}

			level := float64(opts.BodyLevel)
			if math.Hypot(fx-poolX, fy-poolY) <= poolR {
				level = float64(opts.PoolLevel)
			}

			v := level + rng.NormFloat64()*opts.NoiseStdDev
			// Inside the body nothing is background.
			pixels[y*size+x] = uint16(math.Max(1, math.Min(math.MaxUint16, math.Round(v))))
		}
	}
	return pixels
}

// GeneratePhantom writes a single-frame 16-bit MR phantom to opts.Path.
func GeneratePhantom(opts PhantomOptions) error {
	if opts.Path == "" {
		return fmt.Errorf("phantom path is required")
	}
	if opts.Size < 0 {
		return fmt.Errorf("invalid phantom size: %d", opts.Size)
	}
	opts.applyDefaults()
	size := opts.Size

	nativeFrame := frame.NewNativeFrame[uint16](16, size, size, size*size, 1)
	copy(nativeFrame.RawData, PhantomPixels(opts))

	pixelDataInfo := dicom.PixelDataInfo{
		Frames: []*frame.Frame{
			{
				Encapsulated: false,
				NativeData:   nativeFrame,
			},
		},
	}

	elements := append(phantomMetadata(opts), mustNewElement(tag.PixelData, pixelDataInfo))
	if err := writeDatasetToFile(opts.Path, dicom.Dataset{Elements: elements}); err != nil {
		return fmt.Errorf("write phantom %s: %w", opts.Path, err)
	}
	return nil
}

func phantomMetadata(opts PhantomOptions) []*dicom.Element {
	key := fmt.Sprintf("%s_%d_%d", opts.SeriesDescription, opts.SeriesNumber, opts.Seed)
	studyUID := util.DeterministicUID("study_" + opts.StudyID)
	seriesUID := util.DeterministicUID("series_" + key)
	sopInstanceUID := util.DeterministicUID("instance_" + key)

	elements := []*dicom.Element{
		mustNewElement(tag.TransferSyntaxUID, []string{explicitVRLittleEndian}),
		mustNewElement(tag.MediaStorageSOPClassUID, []string{mrImageStorage}),
		mustNewElement(tag.MediaStorageSOPInstanceUID, []string{sopInstanceUID}),
		mustNewElement(tag.PatientName, []string{"PHANTOM^CARDIAC"}),
		mustNewElement(tag.PatientID, []string{"PHANTOM"}),
		mustNewElement(tag.StudyInstanceUID, []string{studyUID}),
		mustNewElement(tag.StudyDescription, []string{"CARDIAC PERFUSION PHANTOM"}),
		mustNewElement(tag.SeriesInstanceUID, []string{seriesUID}),
		mustNewElement(tag.SeriesNumber, []string{fmt.Sprintf("%d", opts.SeriesNumber)}),
		mustNewElement(tag.SeriesDescription, []string{opts.SeriesDescription}),
		mustNewElement(tag.Modality, []string{"MR"}),
		mustNewElement(tag.SOPClassUID, []string{mrImageStorage}),
		mustNewElement(tag.SOPInstanceUID, []string{sopInstanceUID}),
		mustNewElement(tag.InstanceNumber, []string{"1"}),
		mustNewElement(tag.ProtocolName, []string{opts.SeriesDescription}),
		mustNewElement(tag.Rows, []int{opts.Size}),
		mustNewElement(tag.Columns, []int{opts.Size}),
		mustNewElement(tag.BitsAllocated, []int{16}),
		mustNewElement(tag.BitsStored, []int{16}),
		mustNewElement(tag.HighBit, []int{15}),
		mustNewElement(tag.PixelRepresentation, []int{0}),
		mustNewElement(tag.SamplesPerPixel, []int{1}),
		mustNewElement(tag.PhotometricInterpretation, []string{"MONOCHROME2"}),
	}
	elements = append(elements, cardiacAcquisition(opts.StudyID).elements()...)

	slices.SortFunc(elements, func(a, b *dicom.Element) int {
		return cmp.Or(cmp.Compare(a.Tag.Group, b.Tag.Group), cmp.Compare(a.Tag.Element, b.Tag.Element))
	})
	return elements
}

// GeneratePhantomPair writes a REST phantom and a STRESS phantom, whose blood
// pool is displaced by shift pixels, under the default filenames in dir.
// It returns the two written paths.
func GeneratePhantomPair(dir string, size int, seed uint64, shift int) (rest, stress string, err error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("create output directory: %w", err)
	}

	studyID := fmt.Sprintf("PHANTOM-%d", seed)
	rest = filepath.Join(dir, RestFilename)
	if err := GeneratePhantom(PhantomOptions{
		Path:              rest,
		Size:              size,
		Seed:              seed,
		SeriesDescription: "T1 REST",
		SeriesNumber:      4,
		StudyID:           studyID,
	}); err != nil {
		return "", "", err
	}

	stress = filepath.Join(dir, StressFilename)
	if err := GeneratePhantom(PhantomOptions{
		Path:              stress,
		Size:              size,
		Seed:              seed + 1,
		ShiftX:            shift,
		SeriesDescription: "T1 STRESS02",
		SeriesNumber:      8,
		StudyID:           studyID,
	}); err != nil {
		return "", "", err
	}

	return rest, stress, nil
}
