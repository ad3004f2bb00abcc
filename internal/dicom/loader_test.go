package dicom

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/mrsinham/dicomqa/internal/quality"
	"github.com/mrsinham/dicomqa/internal/util"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"
)

func writePhantom(t *testing.T, opts PhantomOptions) string {
	t.Helper()
	if opts.Path == "" {
		opts.Path = filepath.Join(t.TempDir(), "phantom.dcm")
	}
	if err := GeneratePhantom(opts); err != nil {
		t.Fatalf("GeneratePhantom failed: %v", err)
	}
	return opts.Path
}

func TestLoadFile_Phantom(t *testing.T) {
	path := writePhantom(t, PhantomOptions{Size: 64, Seed: 7, SeriesDescription: "T1 REST"})

	scan, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if scan.Image.Width != 64 || scan.Image.Height != 64 {
		t.Errorf("Expected 64x64 image, got %dx%d", scan.Image.Width, scan.Image.Height)
	}
	if scan.Path != path {
		t.Errorf("Scan.Path = %q, want %q", scan.Path, path)
	}

	want := PhantomPixels(PhantomOptions{Size: 64, Seed: 7})
	for i := range want {
		if scan.Image.Pix[i] != want[i] {
			t.Fatalf("Pixel %d = %d, want %d", i, scan.Image.Pix[i], want[i])
		}
	}
}

func TestLoadScan_JoinsDirectory(t *testing.T) {
	dir := t.TempDir()
	writePhantom(t, PhantomOptions{Path: filepath.Join(dir, "a.dcm"), Size: 16})

	scan, err := LoadScan(dir, "a.dcm")
	if err != nil {
		t.Fatalf("LoadScan failed: %v", err)
	}
	if scan.Image.Len() != 256 {
		t.Errorf("Expected 256 pixels, got %d", scan.Image.Len())
	}
}

func TestLoadFile_Metadata(t *testing.T) {
	path := writePhantom(t, PhantomOptions{Size: 16, SeriesDescription: "T1 STRESS02", SeriesNumber: 8})

	scan, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	desc, ok := scan.Lookup(tag.SeriesDescription)
	if !ok {
		t.Fatal("SeriesDescription should be present")
	}
	if !strings.Contains(desc.Value, "T1 STRESS02") {
		t.Errorf("SeriesDescription = %q, want it to contain T1 STRESS02", desc.Value)
	}
	if desc.Name != "SeriesDescription" {
		t.Errorf("Entry name = %q, want SeriesDescription", desc.Name)
	}

	for _, e := range scan.Metadata {
		if e.Tag.Group == fileMetaGroup {
			t.Errorf("File meta element %s should not be listed", e)
		}
	}
	if _, ok := scan.Lookup(tag.TransferSyntaxUID); ok {
		t.Error("TransferSyntaxUID belongs to the file meta header")
	}

	pixels, ok := scan.Lookup(tag.PixelData)
	if !ok {
		t.Fatal("PixelData entry should be present")
	}
	if pixels.Value != "<pixel data: 1 frame(s)>" {
		t.Errorf("PixelData value = %q", pixels.Value)
	}
}

func TestWriteMetadata(t *testing.T) {
	path := writePhantom(t, PhantomOptions{Size: 16})
	scan, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	var all bytes.Buffer
	if err := scan.WriteMetadata(&all, nil); err != nil {
		t.Fatalf("WriteMetadata failed: %v", err)
	}
	if lines := strings.Count(all.String(), "\n"); lines != len(scan.Metadata) {
		t.Errorf("Expected %d lines, got %d", len(scan.Metadata), lines)
	}
	if !strings.Contains(all.String(), "PatientName") {
		t.Errorf("Full dump should list PatientName:\n%s", all.String())
	}

	only, err := util.ParseTagList("Modality,TriggerTime")
	if err != nil {
		t.Fatalf("ParseTagList failed: %v", err)
	}
	var some bytes.Buffer
	if err := scan.WriteMetadata(&some, only); err != nil {
		t.Fatalf("WriteMetadata failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(some.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d:\n%s", len(lines), some.String())
	}
	if !strings.Contains(lines[0], "Modality") || !strings.Contains(lines[0], "MR") {
		t.Errorf("First line should be Modality MR, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "<absent>") {
		t.Errorf("TriggerTime is not written by the phantom, got %q", lines[1])
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.dcm"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !errors.Is(err, ErrParse) {
		t.Errorf("Expected ErrParse, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected the open error to stay in the chain, got %v", err)
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.dcm")
	if err := os.WriteFile(path, []byte("not a dicom file"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(path)
	if !errors.Is(err, ErrParse) {
		t.Errorf("Expected ErrParse, got %v", err)
	}
}

func TestLoadFile_NoPixelData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "header-only.dcm")
	opts := PhantomOptions{Size: 8}
	opts.applyDefaults()
	if err := writeDatasetToFile(path, dicom.Dataset{Elements: phantomMetadata(opts)}); err != nil {
		t.Fatalf("writeDatasetToFile failed: %v", err)
	}

	_, err := LoadFile(path)
	if !errors.Is(err, ErrNoPixelData) {
		t.Errorf("Expected ErrNoPixelData, got %v", err)
	}
}

func TestLoadFile_AnalyzablePhantom(t *testing.T) {
	path := writePhantom(t, PhantomOptions{Size: 96, Seed: 3})
	scan, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	r, err := quality.Analyze(scan.Image, quality.DefaultThreshold)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if r.SignalPixels == 0 || r.NoisePixels == 0 || r.BackgroundPixels == 0 {
		t.Errorf("Phantom should have all three regions, got signal=%d noise=%d background=%d",
			r.SignalPixels, r.NoisePixels, r.BackgroundPixels)
	}
	if r.SNR <= 1 {
		t.Errorf("Phantom SNR = %v, expected well above 1", r.SNR)
	}
}

// writeFrame writes a 2x2 phantom header with the given sample layout followed
// by pixelData, and returns the file path.
func writeFrame(t *testing.T, bits, pixelRepresentation int, pixelData *dicom.Element) string {
	t.Helper()
	opts := PhantomOptions{Size: 2}
	opts.applyDefaults()

	var elements []*dicom.Element
	for _, e := range phantomMetadata(opts) {
		switch e.Tag {
		case tag.BitsAllocated, tag.BitsStored:
			e = mustNewElement(e.Tag, []int{bits})
		case tag.HighBit:
			e = mustNewElement(e.Tag, []int{bits - 1})
		case tag.PixelRepresentation:
			e = mustNewElement(e.Tag, []int{pixelRepresentation})
		}
		elements = append(elements, e)
	}

	path := filepath.Join(t.TempDir(), "frame.dcm")
	if err := writeDatasetToFile(path, dicom.Dataset{Elements: append(elements, pixelData)}); err != nil {
		t.Fatalf("writeDatasetToFile failed: %v", err)
	}
	return path
}

func nativePixelData(nf frame.INativeFrame) *dicom.Element {
	return mustNewElement(tag.PixelData, dicom.PixelDataInfo{
		Frames: []*frame.Frame{{NativeData: nf}},
	})
}

func TestLoadFile_EightBitWidened(t *testing.T) {
	nf := frame.NewNativeFrame[uint8](8, 2, 2, 4, 1)
	copy(nf.RawData, []uint8{0, 7, 200, 255})

	scan, err := LoadFile(writeFrame(t, 8, 0, nativePixelData(nf)))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if want := []uint16{0, 7, 200, 255}; !reflect.DeepEqual(scan.Image.Pix, want) {
		t.Errorf("Pix = %v, want %v", scan.Image.Pix, want)
	}
}

func TestLoadFile_UnsupportedPixelData(t *testing.T) {
	signed := frame.NewNativeFrame[uint16](16, 2, 2, 4, 1)
	copy(signed.RawData, []uint16{0xFFFF, 100, 500, 0})

	wide := frame.NewNativeFrame[uint32](32, 2, 2, 4, 1)
	copy(wide.RawData, []uint32{1, 2, 3, 4})

	encapsulated := &dicom.Element{
		Tag:                    tag.PixelData,
		ValueRepresentation:    tag.VRPixelData,
		RawValueRepresentation: "OB",
		ValueLength:            tag.VLUndefinedLength,
	}
	value, err := dicom.NewValue(dicom.PixelDataInfo{
		IsEncapsulated: true,
		Frames: []*frame.Frame{
			{Encapsulated: true, EncapsulatedData: frame.EncapsulatedFrame{Data: []byte{1, 2, 3, 4}}},
		},
	})
	if err != nil {
		t.Fatalf("NewValue failed: %v", err)
	}
	encapsulated.Value = value

	tests := []struct {
		name      string
		bits      int
		signed    int
		pixelData *dicom.Element
	}{
		{"signed 16-bit", 16, 1, nativePixelData(signed)},
		{"32-bit samples", 32, 0, nativePixelData(wide)},
		{"encapsulated", 8, 0, encapsulated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scan, err := LoadFile(writeFrame(t, tt.bits, tt.signed, tt.pixelData))
			if !errors.Is(err, ErrUnsupportedPixelData) {
				t.Fatalf("Expected ErrUnsupportedPixelData, got %v", err)
			}
			if scan != nil {
				t.Errorf("Expected no scan, got %+v", scan.Image)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q, want unchanged", got)
	}
	if got := truncate("abcdef", 3); got != "abc..." {
		t.Errorf("truncate = %q, want abc...", got)
	}

	// Each é is two bytes; cutting at 3 would split the second one.
	got := truncate(strings.Repeat("é", 5), 3)
	if got != "é..." {
		t.Errorf("truncate = %q, want é...", got)
	}
	if !utf8.ValidString(got) {
		t.Errorf("truncate produced invalid UTF-8: %q", got)
	}
}
