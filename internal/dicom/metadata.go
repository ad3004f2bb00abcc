package dicom

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/mrsinham/dicomqa/internal/util"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// maxValueLength caps printed values; sequences and private blobs can be very long.
const maxValueLength = 120

// fileMetaGroup holds the file meta information header, which is not part of the dataset.
const fileMetaGroup = 0x0002

// MetadataEntry is one top-level dataset element rendered as text.
type MetadataEntry struct {
	Tag   tag.Tag
	Name  string
	VR    string
	Value string
}

// String formats the entry as "(gggg,eeee) Name VR: value".
func (e MetadataEntry) String() string {
	return fmt.Sprintf("%s %s %s: %s", e.Tag, e.Name, e.VR, e.Value)
}

func metadataFromDataset(ds dicom.Dataset) []MetadataEntry {
	entries := make([]MetadataEntry, 0, len(ds.Elements))
	for _, elem := range ds.Elements {
		if elem.Tag.Group == fileMetaGroup {
			continue
		}
		name := "Unknown"
		if info, err := tag.Find(elem.Tag); err == nil {
			name = info.Name
		} else if elem.Tag.Group%2 == 1 {
			name = "Private"
		}

		var value string
		if elem.Tag == tag.PixelData {
			value = describePixelData(elem)
		} else {
			value = truncate(elem.Value.String(), maxValueLength)
		}

		entries = append(entries, MetadataEntry{
			Tag:   elem.Tag,
			Name:  name,
			VR:    elem.RawValueRepresentation,
			Value: value,
		})
	}
	return entries
}

func describePixelData(elem *dicom.Element) string {
	info, ok := elem.Value.GetValue().(dicom.PixelDataInfo)
	if !ok {
		return "<pixel data>"
	}
	return fmt.Sprintf("<pixel data: %d frame(s)>", len(info.Frames))
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

// Lookup returns the entry with the given tag.
func (s *Scan) Lookup(t tag.Tag) (MetadataEntry, bool) {
	for _, e := range s.Metadata {
		if e.Tag == t {
			return e, true
		}
	}
	return MetadataEntry{}, false
}

// WriteMetadata prints one line per metadata entry. When only is non-empty,
// just those tags are printed, in the order given.
func (s *Scan) WriteMetadata(w io.Writer, only []util.TagInfo) error {
	var b strings.Builder
	if len(only) == 0 {
		for _, e := range s.Metadata {
			b.WriteString(e.String())
			b.WriteByte('\n')
		}
	} else {
		for _, info := range only {
			if e, ok := s.Lookup(info.Tag); ok {
				b.WriteString(e.String())
			} else {
				fmt.Fprintf(&b, "%s %s: <absent>", info.Tag, info.Name)
			}
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
