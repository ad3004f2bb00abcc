// Package util provides helpers shared by the loader, the phantom generator and the CLI.
package util

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/suyashkumar/dicom/pkg/tag"
)

// TagGroup classifies a tag by the part of the acquisition it describes.
type TagGroup int

const (
	// GroupPatient covers patient identification.
	GroupPatient TagGroup = iota
	// GroupStudy covers study and series identification.
	GroupStudy
	// GroupAcquisition covers scanner and sequence parameters.
	GroupAcquisition
	// GroupImage covers pixel layout and display.
	GroupImage
)

// String returns the string representation of a TagGroup.
func (g TagGroup) String() string {
	switch g {
	case GroupPatient:
		return "Patient"
	case GroupStudy:
		return "Study"
	case GroupAcquisition:
		return "Acquisition"
	case GroupImage:
		return "Image"
	default:
		return "Unknown"
	}
}

// TagInfo describes a tag that can be selected by name.
type TagInfo struct {
	Name  string
	Tag   tag.Tag
	Group TagGroup
}

// tagRegistry maps lowercase tag names to their TagInfo.
var tagRegistry = map[string]TagInfo{
	"patientname": {Name: "PatientName", Tag: tag.PatientName, Group: GroupPatient},
	"patientid":   {Name: "PatientID", Tag: tag.PatientID, Group: GroupPatient},
	"patientsex":  {Name: "PatientSex", Tag: tag.PatientSex, Group: GroupPatient},

	"studydescription":  {Name: "StudyDescription", Tag: tag.StudyDescription, Group: GroupStudy},
	"studydate":         {Name: "StudyDate", Tag: tag.StudyDate, Group: GroupStudy},
	"seriesdescription": {Name: "SeriesDescription", Tag: tag.SeriesDescription, Group: GroupStudy},
	"seriesnumber":      {Name: "SeriesNumber", Tag: tag.SeriesNumber, Group: GroupStudy},
	"instancenumber":    {Name: "InstanceNumber", Tag: tag.InstanceNumber, Group: GroupStudy},
	"modality":          {Name: "Modality", Tag: tag.Modality, Group: GroupStudy},
	"sopinstanceuid":    {Name: "SOPInstanceUID", Tag: tag.SOPInstanceUID, Group: GroupStudy},

	"manufacturer":          {Name: "Manufacturer", Tag: tag.Manufacturer, Group: GroupAcquisition},
	"manufacturermodelname": {Name: "ManufacturerModelName", Tag: tag.ManufacturerModelName, Group: GroupAcquisition},
	"protocolname":          {Name: "ProtocolName", Tag: tag.ProtocolName, Group: GroupAcquisition},
	"magneticfieldstrength": {Name: "MagneticFieldStrength", Tag: tag.MagneticFieldStrength, Group: GroupAcquisition},
	"repetitiontime":        {Name: "RepetitionTime", Tag: tag.RepetitionTime, Group: GroupAcquisition},
	"echotime":              {Name: "EchoTime", Tag: tag.EchoTime, Group: GroupAcquisition},
	"triggertime":           {Name: "TriggerTime", Tag: tag.TriggerTime, Group: GroupAcquisition},
	"slicethickness":        {Name: "SliceThickness", Tag: tag.SliceThickness, Group: GroupAcquisition},
	"acquisitiontime":       {Name: "AcquisitionTime", Tag: tag.AcquisitionTime, Group: GroupAcquisition},

	"rows":                      {Name: "Rows", Tag: tag.Rows, Group: GroupImage},
	"columns":                   {Name: "Columns", Tag: tag.Columns, Group: GroupImage},
	"bitsallocated":             {Name: "BitsAllocated", Tag: tag.BitsAllocated, Group: GroupImage},
	"bitsstored":                {Name: "BitsStored", Tag: tag.BitsStored, Group: GroupImage},
	"pixelspacing":              {Name: "PixelSpacing", Tag: tag.PixelSpacing, Group: GroupImage},
	"photometricinterpretation": {Name: "PhotometricInterpretation", Tag: tag.PhotometricInterpretation, Group: GroupImage},
	"windowcenter":              {Name: "WindowCenter", Tag: tag.WindowCenter, Group: GroupImage},
	"windowwidth":               {Name: "WindowWidth", Tag: tag.WindowWidth, Group: GroupImage},
}

// GetTagByName returns TagInfo for a given tag name.
// The lookup is case-insensitive. If the tag is not found, an error is returned
// with a suggestion for the closest matching tag name (using Levenshtein distance).
func GetTagByName(name string) (TagInfo, error) {
	normalizedName := strings.ToLower(strings.TrimSpace(name))

	if info, ok := tagRegistry[normalizedName]; ok {
		return info, nil
	}

	suggestion := findClosestTagName(normalizedName)
	if suggestion != "" {
		return TagInfo{}, fmt.Errorf("unknown tag %q, did you mean %q?", name, suggestion)
	}

	return TagInfo{}, fmt.Errorf("unknown tag %q", name)
}

// ParseTagList parses a comma-separated list of tag names. Empty input gives nil.
func ParseTagList(s string) ([]TagInfo, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var infos []TagInfo
	var errs []error
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		info, err := GetTagByName(part)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		infos = append(infos, info)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return infos, nil
}

// TagsInGroup returns the registered tags of a group sorted by name.
func TagsInGroup(g TagGroup) []TagInfo {
	var out []TagInfo
	for _, info := range tagRegistry {
		if info.Group == g {
			out = append(out, info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// findClosestTagName finds the closest matching tag name using Levenshtein distance.
// Returns empty string if no close match is found (distance > 5).
func findClosestTagName(input string) string {
	const maxDistance = 5
	bestDistance := maxDistance + 1
	var bestMatch string

	for key, info := range tagRegistry {
		distance := levenshteinDistance(input, key)
		if distance < bestDistance || (distance == bestDistance && info.Name < bestMatch) {
			bestDistance = distance
			bestMatch = info.Name
		}
	}

	if bestDistance <= maxDistance {
		return bestMatch
	}
	return ""
}

// levenshteinDistance calculates the minimum number of single-character
// insertions, deletions or substitutions turning a into b.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
