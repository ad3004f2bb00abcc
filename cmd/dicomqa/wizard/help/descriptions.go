package help

// HelpText contains information about a field
type HelpText struct {
	Section     string // form group the field belongs to
	Title       string
	Description string
	Details     string
}

// Texts contains help information for all wizard fields, keyed by form field key.
var Texts = map[string]HelpText{
	"data_dir": {
		Section:     "Input",
		Title:       "DATA DIRECTORY",
		Description: "Directory holding the REST and STRESS DICOM files.",
		Details:     "Use `dicomqa phantom --output <dir>` to create a synthetic pair.",
	},
	"rest": {
		Section:     "Input",
		Title:       "REST FILE",
		Description: "Filename of the rest acquisition, relative to the data directory.",
		Details:     "Only the first frame is analyzed. Its metadata is the one printed.",
	},
	"stress": {
		Section:     "Input",
		Title:       "STRESS FILE",
		Description: "Filename of the stress acquisition, relative to the data directory.",
		Details:     "Must have the same rows and columns as the rest acquisition.",
	},
	"threshold": {
		Section:     "Analysis",
		Title:       "SIGNAL THRESHOLD",
		Description: "Raw intensity separating signal from noise.",
		Details: `Signal: intensity > threshold
Noise:  0 < intensity < threshold
Zero pixels are background and belong to neither region.`,
	},
	"motion_threshold": {
		Section:     "Analysis",
		Title:       "MOTION THRESHOLD",
		Description: "Absolute REST/STRESS difference above which a pixel counts as moved.",
		Details:     "The comparison is pointwise. No registration is applied.",
	},
	"dump_metadata": {
		Section:     "Output",
		Title:       "METADATA DUMP",
		Description: "Print the REST dataset elements before the report.",
	},
	"tags": {
		Section:     "Output",
		Title:       "TAG FILTER",
		Description: "Comma-separated tag names to print instead of the full dataset.",
		Details:     "Example: PatientID,SeriesDescription,EchoTime. Names are case-insensitive.",
	},
	"plots": {
		Section:     "Output",
		Title:       "FIGURES",
		Description: "Write PNG figures of the scans, histograms and masks.",
	},
	"output": {
		Section:     "Output",
		Title:       "OUTPUT DIRECTORY",
		Description: "Directory where PNG figures are written.",
		Details:     "Created if it does not exist. Existing figures are overwritten.",
	},
	"log_level": {
		Section:     "Output",
		Title:       "LOG LEVEL",
		Description: "Verbosity of diagnostics written to stderr.",
	},
}
