// Package pipeline runs the REST/STRESS quality analysis end to end.
package pipeline

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/mrsinham/dicomqa/internal/config"
	"github.com/mrsinham/dicomqa/internal/dicom"
	"github.com/mrsinham/dicomqa/internal/logger"
	"github.com/mrsinham/dicomqa/internal/quality"
	"github.com/mrsinham/dicomqa/internal/render"
	"github.com/mrsinham/dicomqa/internal/util"
	"github.com/rs/zerolog"
)

// Figure file names written to the output directory.
const (
	RestOverviewFile   = "rest_overview.png"
	StressOverviewFile = "stress_overview.png"
	RestRegionsFile    = "rest_regions.png"
	StressRegionsFile  = "stress_regions.png"
	MotionFile         = "motion.png"
)

// Acquisition is one analyzed scan.
type Acquisition struct {
	Label     string
	Scan      *dicom.Scan
	Report    quality.Report
	Histogram []float64
}

// Result is the outcome of a run.
type Result struct {
	Rest         Acquisition
	Stress       Acquisition
	MotionMask   *quality.Mask
	MotionPixels int
	Figures      []string
}

// Run loads both acquisitions named by cfg, writes the text report to out
// and, when enabled, the figures to the output directory.
func Run(cfg *config.Config, out io.Writer, log zerolog.Logger) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	log = logger.Component(log, "pipeline")

	tags, err := resolveTags(cfg.Output.Tags)
	if err != nil {
		return nil, err
	}

	rest, err := analyze("REST", cfg.Input.DataDir, cfg.Input.Rest, cfg, log)
	if err != nil {
		return nil, err
	}
	stress, err := analyze("STRESS", cfg.Input.DataDir, cfg.Input.Stress, cfg, log)
	if err != nil {
		return nil, err
	}

	if cfg.Output.DumpMetadata {
		fmt.Fprintf(out, "%s metadata (%s)\n", rest.Label, rest.Scan.Path)
		fmt.Fprintln(out, "--------------------")
		if err := rest.Scan.WriteMetadata(out, tags); err != nil {
			return nil, fmt.Errorf("writing metadata: %w", err)
		}
		fmt.Fprintln(out)
	}

	for _, acq := range []Acquisition{rest, stress} {
		fmt.Fprintf(out, "%s quality\n", acq.Label)
		fmt.Fprintln(out, "--------------------")
		if err := acq.Report.Format(out); err != nil {
			return nil, fmt.Errorf("writing report: %w", err)
		}
		fmt.Fprintln(out)
	}

	motion, err := quality.MotionMask(rest.Scan.Image, stress.Scan.Image, int32(cfg.Thresholds.Motion))
	if err != nil {
		return nil, fmt.Errorf("motion mask: %w", err)
	}
	result := &Result{
		Rest:         rest,
		Stress:       stress,
		MotionMask:   motion,
		MotionPixels: motion.Count(),
	}
	total := rest.Scan.Image.Len()
	fmt.Fprintf(out, "Motion pixels:    %d of %d (%.2f%%)\n",
		result.MotionPixels, total, 100*float64(result.MotionPixels)/float64(total))
	log.Debug().Int("motion_pixels", result.MotionPixels).Int("threshold", cfg.Thresholds.Motion).Msg("motion mask computed")

	if cfg.Output.Plots {
		figures, err := writeFigures(cfg, result, log)
		if err != nil {
			return nil, err
		}
		result.Figures = figures
		fmt.Fprintf(out, "\nFigures written to %s\n", cfg.Output.Dir)
	}

	return result, nil
}

func resolveTags(names []string) ([]util.TagInfo, error) {
	var tags []util.TagInfo
	for _, name := range names {
		info, err := util.GetTagByName(name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, info)
	}
	return tags, nil
}

func analyze(label, dir, filename string, cfg *config.Config, log zerolog.Logger) (Acquisition, error) {
	scan, err := dicom.LoadScan(dir, filename)
	if err != nil {
		return Acquisition{}, fmt.Errorf("loading %s scan: %w", label, err)
	}
	log.Info().
		Str("scan", label).
		Str("path", scan.Path).
		Int("width", scan.Image.Width).
		Int("height", scan.Image.Height).
		Msg("scan loaded")

	report, err := quality.Analyze(scan.Image, uint16(cfg.Thresholds.Signal))
	if err != nil {
		return Acquisition{}, fmt.Errorf("analyzing %s scan: %w", label, err)
	}
	if report.NoisePixels == 0 {
		log.Warn().Str("scan", label).Msg("empty noise region, SNR and CNR are not finite")
	}
	if report.SignalPixels == 0 {
		log.Warn().Str("scan", label).Msg("empty signal region")
	}

	counts, err := quality.Histogram(scan.Image, cfg.Histogram.Bins, float64(cfg.Histogram.Range))
	if err != nil {
		return Acquisition{}, fmt.Errorf("histogram of %s scan: %w", label, err)
	}

	return Acquisition{Label: label, Scan: scan, Report: report, Histogram: counts}, nil
}

func writeFigures(cfg *config.Config, r *Result, log zerolog.Logger) ([]string, error) {
	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	restOverview, err := overview(r.Rest, cfg.Histogram.Range)
	if err != nil {
		return nil, err
	}
	stressOverview, err := overview(r.Stress, cfg.Histogram.Range)
	if err != nil {
		return nil, err
	}
	threshold := uint16(cfg.Thresholds.Signal)

	figures := []struct {
		name string
		img  image.Image
	}{
		{RestOverviewFile, restOverview},
		{StressOverviewFile, stressOverview},
		{RestRegionsFile, regions(r.Rest, threshold)},
		{StressRegionsFile, regions(r.Stress, threshold)},
		{MotionFile, render.Row(
			render.Image(r.Rest.Scan.Image, r.Rest.Label),
			render.Image(r.Stress.Scan.Image, r.Stress.Label),
			render.Mask(r.MotionMask, "motion"),
		)},
	}

	paths := make([]string, 0, len(figures))
	for _, fig := range figures {
		path := filepath.Join(cfg.Output.Dir, fig.name)
		if err := render.SavePNG(path, fig.img); err != nil {
			return nil, fmt.Errorf("writing figure: %w", err)
		}
		log.Debug().Str("path", path).Msg("figure written")
		paths = append(paths, path)
	}
	return paths, nil
}

// overview puts the scan next to its intensity histogram.
func overview(acq Acquisition, upper int) (image.Image, error) {
	hist, err := render.Histogram(acq.Histogram, float64(upper), acq.Label+" histogram")
	if err != nil {
		return nil, fmt.Errorf("%s histogram figure: %w", acq.Label, err)
	}
	return render.Row(render.Image(acq.Scan.Image, acq.Label), hist), nil
}

// regions shows the signal and noise masks side by side.
func regions(acq Acquisition, threshold uint16) image.Image {
	img := acq.Scan.Image
	return render.Row(
		render.Mask(quality.SignalMask(img, threshold), acq.Label+" signal"),
		render.Mask(quality.NoiseMask(img, threshold), acq.Label+" noise"),
	)
}
