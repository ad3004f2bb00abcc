package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrsinham/dicomqa/cmd/dicomqa/wizard"
	"github.com/mrsinham/dicomqa/internal/config"
	"github.com/mrsinham/dicomqa/internal/dicom"
	"github.com/mrsinham/dicomqa/internal/logger"
	"github.com/mrsinham/dicomqa/internal/pipeline"
	"github.com/mrsinham/dicomqa/internal/util"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	// Subcommands are checked before flag parsing
	if len(args) > 0 {
		switch args[0] {
		case "phantom":
			return runPhantom(args[1:], stdout, stderr)
		case "wizard":
			return runWizard(args[1:], stdout, stderr)
		}
	}

	fs := flag.NewFlagSet("dicomqa", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configFile := fs.String("config", "", "Load configuration from YAML file")
	saveConfig := fs.String("save-config", "", "Save the effective configuration to YAML file (after the run)")

	dataDir := fs.String("data-dir", "", "Directory holding the DICOM files (default: data)")
	rest := fs.String("rest", "", "REST acquisition filename")
	stress := fs.String("stress", "", "STRESS acquisition filename")

	threshold := fs.Int("threshold", 0, "Signal threshold in raw intensity units (default: 300)")
	motionThreshold := fs.Int("motion-threshold", -1, "Motion threshold in raw intensity units (default: 3000)")

	outputDir := fs.String("output", "", "Directory for PNG figures (default: plots)")
	noPlots := fs.Bool("no-plots", false, "Do not write figures")
	noMetadata := fs.Bool("no-metadata", false, "Do not print the REST metadata")
	tags := fs.String("tags", "", "Comma-separated tag names to print instead of the full metadata")
	logLevel := fs.String("log-level", "", "Diagnostics level: debug, info, warn, error (default: info)")

	interactive := fs.Bool("interactive", false, "Launch interactive wizard")
	fs.BoolVar(interactive, "i", false, "Launch interactive wizard (shortcut)")

	help := fs.Bool("help", false, "Show help message")
	showVersion := fs.Bool("version", false, "Show version")

	fs.Usage = func() { printUsage(stderr, fs) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printHelp(stdout)
			return 0
		}
		return 1
	}

	if *showVersion {
		fmt.Fprintf(stdout, "dicomqa %s\n", version)
		return 0
	}
	if *help {
		printHelp(stdout)
		return 0
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: unexpected argument %q\n", fs.Arg(0))
		printUsage(stderr, fs)
		return 1
	}

	if *interactive {
		return runWizard(nil, stdout, stderr)
	}

	cfg := config.DefaultConfig()
	if *configFile != "" {
		loaded, err := config.LoadFromYAML(*configFile)
		if err != nil {
			fmt.Fprintf(stderr, "Error loading config: %v\n", err)
			return 1
		}
		cfg = loaded
	}

	// Explicit flags override the configuration file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data-dir":
			cfg.Input.DataDir = *dataDir
		case "rest":
			cfg.Input.Rest = *rest
		case "stress":
			cfg.Input.Stress = *stress
		case "threshold":
			cfg.Thresholds.Signal = *threshold
		case "motion-threshold":
			cfg.Thresholds.Motion = *motionThreshold
		case "output":
			cfg.Output.Dir = *outputDir
		case "no-plots":
			cfg.Output.Plots = !*noPlots
		case "no-metadata":
			cfg.Output.DumpMetadata = !*noMetadata
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})
	if *tags != "" {
		infos, err := util.ParseTagList(*tags)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		cfg.Output.Tags = cfg.Output.Tags[:0]
		for _, info := range infos {
			cfg.Output.Tags = append(cfg.Output.Tags, info.Name)
		}
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		printUsage(stderr, fs)
		return 1
	}

	if code := analyze(cfg, stdout, stderr); code != 0 {
		return code
	}

	if *saveConfig != "" {
		if err := config.SaveToYAML(cfg, *saveConfig); err != nil {
			fmt.Fprintf(stderr, "Warning: could not save config: %v\n", err)
		} else {
			fmt.Fprintf(stdout, "Configuration saved to %s\n", *saveConfig)
		}
	}
	return 0
}

// analyze runs the pipeline for cfg with diagnostics on stderr.
func analyze(cfg *config.Config, stdout, stderr io.Writer) int {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	log := logger.NewConsole(stderr, level)

	fmt.Fprintln(stdout, "dicomqa")
	fmt.Fprintln(stdout, "=======")
	fmt.Fprintln(stdout)

	if _, err := pipeline.Run(cfg, stdout, log); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runWizard(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("dicomqa wizard", flag.ContinueOnError)
	fs.SetOutput(stderr)
	from := fs.String("from", "", "Prefill the wizard from a YAML config file")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	cfg, err := wizard.Run(*from)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if cfg == nil {
		return 0
	}
	return analyze(cfg, stdout, stderr)
}

func runPhantom(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("dicomqa phantom", flag.ContinueOnError)
	fs.SetOutput(stderr)
	outputDir := fs.String("output", "data", "Directory where the REST/STRESS pair is written")
	seed := fs.Uint64("seed", 1, "Noise seed for reproducibility")
	size := fs.Int("size", 128, "Rows and columns of each image")
	shift := fs.Int("shift", 6, "Blood-pool displacement of the STRESS image, in pixels")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *size < 8 {
		fmt.Fprintf(stderr, "Error: --size must be >= 8\n")
		return 1
	}

	restPath, stressPath, err := dicom.GeneratePhantomPair(*outputDir, *size, *seed, *shift)
	if err != nil {
		fmt.Fprintf(stderr, "Error generating phantom: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, "✓ Phantom pair written")
	fmt.Fprintf(stdout, "  REST:   %s\n", restPath)
	fmt.Fprintf(stdout, "  STRESS: %s\n", stressPath)
	return 0
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "\nUsage:")
	fmt.Fprintln(w, "  dicomqa [options]")
	fmt.Fprintln(w, "  dicomqa phantom [--output DIR] [--seed N] [--size N] [--shift N]")
	fmt.Fprintln(w, "  dicomqa wizard [--from CONFIG]")
	fmt.Fprintln(w, "\nOptions:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "dicomqa")
	fmt.Fprintln(w, "=======")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Image-quality check of a cardiac MR REST/STRESS DICOM pair.")
	fmt.Fprintln(w, "Prints the REST metadata, SNR and CNR of both scans and the number of")
	fmt.Fprintln(w, "pixels that changed between them, and writes PNG figures.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  dicomqa [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input:")
	fmt.Fprintln(w, "  --data-dir <DIR>         Directory holding the DICOM files (default: 'data')")
	fmt.Fprintln(w, "  --rest <FILE>            REST acquisition filename")
	fmt.Fprintln(w, "  --stress <FILE>          STRESS acquisition filename")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Analysis:")
	fmt.Fprintln(w, "  --threshold <N>          Signal threshold (default: 300)")
	fmt.Fprintln(w, "                           Signal: v > N, noise: 0 < v < N")
	fmt.Fprintln(w, "  --motion-threshold <N>   |REST - STRESS| above which a pixel moved (default: 3000)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  --output <DIR>           Directory for PNG figures (default: 'plots')")
	fmt.Fprintln(w, "  --no-plots               Do not write figures")
	fmt.Fprintln(w, "  --no-metadata            Do not print the REST metadata")
	fmt.Fprintln(w, "  --tags <LIST>            Print only these tags, e.g. PatientID,EchoTime")
	fmt.Fprintln(w, "  --log-level <LEVEL>      debug, info, warn, error (default: info)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tags accepted by --tags:")
	printTagGroups(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintln(w, "  --config <FILE>          Load configuration from YAML (flags override it)")
	fmt.Fprintln(w, "  --save-config <FILE>     Save the effective configuration after the run")
	fmt.Fprintln(w, "  -i, --interactive        Launch interactive wizard")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  --version                Show version")
	fmt.Fprintln(w, "  --help                   Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Subcommands:")
	fmt.Fprintln(w, "  phantom                  Write a synthetic REST/STRESS pair")
	fmt.Fprintln(w, "    --output <DIR>         Output directory (default: 'data')")
	fmt.Fprintln(w, "    --seed <N>             Noise seed (default: 1)")
	fmt.Fprintln(w, "    --size <N>             Image rows and columns (default: 128)")
	fmt.Fprintln(w, "    --shift <N>            STRESS blood-pool shift in pixels (default: 6)")
	fmt.Fprintln(w, "  wizard [--from FILE]     Interactive wizard, optionally prefilled")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  # Analyze the default pair in ./data")
	fmt.Fprintln(w, "  dicomqa")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  # Try it on a synthetic pair")
	fmt.Fprintln(w, "  dicomqa phantom --output /tmp/phantom && dicomqa --data-dir /tmp/phantom")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  # Only a few tags, no figures")
	fmt.Fprintln(w, "  dicomqa --tags PatientID,SeriesDescription,EchoTime --no-plots")
}

func printTagGroups(w io.Writer) {
	for _, g := range []util.TagGroup{util.GroupPatient, util.GroupStudy, util.GroupAcquisition, util.GroupImage} {
		var names []string
		for _, info := range util.TagsInGroup(g) {
			names = append(names, info.Name)
		}
		fmt.Fprintf(w, "  %-13s %s\n", g.String()+":", strings.Join(names, ", "))
	}
}
