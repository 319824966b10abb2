package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/ironsheep/heightmesh/internal/config"
	"github.com/ironsheep/heightmesh/internal/imaging"
	"github.com/ironsheep/heightmesh/internal/journal"
	"github.com/ironsheep/heightmesh/internal/logger"
	"github.com/ironsheep/heightmesh/internal/ocr"
	"github.com/ironsheep/heightmesh/internal/pipeline"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and --help before flag parsing
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("heightmesh %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			if v := ocr.Version(); v != "" {
				fmt.Printf("  Tesseract:  %s\n", v)
			}
			return
		case "--help", "-h", "help":
			printUsage(os.Stdout)
			return
		}
	}

	if err := run(os.Args[1:], os.Stdout); err != nil {
		os.Stdout.Write(pipeline.MarshalError(err))
		fmt.Fprintln(os.Stdout)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "heightmesh - convert an image into a height-field mesh")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: heightmesh [options] <image>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -config FILE        YAML configuration file")
	fmt.Fprintln(w, "  -polygons N         Target polygon budget (default 2000)")
	fmt.Fprintln(w, "  -color-mode MODE    color or monochrome (default color)")
	fmt.Fprintln(w, "  -detail N           Detail level 1-10 (default 5)")
	fmt.Fprintln(w, "  -sensitivity F      Edge sensitivity 0-1 (default 0.5)")
	fmt.Fprintln(w, "  -threshold F        Depth discontinuity threshold (default 0.2)")
	fmt.Fprintln(w, "  -mesh-out FILE      Mesh JSON output (default stdout)")
	fmt.Fprintln(w, "  -analysis-out FILE  Write the analysis report as JSON")
	fmt.Fprintln(w, "  -stl-out FILE       Write the mesh as binary STL")
	fmt.Fprintln(w, "  -journal FILE       Record processing operations in an SQLite journal")
	fmt.Fprintln(w, "  -detect FEATURE     Only run a detector (faces, people, objects, text) and print its boxes")
	fmt.Fprintln(w, "  --version, -v       Print version information")
	fmt.Fprintln(w, "  --help, -h          Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  HEIGHTMESH_LOG_LEVEL=debug    Enable debug logging")
	fmt.Fprintln(w, "  HEIGHTMESH_FACE_CASCADE=PATH  pigo face cascade for face detection")
	fmt.Fprintln(w, "  HEIGHTMESH_JOURNAL=PATH       Default journal database")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Logs go to stderr; on failure stdout carries {\"error\": \"...\"}.")
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("heightmesh", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configPath  = fs.String("config", "", "")
		polygons    = fs.Int("polygons", 0, "")
		colorMode   = fs.String("color-mode", "", "")
		detail      = fs.Int("detail", 0, "")
		sensitivity = fs.Float64("sensitivity", 0, "")
		threshold   = fs.Float64("threshold", 0, "")
		meshOut     = fs.String("mesh-out", "", "")
		analysisOut = fs.String("analysis-out", "", "")
		stlOut      = fs.String("stl-out", "", "")
		journalPath = fs.String("journal", "", "")
		detect      = fs.String("detect", "", "")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one image path (see --help)")
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	logger.SetLevel(cfg.LogLevel)
	if *journalPath != "" {
		cfg.JournalPath = *journalPath
	}

	settings := config.Settings{
		Polygons:               *polygons,
		ColorMode:              config.ColorMode(*colorMode),
		DetailLevel:            *detail,
		Sensitivity:            *sensitivity,
		DiscontinuityThreshold: *threshold,
	}

	logger.WithField("version", Version).Debug("heightmesh starting")

	_, data, err := imaging.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	p := pipeline.New(cfg)
	if cfg.JournalPath != "" {
		store, err := journal.Open(cfg.JournalPath)
		if err != nil {
			return err
		}
		defer store.Close()
		p.WithJournal(store)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *detect != "" {
		boxes, err := p.Detect(ctx, data, *detect)
		if err != nil {
			return err
		}
		return writeJSON("", stdout, boxes)
	}

	res, err := p.Run(ctx, data, settings, *analysisOut != "")
	if err != nil {
		return err
	}

	if *analysisOut != "" {
		if err := writeJSON(*analysisOut, stdout, res.Report); err != nil {
			return err
		}
	}
	if *stlOut != "" {
		f, err := os.Create(*stlOut)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", *stlOut, err)
		}
		if err := res.Mesh.WriteSTL(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write %s: %w", *stlOut, err)
		}
	}
	return writeJSON(*meshOut, stdout, res.Mesh)
}

// writeJSON writes v to path, or to stdout when path is empty or "-".
func writeJSON(path string, stdout io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	data = append(data, '\n')
	if path == "" || path == "-" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
