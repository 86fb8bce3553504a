package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	frameanalyzer "github.com/crepsource/video-editor-sub000"
	"github.com/crepsource/video-editor-sub000/internal/config"
	"github.com/crepsource/video-editor-sub000/internal/logging"
	"github.com/crepsource/video-editor-sub000/internal/utils"
	"github.com/crepsource/video-editor-sub000/pkg/composition"
	"github.com/crepsource/video-editor-sub000/pkg/engagement"
	"github.com/crepsource/video-editor-sub000/pkg/ollama"
	"github.com/crepsource/video-editor-sub000/pkg/processing"
	"github.com/crepsource/video-editor-sub000/pkg/quality"
	"github.com/crepsource/video-editor-sub000/pkg/scene"
)

func main() {
	var (
		in        string
		cfgPath   string
		outDir    string
		overlay   bool
		describe  bool
		model     string
		serverURL string
		maxDim    int
	)

	flag.StringVar(&in, "in", "", "input frame path, URL or directory (jpg/png/webp)")
	flag.StringVar(&cfgPath, "config", "", "config file path (YAML); defaults to ~/.config/frame-analyzer/config.yaml if present")
	flag.StringVar(&outDir, "out", "", "output directory (overrides config)")
	flag.BoolVar(&overlay, "overlay", false, "write annotated overlay images next to the reports")
	flag.BoolVar(&describe, "describe", false, "attach a vision-model caption via Ollama")
	flag.StringVar(&model, "model", "", "Ollama model name (overrides config)")
	flag.StringVar(&serverURL, "url", "", "Ollama server URL (overrides config)")
	flag.IntVar(&maxDim, "maxdim", 0, "max long edge before analysis, 0=config value")
	flag.Parse()

	if in == "" {
		fmt.Fprintf(os.Stderr, "usage: %s -in frame.jpg|URL|dir [-config config.yaml] [-out outdir] [-overlay] [-describe]\n",
			filepath.Base(os.Args[0]))
		os.Exit(2)
	}

	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if outDir != "" {
		cfg.Output.Dir = outDir
	}
	if overlay {
		cfg.Output.Overlay = true
	}
	if describe {
		cfg.Ollama.Enabled = true
	}
	if model != "" {
		cfg.Ollama.Model = model
	}
	if serverURL != "" {
		cfg.Ollama.URL = serverURL
	}
	if maxDim > 0 {
		cfg.Analysis.MaxDimension = maxDim
	}

	log := logging.New(cfg.Logging.Level, cfg.Logging.Pretty)

	if err := utils.EnsureDir(cfg.Output.Dir); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Output.Dir).Msg("cannot create output directory")
	}

	processor := processing.NewProcessorWithLogger(log)
	analyzer := newAnalyzer(cfg)

	var captioner *ollama.Client
	if cfg.Ollama.Enabled {
		captioner, err = ollama.NewClient(cfg.Ollama.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot create ollama client")
		}
	}

	inputs, err := collectInputs(in)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot resolve inputs")
	}
	log.Info().Int("count", len(inputs)).Msg("analyzing frames")

	failed := 0
	for _, source := range inputs {
		if err := analyzeOne(processor, analyzer, captioner, cfg, log, source); err != nil {
			log.Error().Err(err).Str("source", source).Msg("analysis failed")
			failed++
		}
	}
	if failed > 0 {
		log.Warn().Int("failed", failed).Int("total", len(inputs)).Msg("finished with failures")
		os.Exit(1)
	}
}

// newAnalyzer applies the shared analysis tuning from the config on top of
// each component's defaults.
func newAnalyzer(cfg *config.Config) *frameanalyzer.FrameAnalyzer {
	compCfg := composition.DefaultConfig()
	compCfg.SampleStride = cfg.Analysis.SampleStride
	compCfg.EdgeThreshold = cfg.Analysis.EdgeThreshold

	qualCfg := quality.DefaultConfig()
	qualCfg.EdgeStride = cfg.Analysis.SampleStride
	qualCfg.EdgeThreshold = cfg.Analysis.EdgeThreshold

	sceneCfg := scene.Config{
		SampleStride:  cfg.Analysis.SampleStride,
		EdgeThreshold: cfg.Analysis.EdgeThreshold,
	}
	engCfg := engagement.Config{EdgeThreshold: cfg.Analysis.EdgeThreshold}

	return frameanalyzer.NewWithConfig(compCfg, qualCfg, sceneCfg, engCfg)
}

// collectInputs expands a directory into its image files; files and URLs
// pass through unchanged.
func collectInputs(in string) ([]string, error) {
	info, err := os.Stat(in)
	if err != nil || !info.IsDir() {
		return []string{in}, nil
	}
	files, err := utils.ListImageFiles(in)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no image files under %s", in)
	}
	return files, nil
}

// report is the CLI output document: the analysis plus provenance and the
// optional caption.
type report struct {
	Source string `json:"source"`
	frameanalyzer.Report
	Caption *ollama.Description `json:"caption,omitempty"`
}

func analyzeOne(processor *processing.Processor, analyzer *frameanalyzer.FrameAnalyzer, captioner *ollama.Client, cfg *config.Config, log zerolog.Logger, source string) error {
	frame, err := processor.LoadFrameSmart(source)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	frame, err = processor.ResizeForAnalysis(frame, cfg.Analysis.MaxDimension)
	if err != nil {
		return fmt.Errorf("resize: %w", err)
	}

	result, err := analyzer.AnalyzeFrame(frame)
	if err != nil {
		return err
	}

	doc := report{Source: source, Report: result}
	if captioner != nil {
		b64, err := processor.EncodeFrameBase64(frame, "jpg", 1024, 85)
		if err != nil {
			return fmt.Errorf("encode for caption: %w", err)
		}
		desc, err := captioner.DescribeStructured(context.Background(), cfg.Ollama.Model, cfg.Ollama.Prompt, b64)
		if err != nil {
			log.Warn().Err(err).Str("source", source).Msg("caption failed, continuing without")
		} else {
			doc.Caption = &desc
		}
	}

	reportPath := utils.OutputPath(source, cfg.Output.Dir, "_report", "json")
	js, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(reportPath, js, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	log.Info().Str("report", reportPath).
		Float64("engagement", result.Engagement.OverallEngagementScore).
		Str("scene", string(result.Scene.PrimarySceneType)).
		Msg("frame analyzed")

	if cfg.Output.Overlay {
		img := processor.CreateAnalysisOverlay(frame, result.Composition, result.Scene)
		ext := cfg.Output.Format
		if ext == "json" {
			ext = "png"
		}
		overlayPath := utils.OutputPath(source, cfg.Output.Dir, "_overlay", ext)
		if err := processor.SaveImage(img, overlayPath, ext, cfg.Output.Quality, false); err != nil {
			return fmt.Errorf("write overlay: %w", err)
		}
		log.Info().Str("overlay", overlayPath).Msg("overlay written")
	}
	return nil
}
