// Package frameanalyzer scores video frames for composition, technical
// quality, scene classification and predicted viewer engagement.
//
// Every analyzer in this module is deterministic and pure: the same frame
// bytes always produce the same scores, with no I/O, no clock reads and no
// randomness. That makes results cacheable by frame hash and safe to compare
// across runs, which is what the surrounding editing pipeline relies on when
// ranking candidate frames.
//
// Basic usage:
//
//	package main
//
//	import (
//		"encoding/json"
//		"log"
//		"os"
//
//		frameanalyzer "github.com/crepsource/video-editor-sub000"
//		"github.com/crepsource/video-editor-sub000/pkg/processing"
//	)
//
//	func main() {
//		frame, err := processing.LoadFrame("frame_0042.jpg")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		fa := frameanalyzer.New()
//		report, err := fa.AnalyzeFrame(frame)
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		json.NewEncoder(os.Stdout).Encode(report)
//	}
//
// The module consists of four analysis components:
//
// 1. Composition (pkg/composition): rule of thirds, leading lines, balance,
// symmetry, focal points and color harmony
// 2. Quality (pkg/quality): sharpness, exposure, contrast, saturation,
// noise and motion blur
// 3. Scene (pkg/scene): scene type, shot framing, motion level and
// environment context
// 4. Engagement (pkg/engagement): predicted viewer engagement built on top
// of the other three
//
// All four consume the raster.Frame type from pkg/raster. Decoding image
// files into frames, resizing and the optional vision-model description live
// in pkg/processing and pkg/ollama so the analysis core stays free of I/O.
package frameanalyzer

import (
	"fmt"
	"image"
	"sync"

	"github.com/crepsource/video-editor-sub000/pkg/composition"
	"github.com/crepsource/video-editor-sub000/pkg/engagement"
	"github.com/crepsource/video-editor-sub000/pkg/quality"
	"github.com/crepsource/video-editor-sub000/pkg/raster"
	"github.com/crepsource/video-editor-sub000/pkg/scene"
)

// Version of the frame analyzer library
const Version = "1.0.0"

// FrameAnalyzer runs all four analysis components over a frame.
type FrameAnalyzer struct {
	composition *composition.Analyzer
	quality     *quality.Analyzer
	scene       *scene.Classifier
	engagement  *engagement.Calculator
}

// New creates a FrameAnalyzer with default configuration.
func New() *FrameAnalyzer {
	return &FrameAnalyzer{
		composition: composition.New(),
		quality:     quality.New(),
		scene:       scene.New(),
		engagement:  engagement.New(),
	}
}

// NewWithConfig creates a FrameAnalyzer with custom per-component
// configuration.
func NewWithConfig(compCfg composition.Config, qualCfg quality.Config, sceneCfg scene.Config, engCfg engagement.Config) *FrameAnalyzer {
	return &FrameAnalyzer{
		composition: composition.NewWithConfig(compCfg),
		quality:     quality.NewWithConfig(qualCfg),
		scene:       scene.NewWithConfig(sceneCfg),
		engagement:  engagement.NewWithConfig(engCfg),
	}
}

// Report bundles the results of all four components for one frame.
type Report struct {
	Width       int                  `json:"width"`
	Height      int                  `json:"height"`
	Composition composition.Result   `json:"composition"`
	Quality     quality.Result       `json:"quality"`
	Scene       scene.Classification `json:"scene"`
	Engagement  engagement.Analysis  `json:"engagement"`
}

// AnalyzeFrame runs composition, quality and scene analysis concurrently,
// then feeds their results into the engagement calculator. The frame is only
// read, so sharing it across the three goroutines is safe.
func (fa *FrameAnalyzer) AnalyzeFrame(f raster.Frame) (Report, error) {
	if err := f.Validate(); err != nil {
		return Report{}, err
	}

	var (
		wg       sync.WaitGroup
		comp     composition.Result
		qual     quality.Result
		cls      scene.Classification
		compErr  error
		qualErr  error
		sceneErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		comp, compErr = fa.composition.Analyze(f)
	}()
	go func() {
		defer wg.Done()
		qual, qualErr = fa.quality.Analyze(f)
	}()
	go func() {
		defer wg.Done()
		cls, sceneErr = fa.scene.Classify(f)
	}()
	wg.Wait()

	if compErr != nil {
		return Report{}, fmt.Errorf("composition analysis failed: %w", compErr)
	}
	if qualErr != nil {
		return Report{}, fmt.Errorf("quality analysis failed: %w", qualErr)
	}
	if sceneErr != nil {
		return Report{}, fmt.Errorf("scene classification failed: %w", sceneErr)
	}

	eng, err := fa.engagement.Calculate(f, comp, qual, cls)
	if err != nil {
		return Report{}, fmt.Errorf("engagement calculation failed: %w", err)
	}

	return Report{
		Width:       f.Width,
		Height:      f.Height,
		Composition: comp,
		Quality:     qual,
		Scene:       cls,
		Engagement:  eng,
	}, nil
}

// AnalyzeImage converts a decoded image into a frame and analyzes it.
func (fa *FrameAnalyzer) AnalyzeImage(img image.Image) (Report, error) {
	return fa.AnalyzeFrame(raster.FromImage(img))
}

// AnalyzeComposition runs only the composition component.
func (fa *FrameAnalyzer) AnalyzeComposition(f raster.Frame) (composition.Result, error) {
	return fa.composition.Analyze(f)
}

// AnalyzeQuality runs only the technical quality component.
func (fa *FrameAnalyzer) AnalyzeQuality(f raster.Frame) (quality.Result, error) {
	return fa.quality.Analyze(f)
}

// ClassifyScene runs only the scene classification component.
func (fa *FrameAnalyzer) ClassifyScene(f raster.Frame) (scene.Classification, error) {
	return fa.scene.Classify(f)
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
