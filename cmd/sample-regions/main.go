// Command sample-regions samples training regions from one frame of a
// sequence folder and reports (or dumps) the result. Mostly a smoke-test
// harness for sampler parameters: point it at a sequence, tweak the
// thresholds and sigmas, and see how many draws the quotas cost.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/DL-85/t-cnn/dataset"
	"github.com/DL-85/t-cnn/sampler"
)

func main() {
	var (
		dir       = flag.String("dir", "", "sequence folder to read (required)")
		frame     = flag.Int("frame", 0, "frame index to sample from")
		numPos    = flag.Int("pos", 50, "number of positive regions")
		numNeg    = flag.Int("neg", 50, "number of negative regions")
		threshPos = flag.Float64("thresh-pos", 0.7, "IoU at or above which a region is positive")
		threshNeg = flag.Float64("thresh-neg", 0.5, "IoU below which a region is negative")
		sigmaXY   = flag.Float64("sigma-xy", 0.3, "translation noise scale (both axes)")
		sigmaS    = flag.Float64("sigma-scale", 0.5, "log-scale size noise")
		maxDraws  = flag.Int("max-draws", 5_000_000, "draw cap before giving up (0 = unbounded)")
		seed      = flag.Uint64("seed", 0, "random seed (0 = time-based)")
		outDir    = flag.String("out", "", "if set, write each crop as a PNG into this directory")
	)
	flag.Parse()

	if *dir == "" {
		flag.Usage()
		os.Exit(2)
	}

	seq, err := dataset.OpenSequence(*dir)
	if err != nil {
		log.Fatalf("open sequence: %v", err)
	}
	log.Printf("sequence %s: %d frames", seq.Dir(), seq.Len())

	img, box, err := seq.Frame(*frame)
	if err != nil {
		log.Fatalf("load frame %d: %v", *frame, err)
	}
	log.Printf("frame %d: bounds %v, reference box %+v", *frame, img.Bounds(), box)

	cfg := sampler.DefaultConfig()
	cfg.NumPos = *numPos
	cfg.NumNeg = *numNeg
	cfg.ThreshPos = *threshPos
	cfg.ThreshNeg = *threshNeg
	cfg.SigmaX = *sigmaXY
	cfg.SigmaY = *sigmaXY
	cfg.SigmaScale = *sigmaS
	cfg.MaxDraws = *maxDraws
	cfg.Seed = *seed

	s, err := sampler.New(cfg)
	if err != nil {
		log.Fatalf("configure sampler: %v", err)
	}

	start := time.Now()
	view, err := s.Sample(img, box)
	if err != nil {
		log.Fatalf("sample: %v", err)
	}
	log.Printf("sampled %d regions in %v", view.Len(), time.Since(start))

	var pos int
	for i := 0; i < view.Len(); i++ {
		c, err := view.Candidate(i)
		if err != nil {
			log.Fatalf("region %d: %v", i, err)
		}
		if c.Positive {
			pos++
		}
	}
	log.Printf("%d positive, %d negative", pos, view.Len()-pos)

	if *outDir == "" {
		return
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("create output directory: %v", err)
	}
	for i := 0; i < view.Len(); i++ {
		crop, label, err := view.At(i)
		if err != nil {
			log.Fatalf("crop region %d: %v", i, err)
		}
		class := "neg"
		if label.Positive {
			class = "pos"
		}
		path := filepath.Join(*outDir, fmt.Sprintf("region-%04d-%s.png", i, class))
		f, err := os.Create(path)
		if err != nil {
			log.Fatalf("create %s: %v", path, err)
		}
		if err := png.Encode(f, crop); err != nil {
			f.Close()
			log.Fatalf("encode %s: %v", path, err)
		}
		f.Close()
	}
	log.Printf("wrote %d crops to %s", view.Len(), *outDir)
}
