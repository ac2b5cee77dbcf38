// cmd/kpptune/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"kpp-tuner/chessfeat"
	"kpp-tuner/tuner"
)

var (
	dataPath = flag.String("data", "", "Path to TSV/CSV with FEN and label")
	outJSON  = flag.String("out", "kpp_out.json", "Where to write the tuned weight table as JSON")
	inJSON   = flag.String("init", "", "Optional JSON with initial weights")
	isCSV    = flag.Bool("csv", false, "Input is CSV (default TSV)")
	backend  = flag.String("backend", "goose", `Board backend: "goose" or "dragontooth"`)
	epochs   = flag.Int("epochs", 3, "Training epochs")
	batch    = flag.Int("batch", 16384, "Mini-batch size")
	optName  = flag.String("opt", "adagrad", `Optimizer: "adagrad" or "adam"`)
	lr       = flag.Float64("lr", 0.05, "Base learning rate")
	kScale   = flag.Float64("k", 0.004, "Logistic scale k for centipawns")
	clampD   = flag.Float64("clamp", 1.0, "Clamp |dL/dE| per position (0 = off)")
	shuffle  = flag.Bool("shuffle", true, "Shuffle each epoch")
	threads  = flag.Int("threads", runtime.NumCPU(), "GOMAXPROCS")
	workers  = flag.Int("workers", 2, "Gradient stores per batch (each holds the full raw table)")
	maxRows  = flag.Int("max_rows", 0, "Optional cap on rows loaded (0=all)")
	printKsq = flag.Int("print_ksq", -1, "After training, print the KPP slice for this king square")
	printP0  = flag.Int("print_p0", 0, "First feature of the printed KPP slice")
	printP1  = flag.Int("print_p1", 0, "Base of the second feature of the printed KPP slice")
	printTrn = flag.Bool("print_turn", false, "Print the side-to-move component instead of the board one")
)

func main() {
	flag.Parse()
	if *dataPath == "" {
		fmt.Println("Usage:")
		flag.PrintDefaults()
		os.Exit(2)
	}
	runtime.GOMAXPROCS(*threads)

	be, err := chessfeat.ParseBackend(*backend)
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Printf("Loading dataset: %s\n", *dataPath)
	samps, err := chessfeat.LoadDataset(*dataPath, *isCSV, *maxRows, be)
	if err != nil {
		log.Fatalf("load dataset: %v", err)
	}
	fmt.Printf("Loaded %d samples\n", len(samps))

	var mapper chessfeat.Mapper
	weights := mapper.NewParamTable()
	if *inJSON != "" {
		if err := tuner.LoadParamsJSON(*inJSON, weights); err != nil {
			log.Fatalf("load init weights: %v", err)
		}
		fmt.Printf("Loaded init weights from %s\n", *inJSON)
	}

	cfg := tuner.DefaultTrainConfig()
	cfg.Epochs = *epochs
	cfg.Batch = *batch
	cfg.Workers = *workers
	cfg.K = *kScale
	cfg.DeltaClamp = *clampD
	cfg.Shuffle = *shuffle

	var opt tuner.Optimizer
	switch *optName {
	case "adagrad":
		opt = tuner.NewAdaGrad(weights, *lr)
	case "adam":
		opt = tuner.NewAdam(weights, *lr)
	default:
		log.Fatalf("unknown optimizer %q", *optName)
	}
	if *printKsq >= 0 && (*printKsq >= chessfeat.SquareNum || *printP0 < 0 || *printP0 >= chessfeat.FeatureNum ||
		*printP1 < 0 || *printP1+chessfeat.SquareNum > chessfeat.FeatureNum) {
		log.Fatalf("print slice out of range: ksq=%d p0=%d p1=%d", *printKsq, *printP0, *printP1)
	}

	layout := chessfeat.Layout()
	tr := tuner.NewTrainer(layout, mapper, weights, opt, cfg)
	if err := tr.Train(context.Background(), samps); err != nil {
		log.Fatalf("train: %v", err)
	}

	if *printKsq >= 0 {
		comp := 0
		if *printTrn {
			comp = 1
		}
		err := tuner.PrintKPPSlice(os.Stdout, chessfeat.Grid(), mapper, weights,
			tuner.Square(*printKsq), tuner.EvalIndex(*printP0), tuner.EvalIndex(*printP1), comp)
		if err != nil {
			log.Fatalf("print: %v", err)
		}
	}

	if dir := filepath.Dir(*outJSON); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("create %s: %v", dir, err)
		}
	}
	if err := tuner.SaveParamsJSON(*outJSON, weights); err != nil {
		log.Fatalf("save: %v", err)
	}
	fmt.Printf("Saved tuned weights to %s\n", *outJSON)
}
