package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"github.com/topas-engine/topas/pkg/engine"
	"github.com/topas-engine/topas/pkg/eval"
	"github.com/topas-engine/topas/pkg/uci"
)

const (
	name    = "Topas"
	author  = "Sam Nelson"
	version = "dev"
)

func main() {
	flag.Parse()

	var logger = log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile)
	logger.Println(name, "version", version, "GOARCH", runtime.GOARCH, "GOOS", runtime.GOOS)

	var eng = engine.NewEngine(eval.NewEvaluator())

	var protocol = uci.New(name, author, version, eng,
		[]*uci.Option{
			uci.NewIntOption("Hash", 1, 1<<17, &eng.Options.Hash),
			uci.NewIntOption("Threads", 1, 1, &eng.Options.Threads),
			uci.NewBoolOption("ExperimentSettings", &eng.Options.ExperimentSettings),
		},
	)
	protocol.Run(logger)
}
