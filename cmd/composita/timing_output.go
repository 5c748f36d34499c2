package main

import (
	"fmt"
	"io"
	"time"

	"composita/internal/buildpipeline"
)

func printStageTimings(out io.Writer, timings *buildpipeline.Timings) {
	if out == nil || timings == nil {
		return
	}
	if timings.Has(buildpipeline.StageParse) {
		fmt.Fprintf(out, "parsed %.1f ms\n", toMillis(timings.Duration(buildpipeline.StageParse)))
	}
	if timings.Has(buildpipeline.StageResolve) {
		fmt.Fprintf(out, "resolved %.1f ms\n", toMillis(timings.Duration(buildpipeline.StageResolve)))
	}
	if timings.Has(buildpipeline.StageGenerate) || timings.Has(buildpipeline.StageEmit) {
		built := timings.Sum(buildpipeline.StageGenerate, buildpipeline.StageEmit)
		fmt.Fprintf(out, "built %.1f ms\n", toMillis(built))
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
