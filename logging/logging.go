// Package logging annotates goroutines with pprof labels so they can be told apart in profiles.
package logging

import (
	"context"
	"fmt"
	"runtime"
	"runtime/pprof"
	"strconv"
)

type Labels = map[string]any

// GoAnnotate runs fn in a new goroutine labelled with the caller's location and the given labels.
func GoAnnotate(ctx context.Context, fn func(context.Context), labels ...Labels) {
	go pprof.Do(ctx, getLabels(labels...), fn)
}

// DoAnnotate runs fn in the current goroutine with the given labels.
func DoAnnotate(ctx context.Context, fn func(context.Context), labels ...Labels) {
	pprof.Do(ctx, getLabels(labels...), fn)
}

func getLabels(labelMaps ...Labels) pprof.LabelSet {
	var labels []string

	if pc, file, line, ok := runtime.Caller(2); ok {
		labels = append(labels, "fn", runtime.FuncForPC(pc).Name(), "file", file, "line", strconv.Itoa(line))
	}

	for _, labelMap := range labelMaps {
		for key, val := range labelMap {
			labels = append(labels, key, fmt.Sprintf("%v", val))
		}
	}

	return pprof.Labels(labels...)
}
