//go:build !windows

package main

import (
	"log"
	"log/slog"

	ort "github.com/yalue/onnxruntime_go"
)

// initOnnx initializes the onnxruntime environment when a shared library is
// configured. It reports whether the onnx flavor can be served, and returns
// the func that tears the environment down.
func initOnnx(dylib string) (bool, func()) {
	if dylib == "" {
		slog.Info("ONNX_RUNTIME_DYLIB not set, onnx flavor disabled")
		return false, func() {}
	}

	ort.SetSharedLibraryPath(dylib)
	if err := ort.InitializeEnvironment(); err != nil {
		log.Fatalf("could not init ONNX Runtime: %v", err)
	}

	return true, func() {
		if err := ort.DestroyEnvironment(); err != nil {
			log.Printf("error destroying onnx env: %v", err)
		}
	}
}
