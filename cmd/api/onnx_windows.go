//go:build windows

package main

import "log/slog"

func initOnnx(dylib string) (bool, func()) {
	if dylib != "" {
		slog.Warn("onnx flavor is not supported on windows, ignoring ONNX_RUNTIME_DYLIB", "dylib", dylib)
	}
	return false, func() {}
}
