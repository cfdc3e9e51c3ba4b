// Package model wraps the pretrained ONNX sessions the pipeline calls into.
// All original decision logic lives in internal/diagnosis; this package only
// moves tensors in and typed values out.
package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	runtimeOnce sync.Once
	runtimeErr  error
)

// EnsureRuntime points onnxruntime at a shared library and initializes the
// environment once per process. Safe to call from every model loader.
func EnsureRuntime() error {
	runtimeOnce.Do(func() {
		if ort.IsInitialized() {
			return
		}
		lib := resolveSharedLibraryPath()
		if lib == "" {
			runtimeErr = fmt.Errorf("onnxruntime shared library not found; set ONNXRUNTIME_SHARED_LIBRARY_PATH or install the runtime")
			return
		}
		ort.SetSharedLibraryPath(lib)
		if err := ort.InitializeEnvironment(); err != nil {
			runtimeErr = fmt.Errorf("initialize onnxruntime: %w", err)
		}
	})
	return runtimeErr
}

// resolveSharedLibraryPath locates a platform-specific onnxruntime library.
// The env var wins; otherwise we probe common names and locations.
func resolveSharedLibraryPath() string {
	if env := strings.TrimSpace(os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH")); env != "" {
		return env
	}

	names := []string{
		"libonnxruntime.dylib",
		"onnxruntime.dylib",
		"libonnxruntime.so",
		"onnxruntime.so",
		"onnxruntime.dll",
	}
	dirs := []string{
		".",
		"lib",
		"/opt/homebrew/lib",
		"/usr/local/lib",
		"/usr/lib",
	}

	for _, dir := range dirs {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
	}
	return ""
}
