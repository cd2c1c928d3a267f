package shader

import (
	"fmt"

	"github.com/richinsley/goshadercam/graphics"
)

// FileReadError reports a shader source file that could not be read.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("failed to read shader source %q: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }

// CompileError carries the compiler log of a stage that failed to compile.
type CompileError struct {
	Stage graphics.ShaderStage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader failed to compile: %s", e.Stage, e.Log)
}

// LinkError carries the linker log of a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("shader program failed to link: %s", e.Log)
}
