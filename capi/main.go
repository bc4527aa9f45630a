// Command capi builds libkuiper as a C shared library (via `go build
// -buildmode=c-shared`), exposing Kuiper's compile/run/to_string/dispose
// operations to non-Go embedders behind a stable C ABI. The struct
// layouts and function names mirror the extern declarations a C or cgo
// caller links against.
package main

/*
#include <stdint.h>
#include <stdbool.h>
#include <stdlib.h>

typedef struct {
	char* message;
	bool is_error;
	uint64_t start;
	uint64_t end;
} KuiperError;

typedef struct {
	KuiperError error;
	void* result;
} CompileResult;

typedef struct {
	KuiperError error;
	char* result;
} TransformResult;
*/
import "C"

import (
	"sync"
	"unsafe"

	kerrors "github.com/kuiper-lang/kuiper/errors"
	"github.com/kuiper-lang/kuiper/kuiper"
	"github.com/kuiper-lang/kuiper/value"
)

// handles maps the opaque void* pointers returned to C callers to the Go
// *kuiper.Expression values they stand for. cgo forbids storing a Go
// pointer inside C-allocated memory, so compiled expressions live here
// instead, keyed by a one-byte C.malloc token that registerHandle
// allocates and releaseHandle frees.
var (
	handlesMu sync.Mutex
	handles   = map[unsafe.Pointer]*kuiper.Expression{}
)

// registerHandle allocates a small C token to serve as expr's opaque
// handle and records the mapping.
func registerHandle(expr *kuiper.Expression) unsafe.Pointer {
	token := C.malloc(1)
	handlesMu.Lock()
	handles[token] = expr
	handlesMu.Unlock()
	return token
}

func lookupHandle(token unsafe.Pointer) *kuiper.Expression {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	return handles[token]
}

func releaseHandle(token unsafe.Pointer) {
	handlesMu.Lock()
	delete(handles, token)
	handlesMu.Unlock()
	C.free(token)
}

func noError() C.KuiperError {
	return C.KuiperError{message: nil, is_error: C.bool(false), start: 0, end: 0}
}

func errorFrom(err error) C.KuiperError {
	msg, start, end := "", uint64(0), uint64(0)
	if kerr, ok := err.(*kerrors.CompileError); ok {
		msg = kerr.Message
		if kerr.HasSpan {
			start, end = uint64(kerr.Span.Start), uint64(kerr.Span.End)
		}
	} else if kerr, ok := err.(*kerrors.RuntimeError); ok {
		msg = kerr.Message
		if kerr.HasSpan {
			start, end = uint64(kerr.Span.Start), uint64(kerr.Span.End)
		}
	} else {
		msg = err.Error()
	}
	return C.KuiperError{
		message:  C.CString(msg),
		is_error: C.bool(true),
		start:    C.uint64_t(start),
		end:      C.uint64_t(end),
	}
}

func cStringArray(arr **C.char, n C.size_t) []string {
	if arr == nil || n == 0 {
		return nil
	}
	ptrs := unsafe.Slice(arr, int(n))
	out := make([]string, int(n))
	for i, p := range ptrs {
		out[i] = C.GoString(p)
	}
	return out
}

// compile_expression compiles data against the ordered input names in
// inputs, always returning a heap-allocated CompileResult the caller must
// pass to destroy_compile_result.
//
//export compile_expression
func compile_expression(data *C.char, inputs **C.char, length C.size_t) *C.CompileResult {
	names := cStringArray(inputs, length)
	expr, err := kuiper.Compile(C.GoString(data), names, kuiper.Options{})
	result := (*C.CompileResult)(C.malloc(C.size_t(unsafe.Sizeof(C.CompileResult{}))))
	if err != nil {
		result.error = errorFrom(err)
		result.result = nil
		return result
	}
	result.error = noError()
	result.result = registerHandle(expr)
	return result
}

// get_expression_from_compile_result extracts the opaque expression
// handle from a successful CompileResult. It does not free result; the
// caller must still call destroy_compile_result.
//
//export get_expression_from_compile_result
func get_expression_from_compile_result(result *C.CompileResult) unsafe.Pointer {
	if result == nil {
		return nil
	}
	return result.result
}

// run_expression evaluates expression against the JSON-encoded inputs in
// data (one per declared slot, in order), always returning a
// heap-allocated TransformResult the caller must pass to
// destroy_transform_result.
//
//export run_expression
func run_expression(data **C.char, length C.size_t, expression unsafe.Pointer) *C.TransformResult {
	result := (*C.TransformResult)(C.malloc(C.size_t(unsafe.Sizeof(C.TransformResult{}))))

	expr := lookupHandle(expression)
	if expr == nil {
		result.error = errorFrom(kerrors.AsRuntimeError(kerrors.New(kerrors.TypeMismatch, "invalid or disposed expression handle")))
		result.result = nil
		return result
	}

	rawInputs := cStringArray(data, length)
	inputs := make([]value.Value, len(rawInputs))
	for i, raw := range rawInputs {
		v, perr := value.ParseJSON([]byte(raw))
		if perr != nil {
			result.error = errorFrom(kerrors.AsRuntimeError(kerrors.New(kerrors.ConversionError, "input %d is not valid JSON: %s", i, perr.Error())))
			result.result = nil
			return result
		}
		inputs[i] = v
	}

	out, err := expr.Run(inputs)
	if err != nil {
		result.error = errorFrom(err)
		result.result = nil
		return result
	}
	result.error = noError()
	result.result = C.CString(out)
	return result
}

// expression_to_string renders expression back to Kuiper source text. The
// returned string is caller-owned and must be released with
// destroy_string.
//
//export expression_to_string
func expression_to_string(expression unsafe.Pointer) *C.char {
	expr := lookupHandle(expression)
	if expr == nil {
		return C.CString("")
	}
	return C.CString(expr.String())
}

// destroy_compile_result frees a CompileResult and, if it carried an
// error, the error's message string. It does not release the compiled
// expression handle; call destroy_expression separately once done with
// it.
//
//export destroy_compile_result
func destroy_compile_result(result *C.CompileResult) {
	if result == nil {
		return
	}
	if result.error.message != nil {
		C.free(unsafe.Pointer(result.error.message))
	}
	C.free(unsafe.Pointer(result))
}

// destroy_transform_result frees a TransformResult and whichever of its
// error message or result string is set.
//
//export destroy_transform_result
func destroy_transform_result(result *C.TransformResult) {
	if result == nil {
		return
	}
	if result.error.message != nil {
		C.free(unsafe.Pointer(result.error.message))
	}
	if result.result != nil {
		C.free(unsafe.Pointer(result.result))
	}
	C.free(unsafe.Pointer(result))
}

// destroy_expression releases a compiled expression handle. Kuiper's
// evaluator holds no other resources, so this only drops the handle's
// registry entry.
//
//export destroy_expression
func destroy_expression(expression unsafe.Pointer) {
	if expression == nil {
		return
	}
	releaseHandle(expression)
}

// destroy_string releases a string this library allocated and returned
// (expression_to_string's result, or a TransformResult's result field
// freed individually rather than via destroy_transform_result).
//
//export destroy_string
func destroy_string(s *C.char) {
	if s == nil {
		return
	}
	C.free(unsafe.Pointer(s))
}

func main() {}
