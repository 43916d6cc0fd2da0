// Package errors provides structured error types for better observability
// and programmatic error handling across the recipe engine.
//
// Codes map onto the engine's failure taxonomy: INVALID_RECIPE for
// construction-time validation, IO_ERROR for per-file filesystem failures,
// and PARTIAL_FAILURE for staging operations that completed with some files
// failing.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeIO,
//	    "failed to read source file",
//	    err,
//	    map[string]any{
//	        "path": src,
//	    },
//	)
//
//	if errors.CodeOf(err) == errors.ErrCodeInvalidRecipe {
//	    // reject input
//	}
package errors
