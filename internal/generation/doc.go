// Package generation defines the boundary between the application core and
// external AI/LLM services: the Generator interface, the suggestion types it
// produces, the error categories it may fail with, and the validation filter
// applied to untrusted model output.
package generation
