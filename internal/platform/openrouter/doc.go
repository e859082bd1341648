// Package openrouter integrates with an OpenAI-compatible chat-completions
// endpoint to generate flashcard suggestions. The ChatClient owns the wire
// cycle and returns coded errors; the Generator owns prompt construction,
// the request timeout, and classification into the generation error
// categories.
package openrouter
