package llm

import "context"

// Client abstracts text-generation providers.
type Client interface {
	Generate(ctx context.Context, req Request) (Result, error)
}

// Params carries provider generation options. Nil/zero values are omitted
// from the wire request.
type Params struct {
	Temperature     *float32
	MaxOutputTokens int
}

// Request is a single generation request. Immutable once built.
type Request struct {
	Prompt string
	Params Params
}

// Result holds the generated text exactly as the provider returned it.
type Result struct {
	Text string
}
