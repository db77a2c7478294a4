// Package llm provides the responder adapter: one flattened prompt string in,
// generated text out. An empty generation is a soft failure and yields
// Placeholder rather than an error; only credential, provider and network
// problems propagate.
package llm

// Placeholder is returned when the provider reports success but no usable
// text could be extracted from its response.
const Placeholder = "No text returned from the model. So I'm making this up."
