// Package openai implements the text-generation transport backed by the
// OpenAI chat completions API, including OpenAI-compatible endpoints
// reached through a custom base URL.
package openai
