// Package gemini implements the text-generation transport backed by the
// Google Gemini API via the genai SDK.
package gemini
