// Package generation contains the document generation pipeline: prompt
// construction for the supported document kinds, recovery of a JSON object
// from unreliable model output, normalization of that object into the strict
// slide schema, and a classified retry loop around the model transport.
// It abstracts the details of LLM API integration behind the ModelInvoker
// interface so the pipeline stays independent of any specific provider.
package generation
