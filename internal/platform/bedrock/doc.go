// Package bedrock implements the model transports backed by AWS Bedrock.
//
// Invoker sends text-generation requests using the Anthropic messages body
// format and ImageClient drives a Stability image model. Both translate SDK
// failures into the generation package's transport error classes so the
// retry layer can tell throttling apart from bad requests.
package bedrock
