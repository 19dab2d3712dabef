// Package infographic turns a generated presentation into a rendered
// infographic image plus a structured set of key insights. Image and
// insight generation are both best-effort: failures degrade to a
// placeholder image and canned insight content rather than an error.
package infographic
