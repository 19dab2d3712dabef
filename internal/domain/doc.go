// Package domain holds the core entities of the system: users, the slide
// and generated-document model, and saved SOWs. It carries the validation
// rules for each and depends on no infrastructure.
package domain
