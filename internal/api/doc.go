// Package api exposes the HTTP surface of the slidesmith server: account
// registration and login, presentation and infographic generation, and the
// saved-SOW CRUD endpoints. Handlers translate HTTP concerns into calls on
// the internal services and map their errors to sanitized responses.
package api
