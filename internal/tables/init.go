// Package tables registers the built-in import schemas.
// Import it for its side effect; each file registers its tables in init().
package tables
