// Package persist indexes completed meetings in the vector store so future
// runs can retrieve them as historical context.
package persist
