// Package actions extracts structured follow-up items from the attributed
// transcript using a JSON-mode completion.
package actions
