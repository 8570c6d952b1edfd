// Package summarize generates brief, medium, and detailed meeting summaries
// from the attributed transcript and retrieved historical context.
package summarize
