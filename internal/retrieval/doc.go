// Package retrieval implements the historical-context stage: the opening of
// the attributed transcript is embedded and matched against vectors from
// previously processed meetings.
package retrieval
