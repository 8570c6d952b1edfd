// Package stt wraps the external speech-to-text service behind a small HTTP
// client. The service contract is a multipart audio upload returning timed
// transcript segments with confidence scores.
package stt
