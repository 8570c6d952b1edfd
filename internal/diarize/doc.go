// Package diarize wraps the external speaker-diarization service. The
// service is optional; runs proceed with unattributed speakers when it is
// disabled or unreachable.
package diarize
