// Package services provides the error taxonomy and context annotation
// helpers shared by workflow stages and external-service adapters.
package services
