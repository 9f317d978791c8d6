// Package generation defines the boundary between the application core
// and external AI services used to draft new drug catalog entries.
// Implementations live under internal/platform.
package generation
