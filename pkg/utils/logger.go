// Package utils provides shared logging and text helpers.
package utils

import "go.uber.org/zap"

// NewLogger builds the process logger: a human-readable development logger
// at debug level when debug is set, the JSON production logger otherwise.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
