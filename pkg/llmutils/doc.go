// Package llmutils has helpers for model input and output text.
package llmutils
