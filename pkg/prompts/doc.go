// Package prompts provides text templates used to build model prompts.
package prompts
