// Package callbacks provides handlers for pipeline, agent, LLM and tool events:
// a console printer, a package logger, a run statistics collector and a fanout.
package callbacks
