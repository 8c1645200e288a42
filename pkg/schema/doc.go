// Package schema reflects Go structs into JSON schemas describing tool inputs.
package schema
