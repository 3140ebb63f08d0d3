// Package api defines the core data types shared across the machine
// engine
//
// This package contains the declared state and record key descriptors,
// operation result types, value type checking, and the snapshot wire
// format
package api
