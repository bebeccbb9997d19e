// Package main provides the pulsemat CLI for inspecting and transforming
// stored matrices.
//
// Usage:
//
//	pulsemat [flags] <command> [args]
//
// Commands:
//
//	list       - List stored matrices
//	inspect    - Show the meta and axis labels of a matrix
//	stats      - Summarise the values of a matrix, globally or per axis
//	reduce     - Collapse an axis and store the result
//	convert    - Re-encode a matrix with another dtype, compression or codec
//	quantize   - Store the 8-bit quantised codes of a matrix
//	dequantize - Restore values from stored codes
//	delete     - Remove stored matrices
//
// Configuration:
//
//	A YAML file passed with --config selects the blob store backend
//	(local, memory, s3 or minio), resource limits and logging.
package main

import (
	"fmt"
	"os"

	"github.com/researchwiseai/pulse-go/cmd/pulsemat/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
