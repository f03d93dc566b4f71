// Package buffer provides the sample storage used by the compressor:
// planar multi-channel blocks, a pool for reusing them, and the circular
// running-sum accumulator behind the RMS detector.
package buffer
