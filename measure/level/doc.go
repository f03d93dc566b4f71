// Package level provides the compressor's level metering: per-channel
// envelope followers, the block aggregator that gathers pre/post levels,
// true peak and gain reduction, and display-side indicators that consume
// the reported dB values.
package level
