// Package plugin is the host-facing side of the compressor. A Processor is
// set up once per sample-rate or channel change, then receives one Process
// call per audio block with the block's parameter changes, 32- or 64-bit
// planar buffers and per-bus silence flags. It reports latency, metering
// readings and the persisted parameter state.
//
// Process never allocates, locks, logs or performs I/O. Parameter edits
// from other goroutines go through QueueChange and are applied at the start
// of the next block.
package plugin
