// Package dynamics implements a lookahead RMS/peak compressor engine.
//
// The Engine delays the program path by 10 ms (LookaheadSamples) while a
// shared detector follows the undelayed input of all channels. The detector
// blends a peak envelope with an RMS envelope refreshed every four samples,
// maps the result through a soft-knee curve and smooths the resulting gain
// before applying it with makeup, wet/dry mix and output trim.
//
// Building with the fastmath tag swaps the dB conversions for the
// algo-approx approximations.
package dynamics
