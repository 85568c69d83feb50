// Package language provides unified language code normalization and mapping.
//
// Probed streams carry raw language tags in inconsistent shapes (ISO 639-1,
// ISO 639-2 with alias variants, BCP-47 with region, or nothing at all with a
// hint hidden in the title). All conversions are consolidated here so export
// naming and track metadata agree on one code per stream.
package language
