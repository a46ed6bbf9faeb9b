// Package cbordec is the public entry point for encoding and decoding RFC
// 8949 CBOR data items. It composes the two layers underneath it: the
// core wire codec in package cbor (value.Value <-> bytes, the correctness
// surface this module exists for) and the generic reflection bridge in
// package bridge (Go struct/slice/map/primitive <-> value.Value, a thin
// convenience layer on top).
//
// Most callers only need Encode and Decode. DecodeValue/EncodeToBytes drop
// down to the core layer directly for callers that already work in terms
// of value.Value (diagnostic tools, protocol inspectors, re-encoders).
package cbordec
