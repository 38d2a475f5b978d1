// Package scan provides the low-level JSON scanning layer: a cursor over
// an input byte range, structural skippers that bound values without
// interpreting them, typed leaf extractors, and the error taxonomy shared
// by the parse and serialize layers.
//
// Scanning runs under one of two policies. [Checked] verifies every
// primitive read against the end of input and reports byte offsets in
// errors. [Unchecked] elides those checks; it is valid only for inputs
// known to be well-formed, and behavior on malformed input is undefined.
package scan
