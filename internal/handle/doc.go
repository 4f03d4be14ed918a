// Package handle manages capability handles crossing process boundaries.
//
// A Handle names a shared node. Handles are process-local: when a message
// carries handles to a destination, each one must be translated into a
// destination-local 8-byte identifier before the destination can use it.
// The Table owns that translation for one destination process.
//
// The Inflight batch accumulates the handles a message carries. Storage for
// a small embedded number of handles lives inline in the batch; larger
// counts spill into a separate allocation. At install time the batch is
// walked in chunks, resolving identifiers against the destination table
// incrementally so the translation never needs the whole batch resident in
// one pass.
package handle
