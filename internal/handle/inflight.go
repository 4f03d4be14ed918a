package handle

// inlineEntries is the embedded handle capacity of an Inflight batch.
// It also bounds the chunk size produced by Walk.
const inlineEntries = 16

// Inflight accumulates the handles carried by one message. A batch is
// created for a fixed count, filled by the sender, and walked once at
// install time on the receiving side.
type Inflight struct {
	n      int
	inline [inlineEntries]Handle
	extra  []Handle
	ids    [inlineEntries]ID
}

// Init prepares the batch for n handles. Counts beyond the embedded
// capacity allocate spill storage.
func (f *Inflight) Init(n int) {
	f.n = n
	if n > inlineEntries {
		f.extra = make([]Handle, n-inlineEntries)
	}
}

// Len returns the number of handle entries in the batch.
func (f *Inflight) Len() int { return f.n }

// Set stores the handle at index i. It panics on out-of-range indices,
// matching slice semantics.
func (f *Inflight) Set(i int, h Handle) {
	if i < 0 || i >= f.n {
		panic("handle: inflight index out of range")
	}
	if i < inlineEntries {
		f.inline[i] = h
		return
	}
	f.extra[i-inlineEntries] = h
}

// At returns the handle at index i.
func (f *Inflight) At(i int) Handle {
	if i < 0 || i >= f.n {
		panic("handle: inflight index out of range")
	}
	if i < inlineEntries {
		return f.inline[i]
	}
	return f.extra[i-inlineEntries]
}

// Walk produces the next chunk of destination-local identifiers, resolving
// each handle against t as it goes. cursor starts at 0; pass the returned
// cursor to resume. ok is false once the batch is fully walked. The
// returned slice is only valid until the next Walk call.
func (f *Inflight) Walk(t *Table, cursor int) (ids []ID, next int, ok bool) {
	if cursor >= f.n {
		return nil, cursor, false
	}

	n := f.n - cursor
	if n > inlineEntries {
		n = inlineEntries
	}
	for i := 0; i < n; i++ {
		f.ids[i] = t.Import(f.At(cursor + i))
	}
	return f.ids[:n], cursor + n, true
}

// Destroy drops the batch's handle entries and spill storage. The batch
// must not be walked afterwards.
func (f *Inflight) Destroy() {
	f.n = 0
	f.extra = nil
	f.inline = [inlineEntries]Handle{}
}
