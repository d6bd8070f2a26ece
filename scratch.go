package lilliput

import "sync"

// scratchPool hands out small byte slices for extended-form integer
// payload and length-field assembly inside a single Encoder call,
// avoiding a fresh allocation for those bytes. Float payloads do not
// use it: they are written from the slice floatpack.Pack returns. This
// is the same
// resource-pool shape as the teacher's pool.go (a sync.Pool of reusable
// buffers, checked out and returned around a bounded unit of work)
// adapted from pooling whole decoded values to pooling raw scratch
// bytes, since the codec's payloads are never larger than a handful of
// bytes outside of String/Bytes/container contents.
var scratchPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, 16)
		return &buf
	},
}

func getScratch() *[]byte {
	return scratchPool.Get().(*[]byte)
}

func putScratch(buf *[]byte) {
	*buf = (*buf)[:0]
	scratchPool.Put(buf)
}
