package codec

import "sync"

// CHUNK_SIZE is the size of the scratch buffers used to stream bytes between readers
// and writers that cannot hand data to each other directly.
const CHUNK_SIZE = 32 * 1024

var chunks = sync.Pool{
	New: func() any {
		b := make([]byte, CHUNK_SIZE)
		return &b
	},
}

func getChunk() *[]byte  { return chunks.Get().(*[]byte) }
func putChunk(b *[]byte) { chunks.Put(b) }
