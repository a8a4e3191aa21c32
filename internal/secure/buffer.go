package secure

import (
	"sync"

	"github.com/awnumar/memguard"
)

// Buffer holds a sensitive value (access token, secret value) encrypted at
// rest in memory. It wraps memguard.Enclave, which encrypts the payload and
// attempts to mlock backing pages so plaintext never reaches swap.
type Buffer struct {
	enclave *memguard.Enclave
	mu      sync.RWMutex
	// destroyed allows idempotent Destroy calls and blocks use-after-destroy
	destroyed bool
}

// NewBuffer copies data into a protected memory region. The caller keeps
// ownership of the input slice and should zero it afterwards.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{enclave: memguard.NewEnclave(data)}
}

// NewBufferFromString is a convenience wrapper for string-valued secrets.
func NewBufferFromString(s string) *Buffer {
	return NewBuffer([]byte(s))
}

// Open decrypts the payload into a locked buffer. The caller MUST call
// Destroy on the returned LockedBuffer once the plaintext is no longer
// needed:
//
//	locked, err := buf.Open()
//	if err != nil {
//	    return err
//	}
//	defer locked.Destroy()
//	use(locked.String())
func (b *Buffer) Open() (*memguard.LockedBuffer, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.destroyed || b.enclave == nil {
		return memguard.NewBufferFromBytes([]byte{}), nil
	}
	return b.enclave.Open()
}

// Destroy marks the buffer unusable. Idempotent. The encrypted enclave data
// itself is safe to leave for the garbage collector; callers wanting a full
// sweep should defer memguard.Purge() in main.
func (b *Buffer) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.destroyed {
		return
	}
	b.enclave = nil
	b.destroyed = true
}
