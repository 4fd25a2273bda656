package spinner

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStart_DrawsAndClears(t *testing.T) {
	var out syncBuffer
	stop := Start(&out, "Waiting 5s")
	time.Sleep(3 * frameInterval)
	stop()
	stop() // second call is a no-op

	s := out.String()
	assert.Contains(t, s, "Waiting 5s")
	assert.True(t, strings.HasSuffix(s, "\r"+strings.Repeat(" ", len("Waiting 5s")+2)+"\r"))
}

func TestStart_ClearsWideMessages(t *testing.T) {
	var out syncBuffer
	stop := Start(&out, "待機中")
	stop()

	// Three double-width runes plus frame and space.
	assert.True(t, strings.HasSuffix(out.String(), "\r"+strings.Repeat(" ", 8)+"\r"))
}

func TestStartOnTerminal_NonTerminalIsSilent(t *testing.T) {
	var out bytes.Buffer
	stop := StartOnTerminal(&out, "hidden")
	time.Sleep(2 * frameInterval)
	stop()

	assert.Empty(t, out.String())
}
