package shell

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FlowScope/internal/config"
	"FlowScope/internal/engine"
)

func newSession(t *testing.T) (*Shell, *engine.BufferIO) {
	t.Helper()
	io := &engine.BufferIO{}
	return New(engine.New(config.Default()), io), io
}

func loadedSession(t *testing.T, rows ...string) (*Shell, *engine.BufferIO) {
	t.Helper()
	header := "timestamp,source,destination,sourcePort,destPort,protocol,byteCount,packetCount,tcpFlags,dnsQueryName,dnsResponseCode\n"
	path := filepath.Join(t.TempDir(), "flows.csv")
	require.NoError(t, os.WriteFile(path, []byte(header+strings.Join(rows, "")), 0o644))

	sh, io := newSession(t)
	require.True(t, sh.Execute(fmt.Sprintf("load %q", path)))
	require.True(t, sh.Execute("index"))
	require.Empty(t, io.Errors)
	*io = engine.BufferIO{}
	return sh, io
}

func TestTokenizeQuotes(t *testing.T) {
	assert.Equal(t, []string{"load", "my flows.csv"}, tokenize(`load "my flows.csv"`))
	assert.Equal(t, []string{"top", "by=flows", "limit=3"}, tokenize("top  by=flows\tlimit=3"))
	assert.Empty(t, tokenize("   "))
}

func TestKVArgs(t *testing.T) {
	kv, pos := kvArgs([]string{"exfil", "10.0.0.1", "window=300", "thrMB=10"})
	assert.Equal(t, "300", kv["window"])
	assert.Equal(t, "10", kv["thrmb"])
	assert.Equal(t, []string{"exfil", "10.0.0.1"}, pos)
}

func TestRestPreservesSpelling(t *testing.T) {
	assert.Equal(t, `proto = tcp and (dport = 80 or dport = 443)`,
		rest(`filter proto = tcp and (dport = 80 or dport = 443)`, 1))
	assert.Equal(t, `"src = a"`, rest(`flows where "src = a"`, 2))
}

func TestExecuteQuit(t *testing.T) {
	sh, _ := newSession(t)
	assert.True(t, sh.Execute(""))
	assert.True(t, sh.Execute("help"))
	assert.False(t, sh.Execute("quit"))
	assert.False(t, sh.Execute("exit"))
}

func TestExecuteUnknownCommand(t *testing.T) {
	sh, io := newSession(t)
	sh.Execute("frobnicate")
	require.Len(t, io.Errors, 1)
	assert.Contains(t, io.Errors[0], "unknown command: frobnicate")
}

func TestExecuteFullSession(t *testing.T) {
	sh, io := loadedSession(t,
		"100,1.1.1.1,2.2.2.2,40000,80,6,1000,1,,,\n",
		"160,3.3.3.3,4.4.4.4,40000,53,17,200,1,,lookup.example.com,0\n",
	)

	require.True(t, sh.Execute("filter proto = tcp"))
	assert.Contains(t, io.Lines[len(io.Lines)-1], "Filter set: proto = tcp")

	*io = engine.BufferIO{}
	require.True(t, sh.Execute("flows where dport = 80"))
	require.Len(t, io.Lines, 1)
	assert.Contains(t, io.Lines[0], "1.1.1.1")

	*io = engine.BufferIO{}
	require.True(t, sh.Execute("top by=flows limit=1"))
	require.Len(t, io.Lines, 1)
	assert.True(t, strings.HasPrefix(io.Lines[0], "1.1.1.1"))

	*io = engine.BufferIO{}
	require.True(t, sh.Execute("filter"))
	require.True(t, sh.Execute("timeline flows per=60"))
	assert.Len(t, io.Lines, 4, "warn + echo + two buckets")
}

func TestExecuteDetectRouting(t *testing.T) {
	sh, io := loadedSession(t, "100,a,b,40000,80,6,10,1,,,\n")

	sh.Execute("detect syn-scan thr=5")
	require.Len(t, io.Lines, 1)
	assert.Contains(t, io.Lines[0], "No SYN scan offenders (thr=5).")

	*io = engine.BufferIO{}
	sh.Execute("detect exfil a thrMB=1")
	require.Len(t, io.Lines, 1)
	assert.Contains(t, io.Lines[0], "No exfil over threshold (1 MB).")

	*io = engine.BufferIO{}
	sh.Execute("detect exfil")
	require.Len(t, io.Errors, 1)
	assert.Contains(t, io.Errors[0], "usage: detect exfil")

	*io = engine.BufferIO{}
	sh.Execute("detect wavelength")
	require.Len(t, io.Errors, 1)
	assert.Contains(t, io.Errors[0], "unknown detector")
}

func TestExecuteNoteAndExport(t *testing.T) {
	sh, io := loadedSession(t, "100,a,b,40000,80,6,10,1,,,\n")

	sh.Execute(`note "looks like a scanner"`)
	require.Len(t, io.Lines, 1)
	assert.Contains(t, io.Lines[0], "Noted: looks like a scanner")

	out := filepath.Join(t.TempDir(), "out.csv")
	*io = engine.BufferIO{}
	sh.Execute(fmt.Sprintf("export %q", out))
	require.Empty(t, io.Errors)
	assert.Contains(t, io.Lines[0], "Exported 1 rows")
}

func TestExecuteDNSRare(t *testing.T) {
	sh, io := loadedSession(t,
		"100,a,b,40000,53,17,10,1,,odd.example.com,3\n",
	)

	sh.Execute("dns rare min=2")
	require.Len(t, io.Lines, 2)
	assert.Contains(t, io.Lines[0], "Rare domains (<= 2):")
	assert.Contains(t, io.Lines[1], "odd.example.com")
	assert.Contains(t, io.Lines[1], "NX=1")
}
