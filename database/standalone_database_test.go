package database

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/majimaccho/my-redis/command"
	"github.com/majimaccho/my-redis/datastruct/dict"
	"github.com/majimaccho/my-redis/interface/resp"
	"github.com/majimaccho/my-redis/resp/frame"
)

type fakeConn struct{}

func (fakeConn) WriteFrame(resp.Frame) error { return nil }
func (fakeConn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 50000}
}

func encode(t *testing.T, f resp.Frame) string {
	t.Helper()
	b, err := frame.Encode(f)
	require.NoError(t, err)
	return string(b)
}

func TestSetThenGet(t *testing.T) {
	db := NewStandaloneDatabase(4)
	conn := fakeConn{}

	got := db.Exec(conn, command.Set{Key: "hello", Value: []byte("world")})
	assert.Equal(t, "+OK\r\n", encode(t, got))

	got = db.Exec(conn, command.Get{Key: "hello"})
	assert.Equal(t, "$5\r\nworld\r\n", encode(t, got))
	assert.Equal(t, 1, db.Len())
}

func TestGetMissing(t *testing.T) {
	db := NewStandaloneDatabase(4)
	got := db.Exec(fakeConn{}, command.Get{Key: "nope"})
	assert.Equal(t, "$-1\r\n", encode(t, got))
}

func TestSetOverwrites(t *testing.T) {
	db := NewStandaloneDatabase(4)
	db.Exec(nil, command.Set{Key: "k", Value: []byte("one")})
	db.Exec(nil, command.Set{Key: "k", Value: []byte("two")})

	got := db.Exec(nil, command.Get{Key: "k"})
	assert.Equal(t, frame.Bulk("two"), got)
	assert.Equal(t, 1, db.Len())
}

type otherCommand struct{}

func (otherCommand) Name() string { return "other" }

func TestExecUnsupportedCommand(t *testing.T) {
	db := NewStandaloneDatabase(4)
	got := db.Exec(fakeConn{}, otherCommand{})
	assert.Equal(t, frame.Error("ERR unknown command 'other'"), got)
}

type panicDict struct {
	dict.Dict
}

func (panicDict) Get(string) ([]byte, bool) { panic("boom") }

func TestExecRecoversPanic(t *testing.T) {
	db := NewStandaloneDatabaseWithDict(panicDict{Dict: dict.MakeConcurrent(1)})
	got := db.Exec(fakeConn{}, command.Get{Key: "k"})
	assert.Equal(t, frame.Error("ERR unknown"), got)
}

func TestClose(t *testing.T) {
	db := NewStandaloneDatabase(4)
	db.Exec(nil, command.Set{Key: "k", Value: []byte("v")})
	db.AfterClientClose(fakeConn{})
	db.Close()
	assert.Equal(t, 0, db.Len())
}
