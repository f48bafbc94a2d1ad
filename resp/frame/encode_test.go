package frame

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tresp "github.com/tidwall/resp"

	"github.com/majimaccho/my-redis/interface/resp"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name     string
		frame    resp.Frame
		expected string
	}{
		{name: "ok", frame: MakeOK(), expected: "+OK\r\n"},
		{name: "simple", frame: Simple("PONG"), expected: "+PONG\r\n"},
		{name: "empty simple", frame: Simple(""), expected: "+\r\n"},
		{name: "error", frame: Error("ERR unknown command 'foo'"), expected: "-ERR unknown command 'foo'\r\n"},
		{name: "integer", frame: Integer(42), expected: ":42\r\n"},
		{name: "negative integer", frame: Integer(-42), expected: ":-42\r\n"},
		{name: "bulk", frame: Bulk("world"), expected: "$5\r\nworld\r\n"},
		{name: "empty bulk", frame: Bulk{}, expected: "$0\r\n\r\n"},
		{name: "binary bulk", frame: Bulk("a\r\nb\x00"), expected: "$5\r\na\r\nb\x00\r\n"},
		{name: "null", frame: MakeNull(), expected: "$-1\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.frame)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(got))
		})
	}
}

func TestEncodeFailuresLeaveDstUntouched(t *testing.T) {
	tests := []struct {
		name  string
		frame resp.Frame
		err   error
	}{
		{name: "array", frame: Array{Bulk("a")}, err: ErrArrayEncoding},
		{name: "empty array", frame: Array{}, err: ErrArrayEncoding},
		{name: "simple with CR", frame: Simple("a\rb"), err: ErrInvalidLine},
		{name: "simple with LF", frame: Simple("a\nb"), err: ErrInvalidLine},
		{name: "error with CRLF", frame: Error("ERR\r\nx"), err: ErrInvalidLine},
		{name: "nil", frame: nil, err: ErrUnknownFrame},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := []byte("prefix")
			got, err := Append(dst, tt.frame)
			assert.True(t, errors.Is(err, tt.err), "got %v", err)
			assert.Equal(t, "prefix", string(got))
		})
	}
}

func TestAppendKeepsExistingBytes(t *testing.T) {
	buf, err := Append([]byte("+OK\r\n"), Bulk("v"))
	require.NoError(t, err)
	assert.Equal(t, "+OK\r\n$1\r\nv\r\n", string(buf))
}

func TestEncodeCommand(t *testing.T) {
	got := EncodeCommand([][]byte{[]byte("SET"), []byte("hello"), []byte("world")})
	assert.Equal(t, "*3\r\n$3\r\nSET\r\n$5\r\nhello\r\n$5\r\nworld\r\n", string(got))
}

// 用另一个 RESP 实现读回我们的编码
func TestEncodeReadableByOtherImplementation(t *testing.T) {
	frames := []resp.Frame{
		Simple("OK"),
		Error("ERR boom"),
		Integer(7),
		Bulk("hello"),
		Null{},
	}
	var buf []byte
	for _, f := range frames {
		var err error
		buf, err = Append(buf, f)
		require.NoError(t, err)
	}

	rd := tresp.NewReader(bytes.NewReader(buf))
	v, _, err := rd.ReadValue()
	require.NoError(t, err)
	assert.Equal(t, tresp.SimpleString, v.Type())
	assert.Equal(t, "OK", v.String())

	v, _, err = rd.ReadValue()
	require.NoError(t, err)
	assert.Equal(t, tresp.Error, v.Type())

	v, _, err = rd.ReadValue()
	require.NoError(t, err)
	assert.Equal(t, tresp.Integer, v.Type())
	assert.Equal(t, 7, v.Integer())

	v, _, err = rd.ReadValue()
	require.NoError(t, err)
	assert.Equal(t, tresp.BulkString, v.Type())
	assert.Equal(t, []byte("hello"), v.Bytes())

	v, _, err = rd.ReadValue()
	require.NoError(t, err)
	assert.True(t, v.IsNull())

	cmd, err := tresp.ArrayValue([]tresp.Value{
		tresp.StringValue("SET"),
		tresp.StringValue("k"),
		tresp.StringValue("v"),
	}).MarshalRESP()
	require.NoError(t, err)
	assert.Equal(t, string(cmd), string(EncodeCommand([][]byte{[]byte("SET"), []byte("k"), []byte("v")})))
}

func TestString(t *testing.T) {
	assert.Equal(t, `["get" "k"]`, String(Array{Bulk("get"), Bulk("k")}))
	assert.Equal(t, "(nil)", String(Null{}))
	assert.Equal(t, ":-1", String(Integer(-1)))
	assert.Equal(t, "<nil>", String(nil))
}
