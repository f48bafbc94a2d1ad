package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tresp "github.com/tidwall/resp"

	"github.com/majimaccho/my-redis/interface/resp"
	"github.com/majimaccho/my-redis/resp/frame"
)

func TestParseOne(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  resp.Frame
	}{
		{name: "simple", input: "+OK\r\n", want: frame.Simple("OK")},
		{name: "empty simple", input: "+\r\n", want: frame.Simple("")},
		{name: "error", input: "-ERR boom\r\n", want: frame.Error("ERR boom")},
		{name: "integer", input: ":1000\r\n", want: frame.Integer(1000)},
		{name: "negative integer", input: ":-42\r\n", want: frame.Integer(-42)},
		{name: "bulk", input: "$5\r\nhello\r\n", want: frame.Bulk("hello")},
		{name: "empty bulk", input: "$0\r\n\r\n", want: frame.Bulk{}},
		{name: "binary bulk", input: "$4\r\na\r\nb\r\n", want: frame.Bulk("a\r\nb")},
		{name: "null", input: "$-1\r\n", want: frame.Null{}},
		{name: "empty array", input: "*0\r\n", want: frame.Array{}},
		{
			name:  "get",
			input: "*2\r\n$3\r\nGET\r\n$5\r\nhello\r\n",
			want:  frame.Array{frame.Bulk("GET"), frame.Bulk("hello")},
		},
		{
			name:  "nested",
			input: "*2\r\n*1\r\n:1\r\n+x\r\n",
			want:  frame.Array{frame.Array{frame.Integer(1)}, frame.Simple("x")},
		},
		{
			name:  "mixed",
			input: "*3\r\n$-1\r\n-ERR\r\n$1\r\nz\r\n",
			want:  frame.Array{frame.Null{}, frame.Error("ERR"), frame.Bulk("z")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOne([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckAdvancesToFrameEnd(t *testing.T) {
	data := []byte("$5\r\nhello\r\n+OK\r\n")
	c := NewCursor(data)
	require.NoError(t, Check(c))
	assert.Equal(t, 11, c.Position())

	require.NoError(t, Check(c))
	assert.Equal(t, len(data), c.Position())
	assert.Equal(t, 0, c.Remaining())
}

// 完整帧的任何一个真前缀都只能得到 ErrIncomplete
func TestCheckIncompleteOnEveryPrefix(t *testing.T) {
	inputs := []string{
		"+OK\r\n",
		"-ERR boom\r\n",
		":-42\r\n",
		"$5\r\nhello\r\n",
		"$0\r\n\r\n",
		"$-1\r\n",
		"*2\r\n$3\r\nSET\r\n$1\r\nk\r\n",
		"*3\r\n$3\r\nSET\r\n$5\r\nhello\r\n$5\r\nworld\r\n",
		"*1\r\n*1\r\n:1\r\n",
	}
	for _, input := range inputs {
		for i := 0; i < len(input); i++ {
			c := NewCursor([]byte(input[:i]))
			err := Check(c)
			assert.True(t, errors.Is(err, frame.ErrIncomplete),
				"input %q cut at %d: got %v", input, i, err)
		}
		c := NewCursor([]byte(input))
		assert.NoError(t, Check(c), input)
	}
}

func TestCheckMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "unknown type byte", input: "?foo\r\n"},
		{name: "inline command", input: "GET k\r\n"},
		{name: "integer not a number", input: ":abc\r\n"},
		{name: "empty integer", input: ":\r\n"},
		{name: "bulk length not a number", input: "$x\r\nab\r\n"},
		{name: "bulk negative length", input: "$-2\r\n"},
		{name: "bulk minus zero", input: "$-0\r\n"},
		{name: "bulk bad terminator", input: "$3\r\nabcXY"},
		{name: "bulk too long", input: "$536870913\r\n"},
		{name: "array negative length", input: "*-1\r\n"},
		{name: "array bad length", input: "*x\r\n"},
		{name: "array bad element", input: "*1\r\n!\r\n"},
		{name: "simple with bare LF", input: "+a\nb\r\n"},
		{name: "simple with bare CR", input: "+a\rb\r\n"},
		{name: "error with bare LF", input: "-ERR a\nb\r\n"},
		{name: "simple inside array", input: "*1\r\n+x\ny\r\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(NewCursor([]byte(tt.input)))
			var protoErr *frame.ProtocolError
			require.True(t, errors.As(err, &protoErr), "got %v", err)
			assert.True(t, frame.ShouldCloseConnection(err))
		})
	}
}

func TestCheckLineTooLong(t *testing.T) {
	line := "+" + strings.Repeat("a", frame.MaxLineLength+2)
	err := Check(NewCursor([]byte(line)))
	var protoErr *frame.ProtocolError
	require.True(t, errors.As(err, &protoErr), "got %v", err)

	// 没有超过上限的半行数据还要继续等
	err = Check(NewCursor([]byte("+" + strings.Repeat("a", frame.MaxLineLength))))
	assert.True(t, errors.Is(err, frame.ErrIncomplete))
}

func TestCheckNestingLimit(t *testing.T) {
	deep := strings.Repeat("*1\r\n", frame.MaxArrayDepth+1) + ":1\r\n"
	err := Check(NewCursor([]byte(deep)))
	var protoErr *frame.ProtocolError
	require.True(t, errors.As(err, &protoErr), "got %v", err)

	ok := strings.Repeat("*1\r\n", frame.MaxArrayDepth) + ":1\r\n"
	assert.NoError(t, Check(NewCursor([]byte(ok))))
}

func TestParseCopiesBulk(t *testing.T) {
	data := []byte("$5\r\nhello\r\n")
	f, err := ParseOne(data)
	require.NoError(t, err)
	copy(data, "XXXXXXXXXXX")
	assert.Equal(t, frame.Bulk("hello"), f)
}

func TestRoundTrip(t *testing.T) {
	frames := []resp.Frame{
		frame.Simple("OK"),
		frame.Error("ERR x"),
		frame.Integer(-7),
		frame.Bulk("value"),
		frame.Bulk{},
		frame.Null{},
	}
	for _, f := range frames {
		b, err := frame.Encode(f)
		require.NoError(t, err)
		got, err := ParseOne(b)
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
}

func TestParseOtherImplementationCommand(t *testing.T) {
	b, err := tresp.ArrayValue([]tresp.Value{
		tresp.StringValue("SET"),
		tresp.StringValue("hello"),
		tresp.StringValue("world"),
	}).MarshalRESP()
	require.NoError(t, err)

	f, err := ParseOne(b)
	require.NoError(t, err)
	assert.Equal(t, frame.Array{frame.Bulk("SET"), frame.Bulk("hello"), frame.Bulk("world")}, f)
}

func TestCursor(t *testing.T) {
	c := NewCursor([]byte("ab\r\n12\r\n"))
	b, err := c.PeekU8()
	require.NoError(t, err)
	assert.Equal(t, byte('a'), b)
	assert.Equal(t, 0, c.Position())

	line, err := c.GetLine()
	require.NoError(t, err)
	assert.Equal(t, "ab", string(line))

	n, err := c.GetDecimal()
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)

	_, err = c.GetU8()
	assert.True(t, errors.Is(err, frame.ErrIncomplete))
	assert.True(t, errors.Is(c.Skip(1), frame.ErrIncomplete))
	assert.Error(t, c.Skip(-1))
}

// 解析出来的 Simple 和 Error 一定能原样编码回去
func TestParsedLinesReencode(t *testing.T) {
	for _, input := range []string{"+OK\r\n", "-ERR boom\r\n", "+\r\n"} {
		f, err := ParseOne([]byte(input))
		require.NoError(t, err)
		b, err := frame.Encode(f)
		require.NoError(t, err)
		assert.Equal(t, input, string(b))
	}

	_, err := ParseOne([]byte("+a\nb\r\n"))
	var protoErr *frame.ProtocolError
	assert.True(t, errors.As(err, &protoErr), "got %v", err)
}
