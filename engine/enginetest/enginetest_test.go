package enginetest

import "testing"

// echoConn builds a Conn whose receive side replays replies, then -1.
func echoConn(replies ...int32) (Conn, *[]byte) {
	var sent []byte
	i := 0
	return Conn{
		tx: func(b byte) { sent = append(sent, b) },
		rx: func() int32 {
			if i >= len(replies) {
				return -1
			}
			r := replies[i]
			i++
			return r
		},
	}, &sent
}

func TestEchoScript(t *testing.T) {
	tests := []struct {
		name    string
		replies []int32
		want    int32
	}{
		{name: "both echoed", replies: []int32{'c', 'f'}, want: StatusOK},
		{name: "echo after timeouts", replies: []int32{-1, -1, 'c', -1, 'f'}, want: StatusOK},
		{name: "silent target", replies: nil, want: StatusConnectFailed},
		{name: "wrong echo", replies: []int32{'x'}, want: StatusConnectFailed},
		{name: "flash type not echoed", replies: []int32{'c'}, want: StatusFlashTypeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, sent := echoConn(tt.replies...)
			got := EchoScript([]byte("cf"), 3)(conn)
			if got != tt.want {
				t.Errorf("status = %d, want %d (sent %q)", got, tt.want, *sent)
			}
		})
	}
}

func TestFlashMainUnregistered(t *testing.T) {
	e := New(1, 9600, EchoScript([]byte("c"), 1))
	if got := e.FlashMain(2, []string{"a", "b", "c"}); got != StatusNotRegistered {
		t.Errorf("FlashMain() = %d, want %d", got, StatusNotRegistered)
	}
	if e.Argc != 2 || len(e.Argv) != 3 {
		t.Errorf("arguments not recorded: argc=%d argv=%v", e.Argc, e.Argv)
	}
}
