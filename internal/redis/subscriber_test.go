package redis

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// flakyServer speaks enough RESP for a pub/sub client. The connection carrying the
// first PSUBSCRIBE is closed right after the confirmation, later ones get a pmessage.
type flakyServer struct {
	ln          net.Listener
	channel     string
	payload     string
	psubscribes atomic.Int32

	mu    sync.Mutex
	conns []net.Conn
}

func startFlakyServer(t *testing.T, channel, payload string) *flakyServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &flakyServer{ln: ln, channel: channel, payload: payload}
	go s.accept()
	t.Cleanup(s.close)
	return s
}

func (s *flakyServer) accept() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns = append(s.conns, conn)
		s.mu.Unlock()
		go s.serve(conn)
	}
}

func (s *flakyServer) close() {
	_ = s.ln.Close()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, conn := range s.conns {
		_ = conn.Close()
	}
}

func (s *flakyServer) serve(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	subscribed := false

	for {
		args, err := readCommand(r)
		if err != nil {
			return
		}
		switch strings.ToUpper(args[0]) {
		case "HELLO":
			_, err = io.WriteString(conn, "-ERR unknown command 'HELLO'\r\n")
		case "PING":
			if subscribed {
				_, err = io.WriteString(conn, "*2\r\n$4\r\npong\r\n$0\r\n\r\n")
			} else {
				_, err = io.WriteString(conn, "+PONG\r\n")
			}
		case "PSUBSCRIBE":
			subscribed = true
			for i, pattern := range args[1:] {
				reply := "*3\r\n" + bulk("psubscribe") + bulk(pattern) + ":" + strconv.Itoa(i+1) + "\r\n"
				if _, err = io.WriteString(conn, reply); err != nil {
					return
				}
			}
			if s.psubscribes.Add(1) == 1 {
				return
			}
			msg := "*4\r\n" + bulk("pmessage") + bulk(args[1]) + bulk(s.channel) + bulk(s.payload)
			_, err = io.WriteString(conn, msg)
		default:
			_, err = io.WriteString(conn, "+OK\r\n")
		}
		if err != nil {
			return
		}
	}
}

func readCommand(r *bufio.Reader) ([]string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return nil, err
	}
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, "*") {
		return nil, fmt.Errorf("unexpected line %q", line)
	}
	n, err := strconv.Atoi(line[1:])
	if err != nil || n < 1 {
		return nil, fmt.Errorf("bad array header %q", line)
	}

	args := make([]string, 0, n)
	for i := 0; i < n; i++ {
		header, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		size, err := strconv.Atoi(strings.TrimRight(header, "\r\n")[1:])
		if err != nil {
			return nil, err
		}
		buf := make([]byte, size+2)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		args = append(args, string(buf[:size]))
	}
	return args, nil
}

func bulk(s string) string {
	return "$" + strconv.Itoa(len(s)) + "\r\n" + s + "\r\n"
}

func TestSubscriber_SurvivesDroppedConnection(t *testing.T) {
	req := require.New(t)
	server := startFlakyServer(t, "channel:chat:7", `{"event_type":"message.created"}`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := NewClient(ctx, Config{Addr: server.ln.Addr().String()})
	req.NoError(err)
	defer client.Close()

	type delivery struct {
		channel string
		payload string
	}
	received := make(chan delivery, 1)
	done := make(chan error, 1)
	go func() {
		done <- NewSubscriber(client).Subscribe(ctx, []string{"channel:chat:*"}, func(channel string, payload []byte) {
			select {
			case received <- delivery{channel: channel, payload: string(payload)}:
			default:
			}
		})
	}()

	select {
	case got := <-received:
		req.Equal("channel:chat:7", got.channel)
		req.JSONEq(`{"event_type":"message.created"}`, got.payload)
	case err := <-done:
		t.Fatalf("subscribe returned before any message: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no message after the connection was dropped")
	}
	req.GreaterOrEqual(server.psubscribes.Load(), int32(2))

	cancel()
	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(2 * time.Second):
		t.Fatal("subscribe did not return after cancel")
	}
}
