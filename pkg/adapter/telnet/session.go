package telnet

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"

	"github.com/bookerd/bookerd/internal/logger"
	proto "github.com/bookerd/bookerd/internal/protocol/telnet"
	"github.com/bookerd/bookerd/internal/shell"
	"github.com/bookerd/bookerd/pkg/booking"
)

// readBufferSize is the size of the transport read buffer. Interactive
// sessions rarely exceed a few bytes per read.
const readBufferSize = 1024

// Session is one telnet client connected to the reservation engine.
//
// A session joins the engine as a booker at startup and leaves on close.
// Seats the booker holds are NOT released when the session ends; they stay
// allocated to the departed UID until the process exits.
//
// Two goroutines drive the transport: the receive loop feeds raw bytes into
// the telnet codec (which calls back into the shell), and the send loop
// drains the outbound queue. The send loop closes the transport only after
// the queue has drained past the shell's farewell, so "Bye ..." reaches the
// client before the socket goes away.
type Session struct {
	adapter *Adapter
	conn    net.Conn
	engine  *booking.Engine

	codec  *proto.Codec
	shell  *shell.Shell
	movies []cliMovie

	// uid identifies this session as a booker: "<ip>:<port>@<seq>".
	uid string

	// out is the outbound FIFO of wire-ready byte chunks. A nil entry marks
	// the end of the stream: the send loop closes the session once every
	// chunk queued before it has been written.
	out  chan []byte
	done chan struct{}

	closeOnce sync.Once

	// lctx carries the session's logging context (client IP, booker UID).
	lctx context.Context
}

// compile-time checks
var (
	_ booking.Booker = (*Session)(nil)
	_ proto.Handler  = (*Session)(nil)
)

func newSession(a *Adapter, conn net.Conn) *Session {
	return &Session{
		adapter: a,
		conn:    conn,
		engine:  a.engine,
		out:     make(chan []byte, 64),
		done:    make(chan struct{}),
		lctx:    context.Background(),
	}
}

// UID returns the booker identifier for this session.
func (s *Session) UID() string { return s.uid }

// Serve runs the session until the client disconnects, the shell exits, or
// the context is cancelled. It blocks; the adapter calls it from the
// per-connection goroutine.
func (s *Session) Serve(ctx context.Context) {
	seq, err := s.engine.Join(s)
	if err != nil {
		logger.Warn("telnet session rejected by engine",
			"address", s.conn.RemoteAddr(), logger.Err(err))
		_ = s.conn.Close()
		return
	}
	s.uid = fmt.Sprintf("%s@%d", s.conn.RemoteAddr().String(), seq)

	host, _, _ := net.SplitHostPort(s.conn.RemoteAddr().String())
	s.lctx = logger.WithContext(context.Background(),
		logger.NewLogContext(host).WithBooker(s.uid))

	if bm := s.adapter.bookingMetrics; bm != nil {
		bm.SetActiveBookers(s.engine.ActiveBookers())
	}

	s.codec = proto.NewCodec(s)
	s.shell = shell.New(shell.Config{
		Root: s.buildCLI(),
		Send: s.codec.SendText,
		OnEnter: func(out *shell.Output) {
			out.Print("Hello: " + s.uid + "\n")
		},
		OnExit: func(out *shell.Output) {
			out.Print("Bye ...\n")
		},
	})

	go s.sendLoop()
	go func() {
		select {
		case <-ctx.Done():
			s.farewell()
		case <-s.done:
		}
	}()

	// The client's local echo is suppressed; the shell echoes for it.
	s.codec.Will(proto.OptEcho)
	s.codec.Will(proto.OptSGA)
	s.shell.Start()

	logger.InfoCtx(s.lctx, "session started")

	s.receiveLoop()
}

// receiveLoop reads transport bytes and feeds them to the telnet codec until
// the connection errors out or the session closes.
func (s *Session) receiveLoop() {
	buf := make([]byte, readBufferSize)
	for {
		n, err := s.conn.Read(buf)
		if n > 0 {
			s.codec.Recv(buf[:n])
		}
		if err != nil {
			// A deadline only ever comes from the shutdown read interrupt;
			// leave the close to the send loop so the farewell still goes out.
			if !errors.Is(err, os.ErrDeadlineExceeded) {
				s.close()
			}
			return
		}

		select {
		case <-s.done:
			return
		default:
		}
	}
}

// sendLoop drains the outbound queue in order. The nil end-of-stream marker
// closes the session only after everything queued before it has been written.
func (s *Session) sendLoop() {
	for {
		select {
		case msg := <-s.out:
			if msg == nil {
				s.close()
				return
			}
			if _, err := s.conn.Write(msg); err != nil {
				s.close()
				return
			}
		case <-s.done:
			return
		}
	}
}

// farewell queues the goodbye line followed by the end-of-stream marker, so
// a session torn down by server shutdown still delivers "Bye ..." before the
// transport closes.
func (s *Session) farewell() {
	s.codec.SendText("Bye ...\n")
	s.enqueue(nil)
}

// enqueue appends a chunk to the outbound queue, giving up if the session is
// already closed.
func (s *Session) enqueue(p []byte) {
	select {
	case s.out <- p:
	case <-s.done:
	}
}

// Data implements proto.Handler: decoded application bytes feed the shell.
// Once the shell has exited, an end-of-stream marker follows the farewell
// into the queue so the send loop closes after delivering it.
func (s *Session) Data(p []byte) {
	s.shell.Read(p)
	if s.shell.Exited() {
		s.enqueue(nil)
	}
}

// Send implements proto.Handler: wire-ready bytes join the outbound queue.
// The codec reuses its buffer, so the chunk is copied.
func (s *Session) Send(p []byte) {
	buf := make([]byte, len(p))
	copy(buf, p)
	s.enqueue(buf)
}

// ProtocolError implements proto.Handler: a wire protocol violation drops
// the session.
func (s *Session) ProtocolError(err error) {
	logger.WarnCtx(s.lctx, "telnet protocol violation", logger.Err(err))
	if sm := s.adapter.sessionMetrics; sm != nil {
		sm.RecordProtocolError(s.adapter.GetListenerAddr())
	}
	s.close()
}

// close tears the session down exactly once: leave the engine, wake both
// loops, close the transport. Booked seats stay with the departed UID.
func (s *Session) close() {
	s.closeOnce.Do(func() {
		s.engine.Leave(s)
		close(s.done)
		if err := s.conn.Close(); err != nil {
			logger.Debug("Error closing session transport", logger.Err(err))
		}

		if bm := s.adapter.bookingMetrics; bm != nil {
			bm.SetActiveBookers(s.engine.ActiveBookers())
		}
		logger.InfoCtx(s.lctx, "session closed")
	})
}
