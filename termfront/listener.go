/*
 * pandos-core - Terminal front-end: one TCP listener per terminal unit.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package termfront

import (
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/rcornwell/pandos/devices"
)

// Server listens on one TCP port and connects whatever arrives there
// to a single devices.Terminal -- one listener per configured terminal
// unit, the same granularity as the teacher's one telnet.Server per
// configured port.
type Server struct {
	log      *slog.Logger
	listener net.Listener
	term     *devices.Terminal

	mu       sync.Mutex
	attached bool

	shutdown chan struct{}
	wg       sync.WaitGroup
}

// busyMessage is what a second simultaneous connection gets instead of
// negotiation, mirroring the teacher's "line busy" refusal in
// telnet.go's connection limit check.
var busyMessage = []byte("terminal busy\r\n")

// Listen starts a Server on addr feeding term. Only one client may be
// connected to a terminal at a time; a second connection is refused
// while the first is still attached, mirroring model1052's single
// net.Conn per console.
func Listen(log *slog.Logger, addr string, term *devices.Terminal) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("termfront: listen %s: %w", addr, err)
	}
	s := &Server{log: log, listener: ln, term: term, shutdown: make(chan struct{})}
	s.wg.Add(1)
	go s.accept()
	return s, nil
}

// Addr returns the listener's bound network address.
func (s *Server) Addr() net.Addr { return s.listener.Addr() }

// Close stops accepting new connections and waits up to a second for
// the accept loop to notice, the same bounded shutdown wait the
// teacher's telnet.Stop uses.
func (s *Server) Close() {
	close(s.shutdown)
	s.listener.Close()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		s.log.Warn("termfront: timed out waiting for listener shutdown", "addr", s.listener.Addr())
	}
}

func (s *Server) accept() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				return
			default:
				continue
			}
		}
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	s.mu.Lock()
	if s.attached {
		s.mu.Unlock()
		_, _ = conn.Write(busyMessage)
		return
	}
	s.attached = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.attached = false
		s.mu.Unlock()
	}()

	s.term.Attach(conn)
	defer s.term.Detach()

	if _, err := conn.Write(initString); err != nil {
		s.log.Warn("termfront: negotiation write failed", "err", err)
		return
	}

	dec := &decoder{conn: conn, state: stateData}
	buf := make([]byte, 1024)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return
		}
		if data := dec.feed(buf[:n]); len(data) != 0 {
			s.term.Feed(data)
		}
	}
}
