package gami

import (
	"context"
	"net"
	"sync"
	"time"
)

// DefaultActionTimeout is used by action wrappers that do not pass an
// explicit context deadline.
const DefaultActionTimeout = 30 * time.Second

// DefaultResponseBufferCap bounds the deferred-response buffer. A
// response that would exceed it is dropped and logged instead of
// growing the buffer without limit (spec's ResponseOverflow).
const DefaultResponseBufferCap = 4096

// Session exclusively owns the TCP socket, the deferred-response buffer,
// the event subscription registry, and the map from outstanding ActionID
// to its awaiter. It composes a transport, a Registry, and an
// actionIDSource rather than inheriting from them, per the capability
// composition this protocol calls for in place of the original's
// mix-in classes.
type Session struct {
	t        *transport
	Registry *Registry
	aid      *actionIDSource
	Log      *Logger

	mu          sync.Mutex
	awaiters    map[string]chan *Packet
	deferred    []*Packet
	maxDeferred int

	closed  bool
	closeCh chan struct{}
}

// Option configures a Session at construction time.
type Option func(*Session)

// WithLogger overrides the Session's logger (default: discard everything).
func WithLogger(l *Logger) Option {
	return func(s *Session) { s.Log = l }
}

// WithResponseBufferCap overrides the deferred-response buffer cap.
func WithResponseBufferCap(n int) Option {
	return func(s *Session) { s.maxDeferred = n }
}

// Dial connects to addr, validates the banner, logs in as username/secret,
// and starts the read loop. events selects whether the Login carries
// "Events: off". A closed Session is terminal: no reconnection is
// specified.
func Dial(ctx context.Context, addr, username, secret string, events bool, opts ...Option) (*Session, error) {
	deadline := time.Now().Add(DefaultActionTimeout)
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	t, err := dialTimeout(addr, time.Until(deadline))
	if err != nil {
		return nil, err
	}
	return newSession(t, username, secret, events, opts...)
}

// NewSession adopts an already-connected net.Conn (e.g. a test pipe) and
// runs the same banner/login handshake as Dial.
func NewSession(conn net.Conn, username, secret string, events bool, opts ...Option) (*Session, error) {
	return newSession(newTransport(conn), username, secret, events, opts...)
}

func newSession(t *transport, username, secret string, events bool, opts ...Option) (*Session, error) {
	s := &Session{
		t:           t,
		Registry:    NewRegistry(),
		aid:         newActionIDSource(),
		Log:         NewDiscardLogger(),
		awaiters:    map[string]chan *Packet{},
		maxDeferred: DefaultResponseBufferCap,
		closeCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := readBanner(s.t.r); err != nil {
		s.t.close()
		return nil, err
	}

	if err := s.login(username, secret, events); err != nil {
		s.t.close()
		return nil, err
	}

	go s.Serve(context.Background())
	return s, nil
}

// login performs the pre-read-loop handshake: write Login, read exactly
// one packet, fail with ErrAuthenticationFailure on Response: Error. No
// other packet shape is tolerated before authentication completes.
func (s *Session) login(username, secret string, events bool) error {
	p := NewPacket()
	p.Set("Action", "Login")
	p.Set("ActionID", s.aid.next())
	p.Set("Username", username)
	p.Set("Secret", secret)
	if !events {
		p.Set("Events", "off")
	}

	s.Log.State("logging in", "user", username)
	if err := s.t.writePacket(p); err != nil {
		return err
	}

	resp, err := readPacket(s.t.r)
	if err != nil {
		return err
	}
	r, ok := resp.Response()
	if !ok {
		return NewCommunicationError(resp, "expected login response")
	}
	if r == "Error" {
		return ErrAuthenticationFailure
	}
	s.Log.State("authenticated", "user", username)
	return nil
}

// run is the dedicated-reader loop body: it continuously parses packets
// and dispatches them until the transport errors, returning the error
// that ended it. Parsing and transport errors are fatal: they terminate
// the loop and fail every outstanding awaiter with ErrGoneAway.
func (s *Session) run() error {
	for {
		p, err := readPacket(s.t.r)
		if err != nil {
			s.shutdown()
			return err
		}
		if err := s.dispatch(p, true); err != nil {
			s.shutdown()
			return err
		}
	}
}

// Serve runs the dedicated-reader realization of the multi-threaded
// concurrency model: it drives run() until ctx is cancelled or the
// connection closes, whichever happens first. Dial and NewSession already
// start Serve in the background with a context that never cancels, so
// most callers never invoke it directly; it is exposed for callers that
// want the read loop's lifetime tied to their own ctx (e.g. to force a
// clean shutdown without going through Close). Serve must be called at
// most once per Session: the transport is single-consumer on the read
// side.
func (s *Session) Serve(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- s.run() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		s.t.close()
		<-done
		return ctx.Err()
	}
}

// Read is the non-blocking cooperative hook: it reads and dispatches
// exactly one packet, for callers driving their own poll/select loop
// instead of Serve's dedicated goroutine. A handler error is returned to
// this caller directly rather than merely logged.
func (s *Session) Read() error {
	p, err := readPacket(s.t.r)
	if err != nil {
		s.shutdown()
		return err
	}
	return s.dispatch(p, false)
}

// dispatch routes one inbound packet to its response awaiter or to the
// event registry, never both. backgroundLoop selects whether a handler
// error is merely logged (the dedicated-reader realization, which cannot
// abort mid-stream on one bad handler) or returned to the caller (the
// cooperative Read() hook).
func (s *Session) dispatch(p *Packet, backgroundLoop bool) error {
	if _, ok := p.Response(); ok {
		s.dispatchResponse(p)
		return nil
	}

	if name, ok := p.Event(); ok {
		err := s.dispatchEvent(name, p)
		if err != nil && backgroundLoop {
			s.Log.Info("event handler error", "event", name, "err", err)
			return nil
		}
		return err
	}

	return ErrMalformed
}

func (s *Session) dispatchResponse(p *Packet) {
	aid, _ := p.ActionID()

	s.mu.Lock()
	ch, ok := s.awaiters[aid]
	if ok {
		delete(s.awaiters, aid)
	}
	s.mu.Unlock()

	if ok {
		ch <- p
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.deferred) >= s.maxDeferred {
		s.Log.Info("response buffer overflow, dropping packet", "actionid", aid)
		return
	}
	s.deferred = append(s.deferred, p)
}

// translateChannelHeaders attaches a channel reference for each of
// Channel/Channel1/Channel2 present on p, so a subscriber can ask for
// p.ChannelRef(key) instead of resolving the raw identifier itself.
func (s *Session) translateChannelHeaders(p *Packet) {
	for _, key := range []string{"Channel", "Channel1", "Channel2"} {
		if v, ok := p.Get(key); ok {
			p.setChannelRef(key, newChannel(s, v))
		}
	}
}

func (s *Session) dispatchEvent(name string, p *Packet) error {
	s.translateChannelHeaders(p)

	handlerName := "on_" + name
	if !s.Registry.HasHandler(handlerName) {
		handlerName = "on_Event"
		if !s.Registry.HasHandler(handlerName) {
			return nil // silent drop: no subscriber, no fallback.
		}
	}
	return s.Registry.Fire(handlerName, p)
}

// shutdown marks the session closed and fails every outstanding awaiter
// with ErrGoneAway.
func (s *Session) shutdown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	awaiters := s.awaiters
	s.awaiters = map[string]chan *Packet{}
	s.mu.Unlock()

	for _, ch := range awaiters {
		close(ch)
	}
	close(s.closeCh)
}

// call registers an awaiter for a freshly minted ActionID, writes p, and
// blocks until the matching response arrives, ctx is cancelled, or the
// session closes. The deferred buffer is scanned first in case the
// response already arrived before the awaiter could be registered.
func (s *Session) call(ctx context.Context, p *Packet) (*Packet, error) {
	aid := s.aid.next()
	p.Set("ActionID", aid)

	ch := make(chan *Packet, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrGoneAway
	}
	for i, d := range s.deferred {
		if did, _ := d.ActionID(); did == aid {
			s.deferred = append(s.deferred[:i], s.deferred[i+1:]...)
			s.mu.Unlock()
			d.Del("ActionID")
			return d, nil
		}
	}
	s.awaiters[aid] = ch
	s.mu.Unlock()

	if err := s.t.writePacket(p); err != nil {
		s.mu.Lock()
		delete(s.awaiters, aid)
		s.mu.Unlock()
		return nil, err
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return nil, ErrGoneAway
		}
		resp.Del("ActionID")
		return resp, nil
	case <-ctx.Done():
		s.mu.Lock()
		delete(s.awaiters, aid)
		s.mu.Unlock()
		return nil, ErrTimeout
	case <-s.closeCh:
		return nil, ErrGoneAway
	}
}

// callTimeout is call with a default-timeout context, for action
// wrappers that do not need a caller-supplied deadline.
func (s *Session) callTimeout(p *Packet) (*Packet, error) {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultActionTimeout)
	defer cancel()
	return s.call(ctx, p)
}

// validate applies the response validation rule: success iff
// Response is one of Success/Follows/Pong, else PermissionDenied when
// Message is exactly "Permission denied", else ActionFailed(Message).
func validate(p *Packet, err error) (*Packet, error) {
	if err != nil {
		return nil, err
	}
	resp, _ := p.Response()
	switch resp {
	case "Success", "Follows", "Pong":
		return p, nil
	}
	if msg, _ := p.Get("Message"); msg == "Permission denied" {
		return nil, ErrPermissionDenied
	}
	msg, _ := p.Get("Message")
	return nil, NewActionFailed(msg)
}

// Channel returns a Channel reference for the value of header key on p,
// e.g. session.Channel(event, "Channel"). Header values stay plain
// strings. Events fired through the Registry already carry translated
// references for Channel/Channel1/Channel2 (see Packet.ChannelRef);
// action responses do not, and this accessor works on any packet and
// any header.
func (s *Session) Channel(p *Packet, key string) (Channel, bool) {
	v, ok := p.Get(key)
	if !ok {
		return Channel{}, false
	}
	return newChannel(s, v), true
}

// Close logs off and closes the connection: it writes Logoff and waits
// for the matching response, then closes the socket on Response: Goodbye.
// Events that arrive meanwhile are not discarded: the read loop keeps
// dispatching them to subscribers. Any other response is a
// CommunicationError, returned without closing the socket.
func (s *Session) Close() error {
	p := NewPacket()
	p.Set("Action", "Logoff")
	resp, err := s.callTimeout(p)
	if err != nil {
		return err
	}
	if r, _ := resp.Response(); r != "Goodbye" {
		return NewCommunicationError(resp, "expected goodbye")
	}
	return s.t.close()
}
