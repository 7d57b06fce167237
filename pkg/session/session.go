// Package session implements the session/protocol engine (spec §4.5): the
// send-serializing lock around a transport, the outbound pending-request
// correlation table, the session-state cell, and the receive loop that
// ties them to a router. Grounded on the teacher's server-only
// ProcessRequests loop, generalized to full duplex per
// mocopr-core/src/protocol/session.rs.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/richard-senior/mcpsession/internal/logger"
	"github.com/richard-senior/mcpsession/pkg/jsonrpc"
	"github.com/richard-senior/mcpsession/pkg/mcp"
	"github.com/richard-senior/mcpsession/pkg/mcperrors"
	"github.com/richard-senior/mcpsession/pkg/router"
	"github.com/richard-senior/mcpsession/pkg/transport"
)

// EventKind classifies a Session observability event.
type EventKind int

const (
	Connected EventKind = iota
	Disconnected
	Initialized
	MessageReceived
	MessageSent
	ErrorEvent
)

func (k EventKind) String() string {
	switch k {
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	case Initialized:
		return "initialized"
	case MessageReceived:
		return "message_received"
	case MessageSent:
		return "message_sent"
	case ErrorEvent:
		return "error"
	default:
		return "unknown"
	}
}

// Event is one observability record emitted on Session.Events().
type Event struct {
	Kind    EventKind
	Peer    *mcp.Implementation
	Message string
	Err     error
}

// EventBufferSize bounds the event channel; once full, the oldest queued
// event is dropped to admit the new one (spec §9 design note: the
// unbounded channel is redesigned bounded-with-drop-oldest to cap memory
// under slow observers).
const EventBufferSize = 256

// State is the session-state cell: handshake-negotiated facts plus
// activity timestamps. Read via Session.State(), which returns a copy.
type State struct {
	Initialized        bool
	ClientInfo          *mcp.Implementation
	ServerInfo          *mcp.Implementation
	ClientCapabilities  *mcp.ClientCapabilities
	ServerCapabilities  *mcp.ServerCapabilities
	ProtocolVersion     string
	ConnectedAt         time.Time
	LastActivity        time.Time
}

// Session multiplexes request/response/notification traffic over one
// transport: the heart of the system (spec §4.5).
type Session struct {
	id        string
	transport transport.Transport
	router    router.Dispatcher
	pending   *pendingTable

	sendMu sync.Mutex

	stateMu sync.RWMutex
	state   State

	events chan Event

	shutdownOnce sync.Once
	shutdown     chan struct{}
}

// New builds a Session over transport, dispatching inbound requests and
// notifications through r.
func New(t transport.Transport, r router.Dispatcher) *Session {
	now := time.Now()
	return &Session{
		id:        uuid.NewString(),
		transport: t,
		router:    r,
		pending:   newPendingTable(),
		events:    make(chan Event, EventBufferSize),
		shutdown:  make(chan struct{}),
		state:     State{ConnectedAt: now, LastActivity: now},
	}
}

func (s *Session) ID() string { return s.id }

// Events returns the channel observability events are published on.
func (s *Session) Events() <-chan Event { return s.events }

// State returns a copy of the current session state.
func (s *Session) State() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

func (s *Session) IsInitialized() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state.Initialized
}

// PendingCount reports the number of outstanding outbound requests; used
// by tests asserting the table is empty at session end (spec invariant 2).
func (s *Session) PendingCount() int { return s.pending.len() }

func (s *Session) emit(ev Event) {
	select {
	case s.events <- ev:
	default:
		// Drop the oldest queued event to admit this one (spec §9).
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- ev:
		default:
		}
	}
}

func (s *Session) touch() {
	s.stateMu.Lock()
	s.state.LastActivity = time.Now()
	s.stateMu.Unlock()
}

func (s *Session) isShuttingDown() bool {
	select {
	case <-s.shutdown:
		return true
	default:
		return false
	}
}

// sendRaw serializes a write behind the send-lock so concurrent senders
// never interleave bytes on the wire (spec invariant 7).
func (s *Session) sendRaw(ctx context.Context, data []byte) error {
	if s.isShuttingDown() {
		return mcperrors.New(mcperrors.KindClosed, "session is shutting down")
	}
	s.sendMu.Lock()
	err := s.transport.Send(ctx, data)
	s.sendMu.Unlock()
	if err != nil {
		return err
	}
	s.touch()
	s.emit(Event{Kind: MessageSent, Message: string(data)})
	return nil
}

// SendRequest issues an outbound request and blocks until a correlated
// response arrives, the request times out, or the session shuts down
// (spec §4.5 send path). A zero timeout uses DefaultTimeout.
func (s *Session) SendRequest(ctx context.Context, method string, params any, timeout time.Duration) (*jsonrpc.Response, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	id := uuid.NewString()
	sink := s.pending.insert(id, timeout)

	req, err := jsonrpc.NewRequest(method, params, id)
	if err != nil {
		s.pending.remove(id)
		return nil, err
	}
	data, err := jsonrpc.EncodeRequest(req)
	if err != nil {
		s.pending.remove(id)
		return nil, err
	}

	if err := s.sendRaw(ctx, data); err != nil {
		s.pending.remove(id)
		return nil, err
	}

	select {
	case resp := <-sink:
		return resp, nil
	case <-ctx.Done():
		s.pending.remove(id)
		return nil, ctx.Err()
	case <-s.shutdown:
		return nil, mcperrors.New(mcperrors.KindClosed, "session is shutting down")
	}
}

// SendNotification fires an outbound notification; there is no reply to
// wait for.
func (s *Session) SendNotification(ctx context.Context, method string, params any) error {
	n, err := jsonrpc.NewNotification(method, params)
	if err != nil {
		return err
	}
	data, err := jsonrpc.EncodeNotification(n)
	if err != nil {
		return err
	}
	return s.sendRaw(ctx, data)
}

// Run is the receive loop (spec §4.5): one task per session, reading one
// message at a time until the transport orderly-closes, fails, or
// shutdown is signalled.
func (s *Session) Run(ctx context.Context) error {
	s.emit(Event{Kind: Connected})

	for {
		select {
		case <-s.shutdown:
			return nil
		default:
		}

		msg, err := s.transport.Receive(ctx)
		if err != nil {
			s.emit(Event{Kind: ErrorEvent, Err: err})
			return err
		}
		if msg == nil {
			s.emit(Event{Kind: Disconnected})
			return nil
		}

		s.touch()
		s.emit(Event{Kind: MessageReceived, Message: string(msg)})

		if err := s.handleMessage(ctx, msg); err != nil {
			s.emit(Event{Kind: ErrorEvent, Err: err})
		}
	}
}

func (s *Session) handleMessage(ctx context.Context, msg []byte) error {
	kind, req, notif, resp, err := jsonrpc.Decode(msg)
	if err != nil {
		return err
	}

	switch kind {
	case jsonrpc.KindResponse:
		if !s.pending.resolve(idKey(resp.ID), resp) {
			return mcperrors.New(mcperrors.KindUnexpectedMessage, "unknown response id")
		}
		return nil

	case jsonrpc.KindRequest:
		out := s.dispatchGated(ctx, req)
		data, err := jsonrpc.EncodeResponse(out)
		if err != nil {
			return err
		}
		return s.sendRaw(ctx, data)

	case jsonrpc.KindNotification:
		// The peer's initialized notification completes the handshake on
		// the receiving (server) side.
		if notif.Method == string(mcp.NotificationInitialized) {
			s.stateMu.Lock()
			s.state.Initialized = true
			s.stateMu.Unlock()
		}
		s.router.DispatchNotification(ctx, notif)
		return nil

	default:
		return mcperrors.New(mcperrors.KindUnexpectedMessage, "undecodable message kind")
	}
}

// dispatchGated enforces invariant 2 (spec §3/§4.5): no inbound request
// other than initialize or ping is processed before the session reaches
// initialized. Everything else arriving early is rejected with
// bad-session-state rather than reaching the router/handler at all.
func (s *Session) dispatchGated(ctx context.Context, req *jsonrpc.Request) *jsonrpc.Response {
	if !s.IsInitialized() && req.Method != string(mcp.MethodInitialize) && req.Method != string(mcp.MethodPing) {
		err := mcperrors.New(mcperrors.KindBadSessionState, "session is not initialized: "+req.Method)
		return jsonrpc.NewErrorResponse(err.Code(), err.Message, nil, req.ID)
	}
	return s.router.DispatchRequest(ctx, req)
}

func idKey(id any) string {
	return fmt.Sprintf("%v", id)
}

// SweepTimeouts evicts pending requests past their deadline; callers run
// this periodically (spec §4.5's timeout sweeper).
func (s *Session) SweepTimeouts() {
	s.pending.sweepTimeouts()
}

// RunTimeoutSweeper runs SweepTimeouts every interval until ctx is
// cancelled or the session shuts down.
func (s *Session) RunTimeoutSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.shutdown:
			return
		case <-ticker.C:
			s.SweepTimeouts()
		}
	}
}

// Shutdown signals graceful stop: the receive loop exits, new sends fail
// with closed, and outstanding pending entries resolve with cancelled
// (spec §4.5 shutdown).
func (s *Session) Shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.shutdown)
		s.pending.cancelAll()
	})
}

// MarkInitialized transitions session state to initialized, recording both
// sides' info/capabilities/version (spec §4.5 initialize handshake,
// shared by client and server sides).
func (s *Session) MarkInitialized(clientInfo, serverInfo mcp.Implementation, clientCaps mcp.ClientCapabilities, serverCaps mcp.ServerCapabilities, protocolVersion string) {
	s.stateMu.Lock()
	s.state.Initialized = true
	s.state.ClientInfo = &clientInfo
	s.state.ServerInfo = &serverInfo
	s.state.ClientCapabilities = &clientCaps
	s.state.ServerCapabilities = &serverCaps
	s.state.ProtocolVersion = protocolVersion
	s.stateMu.Unlock()

	s.emit(Event{Kind: Initialized, Peer: &serverInfo})
}

// Initialize drives the client side of the handshake (spec §4.5 steps
// 1-4): send initialize, validate the response carries no error, record
// the negotiated state, then fire the initialized notification.
func (s *Session) Initialize(ctx context.Context, clientInfo mcp.Implementation, caps mcp.ClientCapabilities, protocolVersion string) (*mcp.InitializeResult, error) {
	params := mcp.InitializeParams{
		ProtocolVersion: protocolVersion,
		Capabilities:    caps,
		ClientInfo:      clientInfo,
	}

	resp, err := s.SendRequest(ctx, string(mcp.MethodInitialize), params, DefaultTimeout)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, mcperrors.New(mcperrors.KindInitFailed, resp.Error.Message)
	}

	var result mcp.InitializeResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, mcperrors.Wrap(mcperrors.KindParseError, "invalid initialize result", err)
	}

	s.MarkInitialized(clientInfo, result.ServerInfo, caps, result.Capabilities, result.ProtocolVersion)

	if err := s.SendNotification(ctx, string(mcp.NotificationInitialized), nil); err != nil {
		return nil, err
	}

	return &result, nil
}

func logReceiveError(err error) {
	if err != nil {
		logger.Debug("session receive error: %v", err)
	}
}
