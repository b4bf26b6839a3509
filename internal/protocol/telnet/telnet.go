// Package telnet implements the server side of the telnet byte-stream
// protocol: IAC command parsing, option negotiation and data transport.
// It is a pure codec; the session layer owns the socket and feeds bytes in
// both directions through callbacks.
package telnet

import (
	"fmt"
)

// Telnet protocol commands (RFC 854).
const (
	cmdSE   byte = 240
	cmdNOP  byte = 241
	cmdSB   byte = 250
	cmdWILL byte = 251
	cmdWONT byte = 252
	cmdDO   byte = 253
	cmdDONT byte = 254
	cmdIAC  byte = 255
)

// Telnet options this server knows about.
const (
	OptBinary    byte = 0  // RFC 856
	OptEcho      byte = 1  // RFC 857
	OptSGA       byte = 3  // RFC 858, suppress go-ahead
	OptTTYPE     byte = 24 // RFC 1091, terminal type
	OptNAWS      byte = 31 // RFC 1073, window size
	OptMSSP      byte = 70 // MUD server status, refused
	OptCompress2 byte = 86 // MCCP2, refused
	OptZMP       byte = 93 // zenith MUD protocol, refused
)

// maxSubnegotiation caps buffered IAC SB payloads. A peer streaming an
// unterminated subnegotiation is a protocol violation.
const maxSubnegotiation = 1024

// Handler receives codec events. Data carries decoded application bytes from
// the peer; Send carries encoded wire bytes that must be queued towards the
// peer; ProtocolError reports an unrecoverable protocol violation after which
// the session should close.
type Handler interface {
	Data(p []byte)
	Send(p []byte)
	ProtocolError(err error)
}

// optionPolicy says how we answer negotiation for one option: whether we are
// willing to enable it on our side (answer to DO) and whether we allow the
// peer to enable it on theirs (answer to WILL).
type optionPolicy struct {
	usWill   bool
	himAllow bool
}

// defaultPolicy mirrors the option table the sessions are started with:
// ECHO, TTYPE and NAWS are ours only, BINARY both ways, SGA ours,
// COMPRESS2/ZMP/MSSP refused outright.
func defaultPolicy() map[byte]optionPolicy {
	return map[byte]optionPolicy{
		OptEcho:      {usWill: true, himAllow: false},
		OptTTYPE:     {usWill: true, himAllow: false},
		OptSGA:       {usWill: true, himAllow: true},
		OptBinary:    {usWill: true, himAllow: true},
		OptNAWS:      {usWill: true, himAllow: false},
		OptCompress2: {usWill: false, himAllow: false},
		OptZMP:       {usWill: false, himAllow: false},
		OptMSSP:      {usWill: false, himAllow: false},
	}
}

type parseState int

const (
	stateData parseState = iota
	stateIAC
	stateVerb // WILL/WONT/DO/DONT seen, option byte pending
	stateSB
	stateSBIAC
)

// Codec is the per-connection telnet state machine. Not safe for concurrent
// use; the session feeds it from its receive loop only.
type Codec struct {
	handler Handler
	policy  map[byte]optionPolicy

	state parseState
	verb  byte
	sub   []byte

	usEnabled  map[byte]bool
	himEnabled map[byte]bool
}

// NewCodec returns a codec wired to the handler, with the default option
// policy.
func NewCodec(h Handler) *Codec {
	return &Codec{
		handler:    h,
		policy:     defaultPolicy(),
		usEnabled:  make(map[byte]bool),
		himEnabled: make(map[byte]bool),
	}
}

// Will sends a server-initiated WILL for the option. The session uses it at
// startup for ECHO and SGA, so the server owns the echoing. The option is
// marked enabled up front so the peer's confirming DO is not answered with a
// second WILL.
func (c *Codec) Will(opt byte) {
	c.usEnabled[opt] = true
	c.handler.Send([]byte{cmdIAC, cmdWILL, opt})
}

// Recv feeds raw bytes from the wire through the state machine. Decoded
// application data is delivered through Handler.Data in contiguous chunks.
func (c *Codec) Recv(p []byte) {
	var data []byte
	flush := func() {
		if len(data) > 0 {
			c.handler.Data(data)
			data = nil
		}
	}

	for _, b := range p {
		switch c.state {
		case stateData:
			if b == cmdIAC {
				c.state = stateIAC
				continue
			}
			data = append(data, b)

		case stateIAC:
			switch b {
			case cmdIAC:
				// escaped 0xFF data byte
				data = append(data, b)
				c.state = stateData
			case cmdWILL, cmdWONT, cmdDO, cmdDONT:
				c.verb = b
				c.state = stateVerb
			case cmdSB:
				flush()
				c.sub = c.sub[:0]
				c.state = stateSB
			default:
				// NOP, AYT, GA and friends carry no payload
				c.state = stateData
			}

		case stateVerb:
			flush()
			c.negotiateReply(c.verb, b)
			c.state = stateData

		case stateSB:
			if b == cmdIAC {
				c.state = stateSBIAC
				continue
			}
			c.appendSub(b)

		case stateSBIAC:
			switch b {
			case cmdSE:
				// subnegotiation payloads (TTYPE, NAWS) are consumed and
				// discarded: the session does not size its output
				c.sub = c.sub[:0]
				c.state = stateData
			case cmdIAC:
				c.appendSub(b)
				c.state = stateSB
			default:
				c.handler.ProtocolError(fmt.Errorf("telnet: unexpected command %d inside subnegotiation", b))
				c.state = stateData
			}
		}
	}
	flush()
}

func (c *Codec) appendSub(b byte) {
	if len(c.sub) >= maxSubnegotiation {
		c.handler.ProtocolError(fmt.Errorf("telnet: subnegotiation exceeds %d bytes", maxSubnegotiation))
		c.sub = c.sub[:0]
		c.state = stateData
		return
	}
	c.sub = append(c.sub, b)
}

// negotiateReply answers a peer option request per the policy table,
// suppressing replies that would re-acknowledge the current state (the loop
// avoidance half of RFC 1143 this server needs).
func (c *Codec) negotiateReply(verb, opt byte) {
	pol := c.policy[opt]

	switch verb {
	case cmdDO:
		if !pol.usWill {
			c.handler.Send([]byte{cmdIAC, cmdWONT, opt})
			return
		}
		if !c.usEnabled[opt] {
			c.usEnabled[opt] = true
			c.handler.Send([]byte{cmdIAC, cmdWILL, opt})
		}
	case cmdDONT:
		if c.usEnabled[opt] {
			c.usEnabled[opt] = false
			c.handler.Send([]byte{cmdIAC, cmdWONT, opt})
		}
	case cmdWILL:
		if !pol.himAllow {
			c.handler.Send([]byte{cmdIAC, cmdDONT, opt})
			return
		}
		if !c.himEnabled[opt] {
			c.himEnabled[opt] = true
			c.handler.Send([]byte{cmdIAC, cmdDO, opt})
		}
	case cmdWONT:
		if c.himEnabled[opt] {
			c.himEnabled[opt] = false
			c.handler.Send([]byte{cmdIAC, cmdDONT, opt})
		}
	}
}

// SendText encodes application text for the wire: IAC bytes are doubled and
// bare LF becomes CRLF so line breaks render on any client.
func (c *Codec) SendText(s string) {
	out := make([]byte, 0, len(s)+8)
	var prev byte
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch b {
		case cmdIAC:
			out = append(out, cmdIAC, cmdIAC)
		case '\n':
			if prev != '\r' {
				out = append(out, '\r')
			}
			out = append(out, '\n')
		default:
			out = append(out, b)
		}
		prev = b
	}
	if len(out) > 0 {
		c.handler.Send(out)
	}
}
