// Package protocol decodes forum requests and encodes responses.
//
// A request is a keyword optionally followed by '|'-separated arguments:
//
//	POST|What is 2+2?
//
// A response is "OK|<payload>" or "ERR|<message>".
package protocol

import "strings"

// Command keywords.
const (
	CommandRegister = "REGISTER"
	CommandLogin    = "LOGIN"
	CommandLogout   = "LOGOUT"
	CommandPost     = "POST"
	CommandAnswer   = "ANSWER"
	CommandList     = "LISTQ"
	CommandSearch   = "SEARCH"
	CommandRate     = "RATE"
	CommandLeader   = "LEADER"
)

const (
	// FieldSeparator splits a request or response into fields.
	FieldSeparator = "|"
	// ListSeparator splits repeated entries inside a single field.
	ListSeparator = ";"
)

// Status is the first field of every response.
type Status string

const (
	StatusOK  Status = "OK"
	StatusErr Status = "ERR"
)

// Request is a decoded client message.
type Request struct {
	Command string
	Args    []string
}

// Parse decodes a single message. A trailing line terminator is ignored.
// Splitting is strict: empty fields are kept so that arity checks see them.
func Parse(raw []byte) Request {
	msg := strings.TrimRight(string(raw), "\r\n")
	if msg == "" {
		return Request{}
	}

	fields := strings.Split(msg, FieldSeparator)

	return Request{
		Command: fields[0],
		Args:    fields[1:],
	}
}

// Response is an encoded-ready server reply.
type Response struct {
	Status  Status
	Payload string
}

func OK(payload string) Response {
	return Response{Status: StatusOK, Payload: payload}
}

func Error(message string) Response {
	return Response{Status: StatusErr, Payload: message}
}

// Join builds a payload out of several fields.
func Join(fields ...string) string {
	return strings.Join(fields, FieldSeparator)
}

func (r Response) String() string {
	return string(r.Status) + FieldSeparator + r.Payload
}

// Encode returns the wire form of the response.
func (r Response) Encode() []byte {
	return []byte(r.String())
}
