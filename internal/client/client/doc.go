// Package client talks to the Anniv HTTP API.
//
// Every response body is an envelope {status, message?, data?}; a non-zero
// status is returned as a *StatusError that matches the corresponding
// common error kind with errors.Is. Transport failures wrap ErrUnavailable.
//
// A Client keeps its session cookie in an in-memory jar, so a login is only
// remembered for the lifetime of the Client.
package client
