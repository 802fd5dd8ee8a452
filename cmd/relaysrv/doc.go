// Package `relaysrv` implements server application for the text relay over TCP.
//
// Every message received from a client is delivered as is to all other connected clients.
// Optionally the same relay is exposed over WebSocket.
//
// To compile relay server locally, run from package directory:
//
//	go install .
//
// Or quickly launch server with command:
//
//	go run . -addr 127.0.0.1:5000
//
// Configuration is read from optional YAML file (-config), from .env file in working directory
// and from RELAY_* environment variables. Flags take precedence over all of them.
//
// Version may be set at build time:
//
//	go build -ldflags "-X main.version=1.0.0" .
package main
