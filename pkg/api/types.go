// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api holds the JSON payloads shared by the server and its clients.
package api

// CounterResponse describes a counter.
type CounterResponse struct {
	ID    string `json:"id"`
	Views int64  `json:"views"`
}

// RegisterResponse is returned by the admin registration endpoint.
type RegisterResponse struct {
	ID      string `json:"id"`
	Created bool   `json:"created"`
}

type GenericResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
