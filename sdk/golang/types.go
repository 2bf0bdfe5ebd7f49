// SPDX-License-Identifier: MIT

package golang

// CounterResponse is returned by GET /api/v1/counters/{key}.
type CounterResponse struct {
	ID    string `json:"id"`
	Views int64  `json:"views"`
}

// RegisterResponse is returned by POST /api/v1/admin/counters/{key}.
type RegisterResponse struct {
	ID      string `json:"id"`
	Created bool   `json:"created"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
