// Package client contains the CLI side of the Chatop API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface):
//     Register/Login/Logout, Me, Ping, ListRentals, CreateRental and
//     SendMessage.
//  2. A concrete JSON-over-HTTP implementation (see HTTPClient) that keeps
//     the session token issued at login and sends it as a bearer token.
//
// # Error Handling
//
// Rejected requests come back as *APIError carrying the server message.
// Common conditions match sentinel errors with errors.Is: ErrUnavailable,
// ErrUnauthorized, ErrForbidden, common.ErrNotFound, common.ErrBadRequest.
package client
