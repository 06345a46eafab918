// Package http provides HTTP handlers and middleware for the court booking API.
//
// The router exposes the following endpoints:
//   - POST /register: creates an account and sets the `access_token` cookie.
//   - POST /login: verifies credentials and sets the `access_token` cookie.
//     Body: {"email","password"}.
//   - POST /logout: clears the `access_token` cookie.
//   - GET /session: reports the identity behind the current cookie; safe for
//     anonymous callers.
//   - POST /users/lookup: administrator lookup of an account by email.
//   - GET /courts (optional ?sport=), POST /courts, GET /courts/lookup,
//     GET /courts/{id}: court catalog endpoints exchanging the `courtDTO`
//     payload defined in court_handler.go. Creation requires an
//     administrator identity.
//   - POST /reservations, GET /reservations (optional ?user_email=),
//     GET /reservations/hours?day=&court_id=, DELETE /reservations/{id},
//     PUT /reservations/{id}/status: booking endpoints exchanging the
//     `reservationDTO` payload defined in reservation_handler.go.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
