// Package http provides HTTP handlers and middleware for the campus events API.
//
// The router exposes the following endpoints:
//   - POST /sessions: issues a session token. Body: {"email","password"}. Response:
//     {"token","expires_at","organizer"} with the token also surfaced via the
//     `X-Session-Token` header and a `session_token` cookie. POST /sessions/refresh
//     extends the current session; DELETE /sessions/current revokes it and clears
//     the cookie.
//   - POST /organizers: public signup. GET /organizers, GET/PUT/DELETE
//     /organizers/{id}: account management exchanging the `organizerDTO` payload
//     defined in organizer_handler.go. Organizers may only modify or delete their
//     own account.
//   - GET /events, POST /events, GET/PUT/DELETE /events/{id}, POST
//     /events/{id}/status, GET /events/code/next: event management exchanging the
//     `eventDTO` payload defined in event_handler.go. Status changes follow the
//     planned -> in_progress -> finished progression.
//   - GET/POST /events/{id}/activities, GET/PUT/DELETE /activities/{id}, POST
//     /activities/{id}/finalize, GET /activities/conflict-check: activity
//     scheduling endpoints exchanging the `activityDTO` payload defined in
//     activity_handler.go. Activity listings include venue conflict warnings.
//   - GET /venues, POST /venues, GET/PUT/DELETE /venues/{id}: venue catalog
//     endpoints exchanging the `venueDTO` payload defined in venue_handler.go.
//   - GET /participants, POST /participants, GET/PUT/DELETE /participants/{id}:
//     participant registry endpoints exchanging the `participantDTO` payload
//     defined in participant_handler.go.
//   - GET/POST /activities/{id}/inscriptions, GET /participants/{id}/inscriptions,
//     DELETE /inscriptions/{id}, PUT /inscriptions/{id}/attendance: enrollment
//     endpoints exchanging the `inscriptionDTO` payload defined in
//     inscription_handler.go.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
