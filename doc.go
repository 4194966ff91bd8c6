// Package mboardweb is the server side of the mBoard web front end.
//
// The package owns the session lifecycle plus the presentational glue
// around it; every credential decision belongs to the remote directory
// service reached through DirectoryClient.
//
// Session lifecycle:
//   - SessionStore is the single writer for both session channels: the
//     access-token cookie the browser carries and the durable TokenStore
//     record that holds the refresh token. Reads never error; teardown is
//     best-effort remote, unconditional local.
//
// Claims:
//   - DecodeToken extracts claims without verifying the signature. The
//     result drives display and navigation only, it must never be used to
//     authorize anything.
//
// Admin console:
//   - AdminDirectory orchestrates the role-gated user CRUD against the
//     directory service, refreshing its full cached list after every
//     mutation attempt.
package mboardweb
