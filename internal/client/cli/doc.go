// Package cli provides the interactive microblog console.
//
// The console keeps a session user and forwards commands to the server
// through client.Service:
//
//   - register <name>        create a user and log in as it
//   - login <name>           log in as an existing user
//   - post <text>            publish a post
//   - follow <name>          follow another user
//   - timeline [start count] show the session user's timeline
//   - global                 show the global timeline
//   - common <name>          followers shared with another user
//   - followers, following   list the follow graph around the session user
//   - archive [count]        upload a snapshot of the timeline
//   - export [count]         archive, then download the snapshot to ./archives
//   - logout, help, exit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or input ends. See runREPL for the dispatch loop.
package cli
