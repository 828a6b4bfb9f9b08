// Package inspect serves a read-mostly HTTP view of a running shadow tree.
//
// Routes:
//
//	GET  /tree                         nested JSON dump from the root
//	GET  /nodes/{id}                   one node with its children ids
//	POST /nodes/{id}/events/{name}     dispatch an event at a node
//	POST /nodes/{id}/functions/{name}  CallFunction with a JSON body param
//	GET  /commits                      recent commits from a render.Recorder
//	GET  /stream                       websocket stream of new commits
//	GET  /metrics                      Prometheus scrape endpoint
//
// The dom.Manager is not safe for concurrent use, so every handler that
// touches it holds the Locker given in Options. Code that mutates the
// manager from other goroutines must hold the same Locker.
package inspect
