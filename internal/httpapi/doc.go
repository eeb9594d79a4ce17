// Package httpapi exposes one storyboard session over a JSON HTTP API for a
// browser front end. Generation endpoints block until the model answers;
// other requests stay served meanwhile and see the busy flags in /api/state.
//
// Confirmations (scene deletion, bulk videos) are answered by the client:
// a request without ?confirm=true gets 428 and the localized question.
package httpapi
