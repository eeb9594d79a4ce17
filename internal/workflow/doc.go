// Package workflow drives one storyboard session: it turns user intents into
// store commands and generator calls, keeps the per-scene busy flags honest
// while calls are in flight, and gates video generation behind a selected
// credential.
//
// A Session is safe for concurrent use. Mutations are serialized by a mutex
// and generator calls run without holding it, so a slow video job does not
// block edits to other scenes. Each completion is applied as a single
// command, which clears the busy flag and stores the result together.
package workflow
