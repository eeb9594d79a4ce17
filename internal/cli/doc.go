// Package cli is the interactive storyboard front end.
//
// It wires a workflow.Session from configuration, then runs a line-based
// REPL over it. Long operations (script, stills, videos) block the prompt
// until they finish; Ctrl-C cancels the one in flight.
//
// Typical flow:
//
//	plot            enter the product plot (multi-line)
//	style macro     set the camera style
//	script          generate the scenes
//	image 1         render a still for scene 1
//	videos          render every missing video after one confirmation
//	export videos   write the clips to the export target
//
// Prompts that need a yes/no answer or an API key read from the same input
// as the REPL. See App, runREPL and execIface.
package cli
