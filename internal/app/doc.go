// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the headless run lifecycle: load a graph,
// play an event script against it, save it and print a summary. It is
// decoupled from any specific entrypoint like a CLI or server.
package app
