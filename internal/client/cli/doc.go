// Package cli provides the interactive job tracker command-line client.
//
// It wires configuration, the local session store, the HTTP API client and a
// tracker session, then runs a REPL over them. A background watcher probes the
// server's gRPC health service and switches the prompt between online and
// offline.
//
// Commands cover sign-up and sign-in, listing with one of four query modes
// (all, tech-stack search, status filter, deadline sort), adding, editing and
// deleting applications behind a confirmation prompt, per-status counts and
// CSV export to a file or an S3 bucket.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
