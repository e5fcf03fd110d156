// Package btuid issues compact, collision free identifiers from the 2^64
// hexadecimal address space.
//
// Values are handed out by descending a fixed-fanout partition of the space,
// one depth at a time.  Allocation progress is persisted so that a restarted
// service resumes exactly where it stopped.  Identifiers are rendered as
// 16 lowercase hex digits, optionally followed by a random suffix, and can be
// passed through a reversible, optionally keyed, display transform.
//
//	srv, _ := btuid.New(ctx, btuid.WithConfig(&btuid.Config{URL: "state.json"}))
//	go srv.Start(ctx)
//	defer srv.Shutdown(ctx)
//	token, _ := srv.IssueToken(ctx)
//	display, _ := srv.Encode(token, "passphrase")
//	original, _ := srv.Decode(display, "passphrase")
//
// For more details see the individual sub-packages.
package btuid
