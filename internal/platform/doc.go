package platform

// Package platform contains OS/platform integration and external tooling glue:
// curl progress parsing, version probing, exit code texts, filesystem helpers
// and OS reveal.
