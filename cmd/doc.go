// Package cmd implements the fvecmat command line tool.
//
// Every flag can also be set through the environment, with the prefix
// FVECMAT_, upper case and dots and dashes replaced by underscores, or in a
// TOML configuration file passed with --config:
//
//	[features]
//	hash-bits = 20
//	ngram-len = 4
//
//	[output]
//	target = "s3://features/run-42.mat"
//
// Flags take precedence over the environment, which takes precedence over
// the configuration file.
package cmd
