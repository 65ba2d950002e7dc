// Package cli provides the command-line interface of the sector dump merger.
//
// The CLI parses flags, environment variables and an optional config file,
// validates the inputs, and either prints the merge plan (dry-run) or merges
// the two dumps into the output image. Use `Run` as the entry point when
// embedding the CLI in other tools, and `ExitCode` to map its errors to a
// process exit status.
//
// Example usage:
//
//   if err := cli.Run(os.Args); err != nil {
//       log.Printf("secmerge: %v", err)
//       os.Exit(cli.ExitCode(err))
//   }
//
package cli
