/*
Package cli provides command-line interface utilities for quarry.

The cli package includes output formatters, typed command errors and signal
helpers used by the quarry command.

Output Formatting:

Query results are printed as an aligned table, JSON or CSV. Tables and CSV
take one column per exported scalar field, named by its json tag:

	format, err := cli.ParseFormat(flagValue)
	if err != nil {
		return err
	}
	formatter := cli.NewFormatter(cli.Resolve(format, os.Stdout))
	if err := formatter.FormatTo(os.Stdout, products); err != nil {
		return err
	}

The auto format prints a table on a terminal and JSON when piped.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()

SIGHUP is delivered separately through ReloadSignals so serve can reload its
configuration without stopping.
*/
package cli
