// Package config loads cmdroute options from TOML or YAML files, .env
// files and CMDROUTE_* environment variables, in increasing precedence.
//
//	if err := config.LoadDotEnv(".env"); err != nil {
//	    return err
//	}
//	opts, err := config.Load("cmdroute.toml")
//	if err != nil {
//	    return err
//	}
//	d, err := dispatcher.New(opts.DispatcherConfig())
//
// Watch reloads the file on change.
package config
