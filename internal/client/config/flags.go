package config

import "github.com/spf13/pflag"

// BindFlags registers the CLI flags on fs, writing into o.
//
//	-c, --config string      JSON config file
//	-a, --server string      server base URL
//	-t, --timeout duration   request timeout
//	-n, --page-size int      rentals per page
func BindFlags(fs *pflag.FlagSet, o *Overrides) {
	fs.StringVarP(&o.ConfigFile, "config", "c", "", "JSON config file")
	fs.StringVarP(&o.ServerURL, "server", "a", "", "server base URL")
	fs.DurationVarP(&o.RequestTimeout, "timeout", "t", 0, "request timeout")
	fs.IntVarP(&o.PageSize, "page-size", "n", 0, "rentals per page")
}
