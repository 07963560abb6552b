/*
flag Package set up cli flags shared across services

Usage:

	Flags listed in this package are shared across boundaries and service-agnostic
	For service dependent flags please define in their respective package
*/

package flag

import (
	"flag"
)

const (
	APIServer      = "api_server"
	FeedAggregator = "feed_aggregator"
)

var (
	IsDevelopment bool
	ServiceName   string
)

func init() {
	flag.BoolVar(&IsDevelopment, "dev", true, "set to true if the current run is for development. default value is true")
	flag.StringVar(&ServiceName, "service", APIServer, "'api_server' or 'feed_aggregator'")
}

// Parse binds every registered flag. Called once from main, after all flag
// registrations; test binaries parse through the testing package instead, so
// parsing must not happen at package init time.
func Parse() {
	flag.Parse()
}
