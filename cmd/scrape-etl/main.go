package main

import (
	"scrape-etl/cmd/scrape-etl/commands"
	"scrape-etl/lib/util/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
