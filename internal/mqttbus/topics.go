package mqttbus

import "fmt"

// topics holds the session's topic names, all rooted under a configured
// prefix.
type topics struct {
	packetRx      string
	packetTx      string
	packetError   string
	control       string
	clientBridge  string
	clientProcess string
	status        string
	update        string
}

func newTopics(root string) topics {
	return topics{
		packetRx:      fmt.Sprintf("%s/packet/rx", root),
		packetTx:      fmt.Sprintf("%s/packet/tx", root),
		packetError:   fmt.Sprintf("%s/packet/error", root),
		control:       fmt.Sprintf("%s/control", root),
		clientBridge:  fmt.Sprintf("%s/client/bridge", root),
		clientProcess: fmt.Sprintf("%s/client/processor", root),
		status:        fmt.Sprintf("%s/status", root),
		update:        fmt.Sprintf("%s/update", root),
	}
}
