// Package mqttbus binds an acprocessor session to an MQTT broker: it
// publishes outbound frames and status notifications, and feeds inbound
// frames and control requests back into the session.
//
// All topics are rooted under a configured prefix (appconfig.Broker.Topic).
// The topic layout and payload shapes are fixed; see topics.go and
// payloads.go.
package mqttbus
