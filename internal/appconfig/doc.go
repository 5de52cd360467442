// Package appconfig loads the processor's YAML configuration file: the
// MQTT broker connection (including the topic root) and credentials.
//
// # Configuration file
//
//	broker:
//	  host: localhost
//	  port: 8883
//	  topic: toshiba
//	  tls: true
//	credentials:
//	  client_id: acprocessor
//	  username: ...
//	  password: ...
//	  cacert: /etc/acprocessor/ca.pem
//	  certfile: ...
//	  keyfile: ...
//
// A missing cacert disables server certificate verification and logs a
// warning; this is intentionally permissive for local/self-signed brokers.
package appconfig
