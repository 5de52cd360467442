package mqttbus

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/toshiba-abbus/acprocessor/internal/appconfig"
	"github.com/toshiba-abbus/acprocessor/internal/logging"
	"github.com/toshiba-abbus/acprocessor/internal/session"
)

// Client binds a session.Session to an MQTT broker: it implements
// session.Sink (outbound frames) and session.Events (lifecycle/status
// notifications), and feeds the session inbound frames and control requests
// received on the broker's topics.
type Client struct {
	mqtt mqtt.Client
	t    topics
	sess *session.Session

	mu          sync.Mutex
	bridgeAlive bool

	// FrameObserver, if set, is called with every raw frame received on
	// <root>/packet/rx, before it is handed to the session. It exists so a
	// dashboard or packet log can see inbound frames without sitting in the
	// session's own Sink/Events path, which only covers outbound traffic and
	// callbacks.
	FrameObserver func(direction string, data []byte)
}

var _ session.Sink = (*Client)(nil)
var _ session.Events = (*Client)(nil)

// New connects to the broker described by cfg and wires it to sess. The
// returned Client is ready to be passed to sess as both its Sink and Events,
// and its connection is already established.
func New(cfg *appconfig.Config, sess *session.Session) (*Client, error) {
	c := &Client{
		t:    newTopics(cfg.Broker.Topic),
		sess: sess,
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL(cfg.Broker))
	opts.SetClientID(cfg.Credentials.ClientID)
	if cfg.Credentials.Username != "" {
		opts.SetUsername(cfg.Credentials.Username)
		opts.SetPassword(cfg.Credentials.Password)
	}

	if cfg.Broker.TLS {
		tlsCfg, err := newTLSConfig(cfg.Credentials)
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}

	lwt, _ := json.Marshal(processorStatePayload{State: "offline"})
	opts.SetBinaryWill(c.t.clientProcess, lwt, 1, true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)

	opts.SetOnConnectHandler(func(cl mqtt.Client) {
		logging.Info("mqtt connected", zap.String("broker", cfg.Broker.Addr()))
		c.subscribe(cl)
	})
	opts.SetConnectionLostHandler(func(cl mqtt.Client, err error) {
		logging.Warn("mqtt connection lost", zap.Error(err))
	})

	c.mqtt = mqtt.NewClient(opts)
	token := c.mqtt.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqttbus: connect: %w", err)
	}

	return c, nil
}

func brokerURL(b appconfig.Broker) string {
	scheme := "tcp"
	if b.TLS {
		scheme = "ssl"
	}
	return fmt.Sprintf("%s://%s", scheme, b.Addr())
}

func (c *Client) subscribe(cl mqtt.Client) {
	cl.Subscribe(c.t.packetRx, 1, c.handlePacketRx)
	cl.Subscribe(c.t.packetError, 0, c.handlePacketError)
	cl.Subscribe(c.t.control, 1, c.handleControl)
	cl.Subscribe(c.t.clientBridge, 1, c.handleBridge)
}

// Close publishes the retained offline state and disconnects.
func (c *Client) Close() {
	payload, _ := json.Marshal(processorStatePayload{State: "offline"})
	token := c.mqtt.Publish(c.t.clientProcess, 1, true, payload)
	token.WaitTimeout(time.Second)
	c.mqtt.Disconnect(250)
}

// ---- session.Sink ----

// Send publishes an outbound frame to <root>/packet/tx.
func (c *Client) Send(frame []byte) error {
	token := c.mqtt.Publish(c.t.packetTx, 1, false, frame)
	token.Wait()
	return token.Error()
}

// ---- session.Events ----

func (c *Client) OnStart() {
	c.publishRetained(processorStatePayload{State: "start"})
}

func (c *Client) OnReady() {
	c.publishRetained(processorStatePayload{State: "ready"})
}

func (c *Client) OnStateChange(name string) {
	payload, err := json.Marshal(processorInternalStatePayload{InternalState: name})
	if err != nil {
		return
	}
	c.mqtt.Publish(c.t.clientProcess, 0, false, payload)
}

func (c *Client) OnStatus(kind string) {
	model := c.sess.Model()
	payload, err := json.Marshal(newStatusPayload(model))
	if err != nil {
		logging.Warn("failed to marshal status payload", zap.Error(err), zap.String("kind", kind))
		return
	}
	c.mqtt.Publish(c.t.status, 0, true, payload)
}

func (c *Client) OnUpdate() {
	payload, err := json.Marshal(newUpdatePayload(c.sess.Model()))
	if err != nil {
		logging.Warn("failed to marshal update payload", zap.Error(err))
		return
	}
	c.mqtt.Publish(c.t.update, 0, false, payload)
}

func (c *Client) publishRetained(p processorStatePayload) {
	payload, err := json.Marshal(p)
	if err != nil {
		return
	}
	c.mqtt.Publish(c.t.clientProcess, 1, true, payload)
}

// ---- inbound subscriptions ----

func (c *Client) handlePacketRx(_ mqtt.Client, msg mqtt.Message) {
	if c.FrameObserver != nil {
		c.FrameObserver("rx", msg.Payload())
	}
	c.sess.OnFrame(time.Now(), msg.Payload())
}

func (c *Client) handlePacketError(_ mqtt.Client, msg mqtt.Message) {
	logging.Warn("bridge reported packet error", zap.ByteString("status", msg.Payload()))
}

func (c *Client) handleBridge(_ mqtt.Client, msg mqtt.Message) {
	var p bridgeConnectionPayload
	if err := json.Unmarshal(msg.Payload(), &p); err != nil {
		logging.Debug("dropping unparseable bridge status", zap.Error(err))
		return
	}

	c.mu.Lock()
	c.bridgeAlive = p.Connection == "alive"
	c.mu.Unlock()

	c.sess.Reset()
}

func (c *Client) handleControl(_ mqtt.Client, msg mqtt.Message) {
	c.mu.Lock()
	alive := c.bridgeAlive
	c.mu.Unlock()
	if !alive {
		logging.Debug("ignoring control message, bridge not alive")
		return
	}

	var p controlPayload
	if err := json.Unmarshal(msg.Payload(), &p); err != nil {
		logging.Debug("dropping unparseable control message", zap.Error(err))
		return
	}

	c.dispatchControl(p)
}

// dispatchControl applies every key present in p; a single message may set
// more than one field (e.g. set_mode and set_temp together).
func (c *Client) dispatchControl(p controlPayload) {
	if p.SetPower != nil {
		if err := c.sess.SetPower(*p.SetPower); err != nil {
			logging.Warn("control request rejected", zap.String("field", "set_power"), zap.Error(err))
		}
	}
	if p.SetMode != nil {
		if err := c.sess.SetMode(*p.SetMode); err != nil {
			logging.Warn("control request rejected", zap.String("field", "set_mode"), zap.Error(err))
		}
	}
	if p.SetFan != nil {
		if err := c.sess.SetFan(*p.SetFan); err != nil {
			logging.Warn("control request rejected", zap.String("field", "set_fan"), zap.Error(err))
		}
	}
	if p.SetTemp != nil {
		if err := c.sess.SetTemp(*p.SetTemp); err != nil {
			logging.Warn("control request rejected", zap.String("field", "set_temp"), zap.Error(err))
		}
	}
	if p.SetSave != nil {
		if err := c.sess.SetSave(*p.SetSave); err != nil {
			logging.Warn("control request rejected", zap.String("field", "set_save"), zap.Error(err))
		}
	}
	if p.SetHumid != nil {
		if err := c.sess.SetHumid(*p.SetHumid); err != nil {
			logging.Warn("control request rejected", zap.String("field", "set_humid"), zap.Error(err))
		}
	}
}
