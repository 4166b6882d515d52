package pubsub

// PubSubClient publishes ladder events for downstream consumers (charts,
// office Slack bots) and decodes incoming payloads.
type PubSubClient interface {
	SendMessage(topic EventType, data any) error
	ProcessMessage(data []byte, returnValue any) error
}
