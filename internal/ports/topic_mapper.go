package ports

// TopicMapper — перевод логических имён топиков в «проводные» и обратно.
type TopicMapper interface {
	Outgoing(topic string) string
	Incoming(topic string) string
}
