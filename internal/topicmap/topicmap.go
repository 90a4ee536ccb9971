// Пакет topicmap — перевод логических имён топиков в имена на брокере и обратно.
package topicmap

import (
	"strings"

	"github.com/Gunvolt24/groupclient/internal/ports"
)

var (
	_ ports.TopicMapper = Identity{}
	_ ports.TopicMapper = Prefix{}
)

// Identity — имена совпадают. Используется по умолчанию.
type Identity struct{}

func (Identity) Outgoing(topic string) string { return topic }
func (Identity) Incoming(topic string) string { return topic }

// Prefix — окружения с общим кластером: "records" -> "stage.records".
type Prefix struct {
	Prefix string
}

func (p Prefix) Outgoing(topic string) string {
	if p.Prefix == "" {
		return topic
	}
	return p.Prefix + topic
}

// Incoming — снимает префикс; чужие топики возвращаются как есть.
func (p Prefix) Incoming(topic string) string {
	return strings.TrimPrefix(topic, p.Prefix)
}
