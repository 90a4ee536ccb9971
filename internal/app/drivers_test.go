package app

import (
	"context"
	"testing"

	"github.com/Gunvolt24/groupclient/config"
	"github.com/Gunvolt24/groupclient/internal/broker/kafkago"
	"github.com/Gunvolt24/groupclient/internal/broker/saramagroup"
)

func TestNewConnectionFactory(t *testing.T) {
	base := config.Kafka{Brokers: []string{"localhost:9092"}, ClientID: "test"}

	cases := []struct {
		driver  string
		check   func(t *testing.T, f any)
		wantErr bool
	}{
		{driver: "", check: func(t *testing.T, f any) {
			if _, ok := f.(*kafkago.Factory); !ok {
				t.Fatalf("got %T, want *kafkago.Factory", f)
			}
		}},
		{driver: "kafka-go", check: func(t *testing.T, f any) {
			if _, ok := f.(*kafkago.Factory); !ok {
				t.Fatalf("got %T, want *kafkago.Factory", f)
			}
		}},
		{driver: " Sarama ", check: func(t *testing.T, f any) {
			if _, ok := f.(*saramagroup.Factory); !ok {
				t.Fatalf("got %T, want *saramagroup.Factory", f)
			}
		}},
		{driver: "confluent", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.driver, func(t *testing.T) {
			k := base
			k.Driver = tc.driver
			f, err := newConnectionFactory(k, nopLog{})
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for driver %q", tc.driver)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tc.check(t, f)
		})
	}
}

type nopLog struct{}

func (nopLog) Infof(context.Context, string, ...any)  {}
func (nopLog) Warnf(context.Context, string, ...any)  {}
func (nopLog) Errorf(context.Context, string, ...any) {}
