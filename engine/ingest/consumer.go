package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

const (
	// LoadSubject carries employee load batches.
	LoadSubject = "directory.load"
	// DLQSubject receives batches that failed MaxRetries times.
	DLQSubject = "directory.load.dlq"
	// MaxRetries before a batch is sent to the DLQ.
	MaxRetries = 3
)

const retryHeader = "X-Retry-Count"

// dlqMessage is published to the DLQ on repeated failure.
type dlqMessage struct {
	Batch   LoadBatch `json:"batch"`
	Error   string    `json:"error"`
	Retries int       `json:"retries"`
}

// StartConsumer subscribes the loader to the load subject. Requests carrying
// a reply subject get a LoadReply; fire-and-forget publishes are retried and
// eventually dead-lettered.
func StartConsumer(nc *nats.Conn, loader *Loader, log *slog.Logger) (*nats.Subscription, error) {
	if log == nil {
		log = slog.Default()
	}

	return nc.Subscribe(LoadSubject, func(msg *nats.Msg) {
		var batch LoadBatch
		if err := json.Unmarshal(msg.Data, &batch); err != nil {
			log.Error("load consumer: unmarshal failed", "error", err)
			return
		}

		ctx := context.Background()
		count, loadErr := loader.Load(ctx, batch.Results)

		if msg.Reply != "" {
			reply := LoadReply{Loaded: count}
			if loadErr != nil {
				reply.Error = loadErr.Error()
			}
			data, _ := json.Marshal(reply)
			if err := msg.Respond(data); err != nil {
				log.Error("load consumer: reply failed", "error", err)
			}
			return
		}

		if loadErr == nil {
			log.Info("load consumer: batch loaded", "employees", count)
			return
		}

		retries := 0
		if msg.Header != nil {
			if v := msg.Header.Get(retryHeader); v != "" {
				fmt.Sscanf(v, "%d", &retries)
			}
		}
		retries++
		log.Error("load consumer: load failed", "error", loadErr, "retry", retries)

		if retries >= MaxRetries {
			dlq := dlqMessage{Batch: batch, Error: loadErr.Error(), Retries: retries}
			data, _ := json.Marshal(dlq)
			if err := nc.Publish(DLQSubject, data); err != nil {
				log.Error("load consumer: DLQ publish failed", "error", err)
			}
			return
		}

		retryMsg := nats.NewMsg(LoadSubject)
		retryMsg.Data = msg.Data
		retryMsg.Header = nats.Header{}
		retryMsg.Header.Set(retryHeader, fmt.Sprintf("%d", retries))
		if err := nc.PublishMsg(retryMsg); err != nil {
			log.Error("load consumer: retry publish failed", "error", err)
		}
	})
}
