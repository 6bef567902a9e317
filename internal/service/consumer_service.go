// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strings"
	"time"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/pkg/embedding"
	"ai-docchat-be/pkg/events"
	"ai-docchat-be/pkg/nats"
	"ai-docchat-be/pkg/store"
	"ai-docchat-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	documents         *store.DocumentStore
	activity          *store.ActivityTracker
	embeddingProvider embedding.Provider
	eventPublisher    *nats.Publisher
	chunkSize         int
	chunkOverlap      int
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	documents *store.DocumentStore,
	activity *store.ActivityTracker,
	embeddingProvider embedding.Provider,
	eventPublisher *nats.Publisher,
	chunkSize int,
	chunkOverlap int,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		documents:         documents,
		activity:          activity,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
		chunkSize:         chunkSize,
		chunkOverlap:      chunkOverlap,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.IngestDocumentPayload
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal ingest message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Indexing document %s for session %s", payload.DocumentId, payload.SessionId)

	content, err := os.ReadFile(payload.Path)
	if err != nil {
		if os.IsNotExist(err) {
			// Session reclaimed while the message was in flight. Drop it.
			log.Printf("[WARN] Document file %s is gone, skipping", payload.Path)
			msg.Ack()
			return
		}
		log.Printf("[ERROR] Failed to read document file %s: %v", payload.Path, err)
		msg.Nack() // Nack for retriable errors
		return
	}

	chunks := utils.SplitText(string(content), cs.chunkSize, cs.chunkOverlap)
	log.Printf("[INFO] Document %s split into %d chunks", payload.DocumentId, len(chunks))

	embeddings := make([][]float32, 0, len(chunks))
	for i, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			// Keep positions aligned without spending a provider call.
			embeddings = append(embeddings, nil)
			continue
		}
		vector, err := cs.embeddingProvider.Embed(ctx, chunk)
		if err != nil {
			// The store tolerates a shorter embedding list; retrieval simply
			// ignores the unembedded tail.
			log.Printf("[ERROR] Failed to embed chunk %d of document %s: %v", i, payload.DocumentId, err)
			break
		}
		embeddings = append(embeddings, vector)
	}

	doc := &store.Document{
		ID:         payload.DocumentId,
		Filename:   payload.Filename,
		Chunks:     chunks,
		Embeddings: embeddings,
		CreatedAt:  time.Now(),
	}
	cs.documents.AddDocument(payload.SessionId, doc)
	cs.activity.Touch(payload.SessionId)

	if cs.eventPublisher != nil {
		evt := events.NewDocumentIndexed(payload.SessionId, payload.DocumentId, payload.Filename, len(chunks))
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish DOCUMENT_INDEXED event: %v", err)
		}
	}

	log.Printf("[INFO] Document %s indexed (%d chunks, %d embeddings)", payload.DocumentId, len(chunks), len(embeddings))
	msg.Ack()
}
