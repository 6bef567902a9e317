// FILE: internal/service/chat_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"ai-docchat-be/internal/config"
	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/internal/pkg/serverutils"
	"ai-docchat-be/pkg/embedding"
	"ai-docchat-be/pkg/llm"
	"ai-docchat-be/pkg/rag"
	"ai-docchat-be/pkg/store"
)

// ragInstruction keeps the model inside the retrieved material. The model is
// told what to do when the material does not answer the question so it cannot
// silently improvise.
const ragInstruction = "You are a helpful assistant answering questions about the user's uploaded documents. " +
	"Use ONLY the context below to answer. " +
	"If the context does not contain the answer, say that the uploaded documents do not cover it."

// ragBlockDelimiter separates retrieved context blocks inside the synthesized
// system message.
const ragBlockDelimiter = "\n---\n"

type IChatService interface {
	// StreamChat validates the request, optionally augments the history with
	// retrieved document context, and returns the provider's live response
	// stream. The caller owns the reader.
	StreamChat(ctx context.Context, sessionId string, req *dto.ChatRequest) (io.ReadCloser, error)
}

type chatService struct {
	llmProvider       llm.Provider
	embeddingProvider embedding.Provider
	documents         *store.DocumentStore
	activity          *store.ActivityTracker
	aiCfg             config.AIConfig
	logger            logger.ILogger
	ragLogger         logger.ILogger
}

func NewChatService(
	llmProvider llm.Provider,
	embeddingProvider embedding.Provider,
	documents *store.DocumentStore,
	activity *store.ActivityTracker,
	aiCfg config.AIConfig,
	appLogger logger.ILogger,
	ragLogger logger.ILogger,
) IChatService {
	return &chatService{
		llmProvider:       llmProvider,
		embeddingProvider: embeddingProvider,
		documents:         documents,
		activity:          activity,
		aiCfg:             aiCfg,
		logger:            appLogger,
		ragLogger:         ragLogger,
	}
}

func (cs *chatService) StreamChat(ctx context.Context, sessionId string, req *dto.ChatRequest) (io.ReadCloser, error) {
	if cs.aiCfg.Provider == "openai" && cs.aiCfg.APIKey == "" {
		return nil, serverutils.NewMissingConfiguration("chat provider 'openai' requires AI_API_KEY")
	}
	if len(req.Messages) == 0 {
		return nil, serverutils.NewInvalidInput("messages must not be empty")
	}

	cs.activity.Touch(sessionId)

	history := toProviderMessages(req.Messages)
	if req.Augment() {
		history = cs.augment(ctx, sessionId, req, history)
	}

	opts := make([]llm.Option, 0, 3)
	if req.Model != "" {
		opts = append(opts, llm.WithModel(req.Model))
	}
	if req.Temperature != nil {
		opts = append(opts, llm.WithTemperature(*req.Temperature))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(req.MaxTokens))
	}

	stream, err := cs.llmProvider.ChatStream(ctx, history, opts...)
	if err != nil {
		var provErr *llm.ProviderError
		if errors.As(err, &provErr) {
			return nil, serverutils.NewProviderError(provErr.Status, provErr.Body)
		}
		return nil, fmt.Errorf("start chat stream: %w", err)
	}
	return stream, nil
}

// augment splices a context system message in front of the last user message.
// Every failure inside is contained: the caller always gets a usable history,
// augmented or not.
func (cs *chatService) augment(ctx context.Context, sessionId string, req *dto.ChatRequest, history []llm.Message) []llm.Message {
	docs := cs.documents.ResolveDocuments(sessionId)
	if len(docs) == 0 {
		return history
	}

	lastUser := req.LastUserMessage()
	if lastUser == nil {
		return history
	}
	query := strings.TrimSpace(lastUser.Content)
	if query == "" {
		return history
	}

	queryVector, err := cs.embeddingProvider.Embed(ctx, query)
	if err != nil {
		cs.logger.Warn("chat", "retrieval degraded, continuing without context", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return history
	}

	blocks := rag.Retrieve(queryVector, docs, rag.DefaultTopK)
	cs.ragLogger.Info("rag", "retrieval decision", map[string]interface{}{
		"session_id": sessionId,
		"documents":  len(docs),
		"blocks":     len(blocks),
		"query_len":  len(query),
	})
	if len(blocks) == 0 {
		return history
	}

	systemMsg := llm.Message{
		Role:    "system",
		Content: ragInstruction + "\n\nContext:\n" + strings.Join(blocks, ragBlockDelimiter),
	}
	return spliceBeforeLastUser(history, systemMsg)
}

// spliceBeforeLastUser inserts msg immediately before the last message with
// role "user" so providers that weigh recent turns keep the context adjacent
// to the question.
func spliceBeforeLastUser(history []llm.Message, msg llm.Message) []llm.Message {
	idx := len(history)
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "user" {
			idx = i
			break
		}
	}

	out := make([]llm.Message, 0, len(history)+1)
	out = append(out, history[:idx]...)
	out = append(out, msg)
	out = append(out, history[idx:]...)
	return out
}

func toProviderMessages(messages []dto.ChatMessage) []llm.Message {
	out := make([]llm.Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, llm.Message{Role: m.Role, Content: m.Content})
	}
	return out
}
