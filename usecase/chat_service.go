package usecase

import (
	"context"

	"github.com/adewidar/storebot/domain"
	"github.com/adewidar/storebot/utils/log"
	"go.uber.org/zap"
)

// ChatService turns an inbound message into a generated reply: it composes
// the prompt from the catalog and the contact's recent history, calls the
// model, and records the exchange only after the model succeeded.
type ChatService struct {
	llm     domain.Llm
	catalog domain.Catalog
	history domain.HistoryStore
	window  int
}

// NewChatService wires the service. window is how many recent turns feed the
// prompt and should match the history store's retention bound; values < 1
// fall back to 5.
func NewChatService(llm domain.Llm, catalog domain.Catalog, history domain.HistoryStore, window int) *ChatService {
	if window < 1 {
		window = 5
	}
	return &ChatService{
		llm:     llm,
		catalog: catalog,
		history: history,
		window:  window,
	}
}

// Reply answers one inbound message for a contact. On generation failure the
// error is returned and history stays untouched, so an unanswered exchange
// never poisons future context; callers map the error to the fallback reply.
func (s *ChatService) Reply(ctx context.Context, contactID, message string) (string, error) {
	turns := s.history.Recent(contactID, s.window)
	products := s.catalog.All()
	prompt := ComposePrompt(turns, products, message)

	// The network call runs with no store lock held; a slow generation for
	// one contact cannot stall unrelated contacts.
	reply, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		log.WithCtx(ctx).Error("generation failed", zap.Error(err))
		return "", err
	}

	s.history.Append(contactID, domain.UserRole, message)
	s.history.Append(contactID, domain.AssistantRole, reply)

	log.WithCtx(ctx).Info("generated reply", zap.Int("reply_length", len(reply)))
	return reply, nil
}
