package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nimbuslabs/nimbus-agent/internal/domain"
)

// Store persists conversations in Firestore: one document per
// conversation, messages in an ordered subcollection. Firestore
// transactions serialize the per-session counter and status writes.
type Store struct {
	client *firestore.Client
}

func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) conversationsCol() *firestore.CollectionRef {
	return s.client.Collection("conversations")
}

func (s *Store) conversationDoc(id domain.SessionID) *firestore.DocumentRef {
	return s.conversationsCol().Doc(string(id))
}

func (s *Store) messagesCol(id domain.SessionID) *firestore.CollectionRef {
	return s.conversationDoc(id).Collection("messages")
}

type conversationDoc struct {
	Status          string    `firestore:"status"`
	InvocationCount int       `firestore:"invocation_count"`
	MessageCount    int       `firestore:"message_count"`
	CreatedAt       time.Time `firestore:"created_at"`
	UpdatedAt       time.Time `firestore:"updated_at"`
}

type messageDoc struct {
	Author    string    `firestore:"author"`
	Role      string    `firestore:"role"`
	Content   string    `firestore:"content"`
	Seq       int       `firestore:"seq"`
	CreatedAt time.Time `firestore:"created_at"`
}

func (s *Store) CreateConversation(ctx context.Context, conv *domain.Conversation) error {
	doc := conversationDoc{
		Status:          string(conv.Status),
		InvocationCount: conv.InvocationCount,
		MessageCount:    len(conv.Messages),
		CreatedAt:       conv.CreatedAt,
		UpdatedAt:       conv.UpdatedAt,
	}

	if _, err := s.conversationDoc(conv.SessionID).Create(ctx, doc); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return domain.ErrConversationExists
		}
		return fmt.Errorf("firestore CreateConversation: %w", err)
	}
	return nil
}

func (s *Store) GetConversation(ctx context.Context, id domain.SessionID) (*domain.Conversation, error) {
	snap, err := s.conversationDoc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrConversationNotFound
		}
		return nil, fmt.Errorf("firestore GetConversation: %w", err)
	}

	var doc conversationDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetConversation decode: %w", err)
	}

	conv := &domain.Conversation{
		SessionID:       id,
		InvocationCount: doc.InvocationCount,
		Status:          domain.Status(doc.Status),
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}

	iter := s.messagesCol(id).OrderBy("seq", firestore.Asc).Documents(ctx)
	defer iter.Stop()
	for {
		msgSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore GetConversation messages: %w", err)
		}

		var m messageDoc
		if err := msgSnap.DataTo(&m); err != nil {
			return nil, fmt.Errorf("firestore GetConversation message decode: %w", err)
		}
		conv.Messages = append(conv.Messages, &domain.Message{
			ID:        domain.MessageID(msgSnap.Ref.ID),
			SessionID: id,
			Author:    m.Author,
			Role:      domain.Role(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}

	return conv, nil
}

// AppendMessage writes the message with the next sequence number. The
// transaction keeps the order stable even with clock skew between
// producers.
func (s *Store) AppendMessage(ctx context.Context, msg *domain.Message) error {
	convRef := s.conversationDoc(msg.SessionID)
	msgRef := s.messagesCol(msg.SessionID).Doc(string(msg.ID))

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(convRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return domain.ErrConversationNotFound
			}
			return err
		}

		var doc conversationDoc
		if err := snap.DataTo(&doc); err != nil {
			return err
		}
		if domain.Status(doc.Status) != domain.StatusActive {
			return domain.ErrConversationClosed
		}

		if err := tx.Create(msgRef, messageDoc{
			Author:    msg.Author,
			Role:      string(msg.Role),
			Content:   msg.Content,
			Seq:       doc.MessageCount + 1,
			CreatedAt: msg.CreatedAt,
		}); err != nil {
			return err
		}

		return tx.Update(convRef, []firestore.Update{
			{Path: "message_count", Value: firestore.Increment(1)},
			{Path: "updated_at", Value: msg.CreatedAt},
		})
	})
	if err != nil {
		if err == domain.ErrConversationNotFound || err == domain.ErrConversationClosed {
			return err
		}
		return fmt.Errorf("firestore AppendMessage: %w", err)
	}
	return nil
}

func (s *Store) IncrementInvocationCount(ctx context.Context, id domain.SessionID) (int, error) {
	convRef := s.conversationDoc(id)

	var count int
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(convRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return domain.ErrConversationNotFound
			}
			return err
		}

		var doc conversationDoc
		if err := snap.DataTo(&doc); err != nil {
			return err
		}

		count = doc.InvocationCount + 1
		return tx.Update(convRef, []firestore.Update{
			{Path: "invocation_count", Value: count},
		})
	})
	if err != nil {
		if err == domain.ErrConversationNotFound {
			return 0, err
		}
		return 0, fmt.Errorf("firestore IncrementInvocationCount: %w", err)
	}
	return count, nil
}

func (s *Store) SetStatus(ctx context.Context, id domain.SessionID, newStatus domain.Status) error {
	convRef := s.conversationDoc(id)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(convRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return domain.ErrConversationNotFound
			}
			return err
		}

		var doc conversationDoc
		if err := snap.DataTo(&doc); err != nil {
			return err
		}
		if domain.Status(doc.Status) != domain.StatusActive {
			return domain.ErrConversationClosed
		}

		return tx.Update(convRef, []firestore.Update{
			{Path: "status", Value: string(newStatus)},
			{Path: "updated_at", Value: time.Now()},
		})
	})
	if err != nil {
		if err == domain.ErrConversationNotFound || err == domain.ErrConversationClosed {
			return err
		}
		return fmt.Errorf("firestore SetStatus: %w", err)
	}
	return nil
}
