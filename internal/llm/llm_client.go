package llm

import "context"

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

type Message struct {
	Role    Role
	Content string
}

// LLMClient is the conversation collaborator: given the system prompt, the
// prior turns and the new user text it returns the model's reply.
type LLMClient interface {
	Ping(ctx context.Context) error
	Chat(ctx context.Context, system string, history []Message, user string) (string, error)
}
