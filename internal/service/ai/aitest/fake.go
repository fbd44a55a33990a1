// Package aitest provides a scripted chat model for exercising AI flows
// without a hosted model.
package aitest

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// FakeModel answers every call with Reply, or Err when set. Respond, when
// set, takes precedence over both.
type FakeModel struct {
	Reply   string
	Err     error
	Respond func(input []*schema.Message) (*schema.Message, error)

	mu    sync.Mutex
	calls [][]*schema.Message
}

var _ model.ChatModel = (*FakeModel)(nil)

// Generate implements model.BaseChatModel.
func (f *FakeModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.mu.Lock()
	f.calls = append(f.calls, input)
	f.mu.Unlock()

	if f.Respond != nil {
		return f.Respond(input)
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return schema.AssistantMessage(f.Reply, nil), nil
}

// Stream implements model.BaseChatModel with a single-chunk stream.
func (f *FakeModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := f.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// BindTools implements model.ChatModel.
func (f *FakeModel) BindTools(_ []*schema.ToolInfo) error {
	return nil
}

// Calls returns how many times the model was invoked.
func (f *FakeModel) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// LastInput returns the messages of the latest call.
func (f *FakeModel) LastInput() []*schema.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return nil
	}
	return f.calls[len(f.calls)-1]
}
