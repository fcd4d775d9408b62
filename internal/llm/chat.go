package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/model"

	"github.com/josephgoksu/planwing/internal/utils"
)

// chatProvider adapts an eino chat model to Provider. When structured is set
// the backend supports native JSON output; otherwise structured requests fall
// back to extracting JSON from free text.
type chatProvider struct {
	info       ProviderInfo
	chat       model.BaseChatModel
	structured model.BaseChatModel
	timeout    time.Duration
}

func (p *chatProvider) Info() ProviderInfo { return p.info }

func (p *chatProvider) SupportsStructuredOutput() bool { return p.structured != nil }

func (p *chatProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	return p.generate(ctx, p.chat, messages)
}

func (p *chatProvider) CompleteWithStructuredOutput(ctx context.Context, messages []Message, s Schema, out any) error {
	if p.structured != nil {
		content, err := p.generate(ctx, p.structured, withSchemaInstruction(messages, s))
		if err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(content), out); err != nil {
			return &OutputError{Schema: s.Name, Raw: content, Err: fmt.Errorf("decode: %w", err)}
		}
		return validateOutput(s, content, out)
	}

	content, err := p.generate(ctx, p.chat, messages)
	if err != nil {
		return err
	}
	return DecodeStructured(content, s, out)
}

func (p *chatProvider) generate(ctx context.Context, cm model.BaseChatModel, messages []Message) (string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	resp, err := cm.Generate(ctx, toEino(messages))
	if err != nil {
		return "", mapError(p.info.Provider, err)
	}
	if resp == nil {
		return "", fmt.Errorf("%s: empty response", p.info.Provider)
	}
	return resp.Content, nil
}

// DecodeStructured extracts JSON from free text, decodes it into out and
// validates it against s. Every failure is reported as *OutputError.
func DecodeStructured(content string, s Schema, out any) error {
	raw, err := utils.ExtractAndParseJSON[json.RawMessage](content)
	if err != nil {
		return &OutputError{Schema: s.Name, Raw: content, Err: err}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &OutputError{Schema: s.Name, Raw: content, Err: fmt.Errorf("decode: %w", err)}
	}
	return validateOutput(s, content, out)
}

func validateOutput(s Schema, raw string, out any) error {
	if s.Validate == nil {
		return nil
	}
	if err := s.Validate(out); err != nil {
		return &OutputError{Schema: s.Name, Raw: raw, Err: err}
	}
	return nil
}

// withSchemaInstruction prepends the schema as a system message. JSON mode
// guarantees syntax only, so the shape still has to be spelled out.
func withSchemaInstruction(messages []Message, s Schema) []Message {
	if len(s.Definition) == 0 {
		return messages
	}
	def, err := json.Marshal(s.Definition)
	if err != nil {
		return messages
	}
	instr := SystemMessage(fmt.Sprintf("Respond with one JSON object named %q that matches this JSON schema:\n%s", s.Name, def))
	return append([]Message{instr}, messages...)
}
