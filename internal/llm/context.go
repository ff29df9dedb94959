package llm

import "context"

// Purpose names the kind of deck work a request serves. It is recorded on
// every stored request event and forwarded to the provider as request
// metadata so usage can be split per purpose on the provider side.
type Purpose string

const (
	PurposeCardGen    Purpose = "card-gen"
	PurposeMCQConvert Purpose = "mcq-convert"
	PurposeUnknown    Purpose = "unknown"
)

type purposeKey struct{}

func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

// PurposeFrom returns PurposeUnknown when ctx carries no tag.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok && p != "" {
		return p
	}
	return PurposeUnknown
}

// requestTag is the opaque caller id sent as Anthropic metadata.user_id and
// the OpenAI-compatible "user" field.
func requestTag(ctx context.Context) string {
	return "flashdeck/" + string(PurposeFrom(ctx))
}
