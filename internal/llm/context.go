package llm

import "context"

type purposeKey struct{}

// Unlabeled is the purpose recorded for calls whose context carries none.
const Unlabeled = "unlabeled"

// WithPurpose tags the calls made with ctx, e.g. "task-set". The tag is
// stored with each recorded request event. An empty purpose is ignored.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	if purpose == "" {
		return ctx
	}
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the tag set by WithPurpose, or Unlabeled.
func PurposeFrom(ctx context.Context) string {
	if p, ok := ctx.Value(purposeKey{}).(string); ok {
		return p
	}
	return Unlabeled
}
