package intel

import (
	"context"
	"fmt"

	"qrsafe/internal/domain"
	"qrsafe/internal/ports"
)

const searchQueryPattern = `Is "%s" a legitimate website or is it associated with scams, phishing, or malware? Provide any relevant security concerns.`

// Retriever asks a web-search enabled model what is known about a URL.
type Retriever struct {
	asker ports.Asker
	model string
}

func NewRetriever(asker ports.Asker, model string) *Retriever {
	return &Retriever{asker: asker, model: model}
}

// Retrieve issues a single search query. Failures come back as
// *domain.RetrievalError.
func (r *Retriever) Retrieve(ctx context.Context, rawURL string) (domain.Findings, error) {
	text, err := r.asker.Ask(ctx, ports.AskRequest{
		Model:     r.model,
		Prompt:    SearchQuery(rawURL),
		WebSearch: true,
	})
	if err != nil {
		return "", &domain.RetrievalError{URL: rawURL, Err: err}
	}
	return domain.Findings(text), nil
}

// SearchQuery is the natural-language question sent to the search model.
func SearchQuery(rawURL string) string {
	return fmt.Sprintf(searchQueryPattern, rawURL)
}
