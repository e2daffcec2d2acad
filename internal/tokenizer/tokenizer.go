// Package tokenizer estimates token counts for rendered text. An exact
// counter backed by a BPE encoding is preferred; a length-based approximation
// stands in when no encoding can be initialized.
package tokenizer

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

const (
	defaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"
)

// NewCounter returns a Counter for the requested model together with the
// name of the tokenizer actually selected. An empty model selects the
// default. When no BPE encoding can be initialized the approximate counter
// is returned instead of an error, so counting always succeeds.
func NewCounter(modelName string) (Counter, string) {
	selectedModel := strings.TrimSpace(modelName)
	if selectedModel == "" {
		selectedModel = defaultModel
	}
	selectedModel = strings.ToLower(selectedModel)

	encoding, encodingError := tiktoken.EncodingForModel(selectedModel)
	if encodingError == nil && encoding != nil {
		return openAICounter{encoding: encoding, name: selectedModel}, selectedModel
	}
	fallbackEncoding, fallbackError := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackError == nil && fallbackEncoding != nil {
		return openAICounter{encoding: fallbackEncoding, name: defaultEncodingName}, defaultEncodingName
	}
	approximate := ApproximateCounter{}
	return approximate, approximate.Name()
}
