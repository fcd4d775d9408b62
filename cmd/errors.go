package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/josephgoksu/planwing/internal/llm"
	"github.com/josephgoksu/planwing/internal/projectctx"
	"github.com/josephgoksu/planwing/internal/taskgen"
	"github.com/josephgoksu/planwing/internal/ui"
)

// PrintError prints a user-friendly message for err. In verbose mode the full
// technical error is printed instead.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	if isVerbose() {
		fmt.Fprintf(w, "%s %v\n", ui.Icon("Error:", ui.StyleError), err)
		return
	}
	fmt.Fprintf(w, "%s %s\n", ui.Icon("Error:", ui.StyleError), userMessage(err))
}

func userMessage(err error) string {
	var (
		timeout *llm.ProviderTimeoutError
		auth    *llm.ProviderAuthError
	)
	switch {
	case errors.Is(err, taskgen.ErrServiceUnavailable):
		return "AI features are disabled (set AI_FEATURES_ENABLED=true to enable them)."
	case errors.Is(err, projectctx.ErrProjectNotFound):
		return "Project not found or you do not have access to it."
	case errors.As(err, &timeout):
		return "The model did not answer in time. Try again or raise llm.timeout."
	case errors.As(err, &auth):
		return "The model provider rejected the credentials. Check your API key."
	default:
		return err.Error()
	}
}
