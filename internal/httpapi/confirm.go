package httpapi

import (
	"context"

	"github.com/dmitrijs2005/storyboard/internal/workflow"
	"github.com/gin-gonic/gin"
)

type ctxKey string

const confirmationKey ctxKey = "confirmation"

// confirmation carries the client's answer into the session and the
// question back out.
type confirmation struct {
	yes    bool
	prompt string
}

// Confirmer answers session prompts from the request: yes only when the
// request carried ?confirm=true.
var Confirmer workflow.Confirmer = workflow.ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) {
	c, ok := ctx.Value(confirmationKey).(*confirmation)
	if !ok {
		return false, nil
	}
	c.prompt = prompt
	return c.yes, nil
})

// withConfirmation attaches the answer from the query to the request
// context.
func withConfirmation(c *gin.Context) (context.Context, *confirmation) {
	conf := &confirmation{yes: c.Query("confirm") == "true"}
	return context.WithValue(c.Request.Context(), confirmationKey, conf), conf
}
