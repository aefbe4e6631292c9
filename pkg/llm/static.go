package llm

import "context"

// StaticClient returns a fixed reply or error; used in tests and offline
// deployments where no reasoning service is reachable.
type StaticClient struct {
	Reply string
	Err   error
}

// Complete implements Client.
func (c *StaticClient) Complete(_ context.Context, _ string) (string, error) {
	if c.Err != nil {
		return "", c.Err
	}
	return c.Reply, nil
}
