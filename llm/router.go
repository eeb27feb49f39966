package llm

import (
	"context"
	"errors"
)

// RoutePolicy picks the client, and optionally a model override, for a
// request.
type RoutePolicy interface {
	Select(req *ChatRequest) (Client, string, error)
}

// StaticPolicy routes by the request's model name when it has an explicit
// mapping, and falls back to Default otherwise. The cookbook uses it to keep
// cheap classification models and stronger analysis models behind one Client.
type StaticPolicy struct {
	Default Client
	ByModel map[string]Client
}

func (p StaticPolicy) Select(req *ChatRequest) (Client, string, error) {
	if req != nil && req.Model != "" {
		if c, ok := p.ByModel[req.Model]; ok && c != nil {
			return c, req.Model, nil
		}
		if p.Default != nil {
			return p.Default, req.Model, nil
		}
		return nil, "", errors.New("no default client configured")
	}
	if p.Default == nil {
		return nil, "", errors.New("no default client configured")
	}
	return p.Default, "", nil
}

// RouterClient is a Client that delegates each call through a RoutePolicy.
type RouterClient struct {
	policy RoutePolicy
}

func NewRouterClient(policy RoutePolicy) *RouterClient { return &RouterClient{policy: policy} }

func (r *RouterClient) Chat(ctx context.Context, req *ChatRequest) (*Response, error) {
	c, model, err := r.policy.Select(req)
	if err != nil {
		return nil, err
	}
	return c.Chat(ctx, withModel(req, model))
}

func (r *RouterClient) Completion(ctx context.Context, prompt string) (*Response, error) {
	c, _, err := r.policy.Select(&ChatRequest{})
	if err != nil {
		return nil, err
	}
	return c.Completion(ctx, prompt)
}

func (r *RouterClient) Stream(ctx context.Context, req *ChatRequest, output chan<- *Response) error {
	c, model, err := r.policy.Select(req)
	if err != nil {
		return err
	}
	return c.Stream(ctx, withModel(req, model), output)
}

func (r *RouterClient) Model() string      { return "router" }
func (r *RouterClient) Provider() Provider { return Provider("router") }

func (r *RouterClient) Validate() error {
	if r.policy == nil {
		return errors.New("nil route policy")
	}
	return nil
}

// withModel returns req with the model override applied, copying first so the
// caller's request is left untouched. The copy is shallow; routed requests are
// not mutated further downstream.
func withModel(req *ChatRequest, model string) *ChatRequest {
	if model == "" {
		return req
	}
	cp := ChatRequest{}
	if req != nil {
		cp = *req
	}
	cp.Model = model
	return &cp
}
