package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const contentTypeHeader = "Content-Type"

// explicitContentType marks, in the request context, whether the caller
// set Content-Type under its canonical key.
type explicitContentType struct{}

// RestyTransport sends requests through a resty client.
type RestyTransport struct {
	client *resty.Client
}

// NewRestyTransport wraps client, or a new resty client when nil. It
// installs a pre-request hook on client, replacing any existing one, so
// only the caller's headers reach the wire.
func NewRestyTransport(client *resty.Client) *RestyTransport {
	if client == nil {
		client = resty.New()
	}
	client.SetPreRequestHook(dropDetectedContentType)
	return &RestyTransport{client: client}
}

// dropDetectedContentType removes the Content-Type resty derives from the
// body when the request did not carry one itself.
func dropDetectedContentType(_ *resty.Client, r *http.Request) error {
	if explicit, _ := r.Context().Value(explicitContentType{}).(bool); !explicit {
		r.Header.Del(contentTypeHeader)
	}
	return nil
}

// RoundTrip executes req. Status codes are returned as-is; resty's own
// error classification is not used.
func (t *RestyTransport) RoundTrip(ctx context.Context, req *Request) (*Reply, error) {
	_, explicit := req.Header(contentTypeHeader)
	r := t.client.R().SetContext(context.WithValue(ctx, explicitContentType{}, explicit))

	for key, value := range req.Headers() {
		if isContentLength(key) {
			continue
		}
		r.Header[key] = []string{value}
	}
	if req.HasBody() {
		r.SetBody(req.Body())
	}

	start := time.Now()
	resp, err := r.Execute(string(req.Method()), req.URL())
	if err != nil {
		return nil, err
	}

	return &Reply{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
		Timing: TimingInfo{
			StartTime: start,
			TotalTime: resp.Time(),
		},
	}, nil
}
